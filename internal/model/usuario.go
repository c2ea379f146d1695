package model

import "time"

// Roles, ordered by privilege.
const (
	RolAdmin    = "Admin"
	RolCajero   = "Cajero"
	RolAuxiliar = "Auxiliar"
)

// NivelRol maps each role to its rank; unknown roles rank 0.
var NivelRol = map[string]int{
	RolAdmin:    3,
	RolCajero:   2,
	RolAuxiliar: 1,
}

// TieneRol reports whether actual ranks at or above requerido.
// Unknown roles never pass.
func TieneRol(requerido, actual string) bool {
	nivel := NivelRol[actual]
	return nivel > 0 && nivel >= NivelRol[requerido]
}

// Usuario stores system users with role-based access.
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Nombre       string `gorm:"not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
