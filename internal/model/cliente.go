package model

import "time"

// Cliente is an optional buyer attached to a Venta. Sales without a
// cliente are recorded as "Consumidor final".
type Cliente struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"not null"`
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }
