package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de caja
const (
	CajaAbierta = "Abierta"
	CajaCerrada = "Cerrada"
)

// Caja is one cash-register session: opened once per shift, closed once.
// Sales are only accepted while a Caja is Abierta.
type Caja struct {
	ID            uint      `gorm:"primaryKey"`
	FechaApertura time.Time `gorm:"not null"`
	FechaCierre   *time.Time
	MontoInicial  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MontoFinal    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	UsuarioID     uint             `gorm:"index"`
	Estado        string           `gorm:"type:varchar(10);not null;default:'Abierta';index"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (Caja) TableName() string { return "cajas" }

func (c Caja) Abierta() bool { return c.Estado == CajaAbierta }
