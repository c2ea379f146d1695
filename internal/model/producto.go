package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a sellable item. Sales decrement Stock with a conditional
// update inside their transaction, so it never goes below zero.
type Producto struct {
	ID           uint            `gorm:"primaryKey"`
	CodigoBarras *string         `gorm:"type:varchar(32);index"`
	Nombre       string          `gorm:"index;not null"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock        int             `gorm:"not null;default:0"`
	StockMinimo  int             `gorm:"not null"`
	ProveedorID  *uint           `gorm:"index"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }

// AlertaStock reports whether the product reached its reorder threshold.
func (p Producto) AlertaStock() bool { return p.Stock <= p.StockMinimo }
