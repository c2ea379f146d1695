package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metodos de pago
const (
	PagoEfectivo      = "efectivo"
	PagoTarjeta       = "tarjeta"
	PagoTransferencia = "transferencia"
)

// Estado de venta
const (
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

// Venta is a confirmed sale. Detalles are written in the same transaction
// that decrements stock.
type Venta struct {
	ID         uint            `gorm:"primaryKey"`
	Fecha      time.Time       `gorm:"not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClienteID  *uint           `gorm:"index"`
	UsuarioID  uint            `gorm:"index"`
	CajaID     uint            `gorm:"index;not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	MontoPago  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cambio     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Referencia *string         `gorm:"type:varchar(80)"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'completada'"`

	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one line of a Venta, priced at sale time.
type DetalleVenta struct {
	ID             uint            `gorm:"primaryKey"`
	VentaID        uint            `gorm:"index;not null"`
	ProductoID     uint            `gorm:"index;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalle_venta" }

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Usuario{},
		&Proveedor{},
		&Producto{},
		&Cliente{},
		&Caja{},
		&Venta{},
		&DetalleVenta{},
	}
}
