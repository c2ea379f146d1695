package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID uint `json:"producto_id" validate:"required"`
	Cantidad   int  `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	ClienteID  *uint              `json:"fk_cliente"`
	MetodoPago string             `json:"metodo_pago" validate:"omitempty,oneof=efectivo tarjeta transferencia"`
	// Cash received; absent means exact payment. Ignored for tarjeta and transferencia.
	MontoPago  *decimal.Decimal `json:"monto_pago"`
	Referencia *string          `json:"referencia"  validate:"omitempty,max=80"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     uint            `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         uint                `json:"id"`
	Fecha      string              `json:"fecha"`
	Cliente    string              `json:"cliente"`
	Usuario    string              `json:"usuario"`
	Total      decimal.Decimal     `json:"total"`
	MetodoPago string              `json:"metodo_pago"`
	MontoPago  decimal.Decimal     `json:"monto_pago"`
	Cambio     decimal.Decimal     `json:"cambio"`
	Referencia *string             `json:"referencia"`
	Estado     string              `json:"estado"`
	CajaID     uint                `json:"caja_id"`
	Items      []ItemVentaResponse `json:"items"`
}
