package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductoRequest is used for both create and full update.
type ProductoRequest struct {
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,max=32"`
	Nombre       string          `json:"nombre"        validate:"required,min=1,max=120"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	StockMinimo  *int            `json:"stock_minimo"`
	ProveedorID  *uint           `json:"fk_proveedor"`
}

type AgregarStockRequest struct {
	Cantidad int `json:"cantidad"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           uint            `json:"id"`
	CodigoBarras *string         `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	StockMinimo  int             `json:"stock_minimo"`
	ProveedorID  *uint           `json:"fk_proveedor"`
	Activo       bool            `json:"activo"`
	AlertaStock  bool            `json:"alerta_stock"`
}

// ConsultaPreciosResponse is returned by the public price check endpoint (no auth required).
type ConsultaPreciosResponse struct {
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
}
