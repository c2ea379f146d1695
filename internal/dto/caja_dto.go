package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial"`
}

type CerrarCajaRequest struct {
	MontoFinal decimal.Decimal `json:"monto_final"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID            uint             `json:"id"`
	FechaApertura string           `json:"fecha_apertura"`
	FechaCierre   *string          `json:"fecha_cierre"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoFinal    *decimal.Decimal `json:"monto_final"`
	UsuarioID     uint             `json:"usuario_id"`
	Estado        string           `json:"estado"`
}

// CajaActualResponse answers GET /api/caja/actual.
type CajaActualResponse struct {
	Abierta bool          `json:"abierta"`
	Caja    *CajaResponse `json:"caja"`
}

// CierreCajaResponse is returned when a caja is closed. Esperado is
// monto_inicial plus cash sales; Desvio is monto_final minus Esperado.
type CierreCajaResponse struct {
	ID             uint            `json:"id"`
	MontoInicial   decimal.Decimal `json:"monto_inicial"`
	MontoFinal     decimal.Decimal `json:"monto_final"`
	Diferencia     decimal.Decimal `json:"diferencia"`
	VentasEfectivo decimal.Decimal `json:"ventas_efectivo"`
	Esperado       decimal.Decimal `json:"esperado"`
	Desvio         decimal.Decimal `json:"desvio"`
	Clasificacion  string          `json:"clasificacion"` // normal | advertencia | critico
}

type MontosPorMetodo struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`
}

// ResumenCajaResponse aggregates the completed sales of one caja.
type ResumenCajaResponse struct {
	CajaID         uint            `json:"caja_id"`
	CantidadVentas int             `json:"cantidad_ventas"`
	Total          decimal.Decimal `json:"total"`
	PorMetodo      MontosPorMetodo `json:"por_metodo"`
	Anuladas       int             `json:"anuladas"`
}
