package pos

import (
	"errors"
	"fmt"
	"strings"

	"minimercado/internal/model"

	"github.com/shopspring/decimal"
)

// Tolerancia absorbs rounding when comparing the amount received with the total.
var Tolerancia = decimal.New(1, -2)

var (
	ErrMetodoInvalido      = errors.New("Método de pago inválido")
	ErrReferenciaRequerida = errors.New("Ingrese la referencia del pago")
)

// Pago is what the customer hands over.
type Pago struct {
	Metodo     string
	Monto      decimal.Decimal
	Referencia string
}

// Resultado is the outcome of comparing a payment with the total.
type Resultado struct {
	Cambio     decimal.Decimal // change to return, never negative
	Faltante   decimal.Decimal // deficit when the payment falls short
	Suficiente bool
}

// Cambio computes the change for a cash payment. Shortfalls within
// Tolerancia count as paid with zero change.
func Cambio(total, recibido decimal.Decimal) Resultado {
	diff := recibido.Sub(total)
	if diff.GreaterThanOrEqual(Tolerancia.Neg()) {
		if diff.IsNegative() {
			diff = decimal.Zero
		}
		return Resultado{Cambio: diff.Round(2), Faltante: decimal.Zero, Suficiente: true}
	}
	return Resultado{Cambio: decimal.Zero, Faltante: diff.Neg().Round(2), Suficiente: false}
}

// ValidarPago applies the checkout rules. Card and transfer payments are
// taken as exactly the total and need a reference; cash must cover it.
func ValidarPago(total decimal.Decimal, p Pago) (Resultado, error) {
	switch p.Metodo {
	case model.PagoEfectivo:
		r := Cambio(total, p.Monto)
		if !r.Suficiente {
			return r, fmt.Errorf("El monto recibido es insuficiente. Faltan $%s", r.Faltante.StringFixed(2))
		}
		return r, nil
	case model.PagoTarjeta, model.PagoTransferencia:
		if strings.TrimSpace(p.Referencia) == "" {
			return Resultado{}, ErrReferenciaRequerida
		}
		return Resultado{Cambio: decimal.Zero, Faltante: decimal.Zero, Suficiente: true}, nil
	default:
		return Resultado{}, ErrMetodoInvalido
	}
}

// MontoCobrado is the amount recorded for a validated payment.
func MontoCobrado(total decimal.Decimal, p Pago) decimal.Decimal {
	if p.Metodo == model.PagoEfectivo {
		return p.Monto
	}
	return total
}
