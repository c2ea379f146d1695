package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minimercado/internal/dto"
	"minimercado/internal/model"

	"github.com/shopspring/decimal"
)

var ErrProductoDesconocido = errors.New("Producto no encontrado")

// API is the part of the REST backend the terminal talks to.
// client.Client satisfies it.
type API interface {
	ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error)
	ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error)
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	CajaActual(ctx context.Context) (*dto.CajaActualResponse, error)
	AbrirCaja(ctx context.Context, montoInicial decimal.Decimal) (*dto.CajaResponse, error)
	CerrarCaja(ctx context.Context, montoFinal decimal.Decimal) (*dto.CierreCajaResponse, error)
}

// Terminal drives one checkout station: it keeps the catalog snapshot and
// the cart, and issues one request per action. Not safe for concurrent use.
type Terminal struct {
	api       API
	cart      Cart
	productos []dto.ProductoResponse
	clientes  []dto.ClienteResponse
}

func NewTerminal(api API) *Terminal { return &Terminal{api: api} }

// Cargar fetches products and clients.
func (t *Terminal) Cargar(ctx context.Context) error {
	productos, err := t.api.ListarProductos(ctx)
	if err != nil {
		return err
	}
	clientes, err := t.api.ListarClientes(ctx)
	if err != nil {
		return err
	}
	t.productos = productos
	t.clientes = clientes
	return nil
}

func (t *Terminal) Productos() []dto.ProductoResponse { return t.productos }
func (t *Terminal) Clientes() []dto.ClienteResponse   { return t.clientes }
func (t *Terminal) Carrito() *Cart                    { return &t.cart }

// Filtrar searches the loaded catalog.
func (t *Terminal) Filtrar(texto string) []dto.ProductoResponse {
	return FiltrarCatalogo(t.productos, texto)
}

// Agregar adds one unit of a loaded product, capped at its known stock.
func (t *Terminal) Agregar(productoID uint) error {
	for _, p := range t.productos {
		if p.ID == productoID {
			return t.cart.Agregar(p)
		}
	}
	return ErrProductoDesconocido
}

func (t *Terminal) Quitar(index int) error { return t.cart.Quitar(index) }

// Cobrar validates the payment, submits the sale and, on success, empties
// the cart and reloads the catalog so stock reflects the server. On any
// failure the cart is left untouched.
func (t *Terminal) Cobrar(ctx context.Context, clienteID *uint, p Pago) (*dto.VentaResponse, Resultado, error) {
	if t.cart.Vacio() {
		return nil, Resultado{}, ErrCarritoVacio
	}
	total := t.cart.Total()
	res, err := ValidarPago(total, p)
	if err != nil {
		return nil, res, err
	}

	monto := MontoCobrado(total, p)
	req := dto.RegistrarVentaRequest{
		Items:      t.cart.Lineas(),
		ClienteID:  clienteID,
		MetodoPago: p.Metodo,
		MontoPago:  &monto,
	}
	if p.Metodo != model.PagoEfectivo {
		ref := strings.TrimSpace(p.Referencia)
		req.Referencia = &ref
	}

	venta, err := t.api.RegistrarVenta(ctx, req)
	if err != nil {
		return nil, res, err
	}

	t.cart.Vaciar()
	productos, err := t.api.ListarProductos(ctx)
	if err != nil {
		// the sale went through; a stale catalog is reported but not fatal
		return venta, res, fmt.Errorf("venta %d registrada, no se pudo recargar el catálogo: %w", venta.ID, err)
	}
	t.productos = productos
	return venta, res, nil
}

func (t *Terminal) EstadoCaja(ctx context.Context) (*dto.CajaActualResponse, error) {
	return t.api.CajaActual(ctx)
}

func (t *Terminal) AbrirCaja(ctx context.Context, montoInicial decimal.Decimal) (*dto.CajaResponse, error) {
	if montoInicial.IsNegative() {
		return nil, errors.New("El monto inicial no puede ser negativo")
	}
	return t.api.AbrirCaja(ctx, montoInicial)
}

func (t *Terminal) CerrarCaja(ctx context.Context, montoFinal decimal.Decimal) (*dto.CierreCajaResponse, error) {
	if montoFinal.IsNegative() {
		return nil, errors.New("El monto final no puede ser negativo")
	}
	return t.api.CerrarCaja(ctx, montoFinal)
}
