package service

import (
	"context"
	"testing"

	"minimercado/internal/dto"
	"minimercado/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── VentaService factory for tests ───────────────────────────────────────────

type ventaFixture struct {
	svc       VentaService
	ventas    *stubVentaRepo
	productos *stubProductoRepo
	cajas     *stubCajaRepo
	cajaSvc   CajaService
	tickets   *recordingTickets
}

func strp(s string) *string { return &s }

func decp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func buildVentaSvc(t *testing.T, cajaAbierta bool) ventaFixture {
	t.Helper()
	productos := newStubProductoRepo(
		model.Producto{ID: 1, CodigoBarras: strp("111"), Nombre: "Yerba", Precio: d("3450"), Stock: 10, StockMinimo: 2},
		model.Producto{ID: 2, CodigoBarras: strp("222"), Nombre: "Azúcar", Precio: d("1290.50"), Stock: 2, StockMinimo: 5},
	)
	clientes := newStubClienteRepo(model.Cliente{ID: 1, Nombre: "María", Email: strp("maria@example.com")})
	ventas := newStubVentaRepo()
	cajas := newStubCajaRepo()
	cajaSvc := NewCajaService(cajas, &stubReporteRepo{ventas: ventas})
	if cajaAbierta {
		_, err := cajaSvc.Abrir(context.Background(), 1, dto.AbrirCajaRequest{MontoInicial: d("0")})
		require.NoError(t, err)
	}
	inventario := NewInventarioService(productos, newStubProveedorRepo(), nil)
	tickets := &recordingTickets{}
	svc := NewVentaService(ventas, productos, clientes, cajaSvc, inventario, tickets)
	return ventaFixture{svc: svc, ventas: ventas, productos: productos, cajas: cajas, cajaSvc: cajaSvc, tickets: tickets}
}

func TestRegistrarVenta_SinCajaAbierta(t *testing.T) {
	f := buildVentaSvc(t, false)
	_, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacion)
	assert.Contains(t, err.Error(), "No hay caja abierta")
	assert.Equal(t, 10, f.productos.productos[1].Stock)
}

func TestRegistrarVenta_EfectivoConCambio(t *testing.T) {
	f := buildVentaSvc(t, true)

	v, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 2}, {ProductoID: 2, Cantidad: 1}},
		MetodoPago: model.PagoEfectivo,
		MontoPago:  decp("10000"),
	})
	require.NoError(t, err)

	assert.True(t, d("8190.50").Equal(v.Total), v.Total.String())
	assert.True(t, d("1809.50").Equal(v.Cambio), v.Cambio.String())
	assert.True(t, d("10000").Equal(v.MontoPago))
	assert.Equal(t, "Consumidor final", v.Cliente)
	assert.Equal(t, model.VentaCompletada, v.Estado)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "Yerba", v.Items[0].Producto)
	assert.True(t, d("6900").Equal(v.Items[0].Subtotal))

	assert.Equal(t, 8, f.productos.productos[1].Stock)
	assert.Equal(t, 1, f.productos.productos[2].Stock)
	assert.Equal(t, []uint{v.ID}, f.tickets.ventas)
}

func TestRegistrarVenta_PagoExactoPorDefecto(t *testing.T) {
	f := buildVentaSvc(t, true)

	v, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PagoEfectivo, v.MetodoPago)
	assert.True(t, v.Cambio.IsZero())
	assert.True(t, v.Total.Equal(v.MontoPago))
}

func TestRegistrarVenta_EfectivoInsuficiente(t *testing.T) {
	f := buildVentaSvc(t, true)

	_, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
		MetodoPago: model.PagoEfectivo,
		MontoPago:  decp("3000"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacion)
	assert.Equal(t, "El monto recibido es insuficiente. Faltan $450.00", err.Error())
	assert.Equal(t, 10, f.productos.productos[1].Stock)
	assert.Empty(t, f.ventas.ventas)
}

func TestRegistrarVenta_EfectivoCeroExplicito(t *testing.T) {
	f := buildVentaSvc(t, true)

	_, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
		MetodoPago: model.PagoEfectivo,
		MontoPago:  decp("0"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacion)
	assert.Equal(t, "El monto recibido es insuficiente. Faltan $3450.00", err.Error())
	assert.Equal(t, 10, f.productos.productos[1].Stock)
	assert.Empty(t, f.ventas.ventas)
}

func TestRegistrarVenta_CajaCerradaDuranteLaVenta(t *testing.T) {
	f := buildVentaSvc(t, true)
	ctx := context.Background()

	// the caja closes after the open check but before the sale commits
	f.cajas.antesDeBloquear = func() {
		f.cajas.antesDeBloquear = nil
		_, err := f.cajaSvc.Cerrar(ctx, dto.CerrarCajaRequest{MontoFinal: d("0")})
		require.NoError(t, err)
	}

	_, err := f.svc.Registrar(ctx, 1, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidacion)
	assert.Contains(t, err.Error(), "No hay caja abierta")
	assert.Equal(t, 10, f.productos.productos[1].Stock)
	assert.Empty(t, f.ventas.ventas)
}

func TestRegistrarVenta_TarjetaRequiereReferencia(t *testing.T) {
	f := buildVentaSvc(t, true)
	req := dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: 2, Cantidad: 1}},
		MetodoPago: model.PagoTarjeta,
	}

	_, err := f.svc.Registrar(context.Background(), 1, req)
	assert.ErrorIs(t, err, ErrValidacion)

	req.Referencia = strp("VISA-1234")
	v, err := f.svc.Registrar(context.Background(), 1, req)
	require.NoError(t, err)
	assert.True(t, v.Total.Equal(v.MontoPago))
	require.NotNil(t, v.Referencia)
	assert.Equal(t, "VISA-1234", *v.Referencia)
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	f := buildVentaSvc(t, true)

	// two lines for the same product are merged before the stock check
	_, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: 2, Cantidad: 2}, {ProductoID: 2, Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stock insuficiente para Azúcar")
	assert.Equal(t, 2, f.productos.productos[2].Stock)
}

func TestRegistrarVenta_ProductoInexistente(t *testing.T) {
	f := buildVentaSvc(t, true)
	_, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: 99, Cantidad: 1}},
	})
	assert.ErrorIs(t, err, ErrValidacion)
}

func TestRegistrarVenta_ConClienteEncolaEmail(t *testing.T) {
	f := buildVentaSvc(t, true)
	cliente := uint(1)

	v, err := f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items:     []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
		ClienteID: &cliente,
	})
	require.NoError(t, err)
	assert.Equal(t, "María", v.Cliente)
	require.Len(t, f.tickets.emails, 1)
	require.NotNil(t, f.tickets.emails[0])
	assert.Equal(t, "maria@example.com", *f.tickets.emails[0])

	otro := uint(42)
	_, err = f.svc.Registrar(context.Background(), 1, dto.RegistrarVentaRequest{
		Items:     []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
		ClienteID: &otro,
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestAnularVenta_RepoStock(t *testing.T) {
	f := buildVentaSvc(t, true)
	ctx := context.Background()

	v, err := f.svc.Registrar(ctx, 1, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, f.productos.productos[1].Stock)

	require.NoError(t, f.svc.Anular(ctx, v.ID))
	assert.Equal(t, 10, f.productos.productos[1].Stock)

	got, err := f.svc.Obtener(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VentaAnulada, got.Estado)

	err = f.svc.Anular(ctx, v.ID)
	assert.ErrorIs(t, err, ErrValidacion)
	assert.Equal(t, 10, f.productos.productos[1].Stock)

	assert.ErrorIs(t, f.svc.Anular(ctx, 999), ErrNoEncontrado)
}

func TestListarVentas_MasRecientePrimero(t *testing.T) {
	f := buildVentaSvc(t, true)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Registrar(ctx, 1, dto.RegistrarVentaRequest{
			Items: []dto.ItemVentaRequest{{ProductoID: 1, Cantidad: 1}},
		})
		require.NoError(t, err)
	}

	ventas, err := f.svc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, ventas, 3)
	assert.Greater(t, ventas[0].ID, ventas[2].ID)
}

func TestPagoDesde(t *testing.T) {
	total := decimal.NewFromInt(100)

	p := pagoDesde(dto.RegistrarVentaRequest{}, total)
	assert.Equal(t, model.PagoEfectivo, p.Metodo)
	assert.True(t, total.Equal(p.Monto))

	p = pagoDesde(dto.RegistrarVentaRequest{MontoPago: decp("0")}, total)
	assert.True(t, p.Monto.IsZero(), "an explicit 0 is not exact payment")

	p = pagoDesde(dto.RegistrarVentaRequest{MetodoPago: model.PagoTransferencia, Referencia: strp("CBU")}, total)
	assert.Equal(t, "CBU", p.Referencia)
	assert.True(t, p.Monto.IsZero())
}
