//go:build integration

package service_test

// Full sale cycle against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/service/... -v

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"minimercado/internal/config"
	"minimercado/internal/dto"
	"minimercado/internal/infra"
	"minimercado/internal/model"
	"minimercado/internal/repository"
	"minimercado/internal/service"
	"minimercado/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

type env struct {
	db         *gorm.DB
	rdb        *redis.Client
	auth       service.AuthService
	inventario service.InventarioService
	clientes   service.ClienteService
	caja       service.CajaService
	ventas     service.VentaService
	admin      *dto.UsuarioResponse
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("minimercado_test"),
		tcPostgres.WithUsername("minimercado"),
		tcPostgres.WithPassword("minimercado"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase(pgURL, false)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{JWTSecret: "integration-secret", JWTExpirationHours: 1}

	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	reporteRepo, err := repository.NewReporteRepository(db)
	require.NoError(t, err)

	e := &env{db: db, rdb: rdb}
	e.auth = service.NewAuthService(usuarioRepo, cfg)
	e.inventario = service.NewInventarioService(productoRepo, repository.NewProveedorRepository(db), rdb)
	e.clientes = service.NewClienteService(clienteRepo)
	e.caja = service.NewCajaService(repository.NewCajaRepository(db), reporteRepo)
	e.ventas = service.NewVentaService(
		repository.NewVentaRepository(db), productoRepo, clienteRepo,
		e.caja, e.inventario, worker.NewDispatcher(rdb),
	)

	e.admin, err = e.auth.Registrar(ctx, dto.CrearUsuarioRequest{
		Nombre: "Admin", Username: "admin", Password: "admin123", Rol: model.RolAdmin,
	})
	require.NoError(t, err)
	return e
}

func (e *env) producto(t *testing.T, codigo, nombre, precio string, stock int) *dto.ProductoResponse {
	t.Helper()
	p, err := e.inventario.Crear(context.Background(), dto.ProductoRequest{
		CodigoBarras: &codigo,
		Nombre:       nombre,
		Precio:       decimal.RequireFromString(precio),
		Stock:        stock,
	})
	require.NoError(t, err)
	return p
}

func TestIntegration_SaleCycle(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	login, err := e.auth.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	_, err = e.auth.Validar(ctx, login.Token)
	require.NoError(t, err)

	leche := e.producto(t, "7790001", "Leche entera", "1150.50", 10)
	yerba := e.producto(t, "7790002", "Yerba 1kg", "3200", 4)

	email := "marta@mail.com"
	cliente, err := e.clientes.Crear(ctx, dto.ClienteRequest{Nombre: "Marta", Email: &email})
	require.NoError(t, err)

	_, err = e.caja.Abrir(ctx, e.admin.ID, dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	// price check fills the cache
	precio, err := e.inventario.ConsultarPrecio(ctx, "7790001")
	require.NoError(t, err)
	assert.Equal(t, 10, precio.Stock)
	n, err := e.rdb.Exists(ctx, "precio:7790001").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	venta, err := e.ventas.Registrar(ctx, e.admin.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{
			{ProductoID: leche.ID, Cantidad: 2},
			{ProductoID: yerba.ID, Cantidad: 1},
			{ProductoID: leche.ID, Cantidad: 1},
		},
		ClienteID:  &cliente.ID,
		MetodoPago: model.PagoEfectivo,
		MontoPago:  decp(decimal.NewFromInt(10000)),
	})
	require.NoError(t, err)
	assert.True(t, venta.Total.Equal(decimal.RequireFromString("6651.50")), venta.Total.String())
	assert.True(t, venta.Cambio.Equal(decimal.RequireFromString("3348.50")), venta.Cambio.String())
	assert.Equal(t, "Marta", venta.Cliente)
	assert.Equal(t, "Admin", venta.Usuario)
	require.Len(t, venta.Items, 2)

	// the sale dropped the cached entry and the next lookup sees new stock
	n, err = e.rdb.Exists(ctx, "precio:7790001").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
	precio, err = e.inventario.ConsultarPrecio(ctx, "7790001")
	require.NoError(t, err)
	assert.Equal(t, 7, precio.Stock)

	raw, err := e.rdb.RPop(ctx, worker.QueueTicket).Result()
	require.NoError(t, err)
	var job worker.Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	var ticket worker.TicketJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &ticket))
	assert.Equal(t, venta.ID, ticket.VentaID)
	require.NotNil(t, ticket.ClienteEmail)
	assert.Equal(t, email, *ticket.ClienteEmail)

	tarjeta, err := e.ventas.Registrar(ctx, e.admin.ID, dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: yerba.ID, Cantidad: 1}},
		MetodoPago: model.PagoTarjeta,
		Referencia: strp("VISA-0042"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Consumidor final", tarjeta.Cliente)

	require.NoError(t, e.ventas.Anular(ctx, tarjeta.ID))
	err = e.ventas.Anular(ctx, tarjeta.ID)
	assert.ErrorIs(t, err, service.ErrValidacion)

	y, err := e.inventario.Obtener(ctx, yerba.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, y.Stock)

	actual, err := e.caja.Actual(ctx)
	require.NoError(t, err)
	require.True(t, actual.Abierta)

	resumen, err := e.caja.Resumen(ctx, actual.Caja.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resumen.CantidadVentas)
	assert.Equal(t, 1, resumen.Anuladas)
	assert.True(t, resumen.PorMetodo.Efectivo.Equal(decimal.RequireFromString("6651.50")))
	assert.True(t, resumen.PorMetodo.Tarjeta.IsZero())

	cierre, err := e.caja.Cerrar(ctx, dto.CerrarCajaRequest{MontoFinal: decimal.RequireFromString("11651.50")})
	require.NoError(t, err)
	assert.True(t, cierre.Esperado.Equal(decimal.RequireFromString("11651.50")), cierre.Esperado.String())
	assert.True(t, cierre.Desvio.IsZero())
	assert.Equal(t, "normal", cierre.Clasificacion)

	_, err = e.ventas.Registrar(ctx, e.admin.ID, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: leche.ID, Cantidad: 1}},
	})
	assert.ErrorIs(t, err, service.ErrValidacion, "no caja abierta")
}

func TestIntegration_ConcurrentSalesNeverOversell(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	p := e.producto(t, "7790100", "Último alfajor", "800", 1)
	_, err := e.caja.Abrir(ctx, e.admin.ID, dto.AbrirCajaRequest{})
	require.NoError(t, err)

	const buyers = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		invalid int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ventas.Registrar(ctx, e.admin.ID, dto.RegistrarVentaRequest{
				Items: []dto.ItemVentaRequest{{ProductoID: p.ID, Cantidad: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, service.ErrValidacion):
				invalid++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, buyers-1, invalid)

	got, err := e.inventario.Obtener(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)
}

func TestIntegration_SingleOpenCajaIndex(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	repo := repository.NewCajaRepository(e.db)

	_, err := e.caja.Abrir(ctx, e.admin.ID, dto.AbrirCajaRequest{})
	require.NoError(t, err)

	// bypass the service check: the database must still refuse
	err = repo.Create(ctx, &model.Caja{UsuarioID: e.admin.ID, Estado: model.CajaAbierta})
	assert.Error(t, err)
}

func strp(s string) *string { return &s }

func decp(v decimal.Decimal) *decimal.Decimal { return &v }
