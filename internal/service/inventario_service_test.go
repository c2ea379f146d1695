package service

import (
	"context"
	"testing"

	"minimercado/internal/dto"
	"minimercado/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func TestInventario_CrearConDefaults(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewInventarioService(repo, newStubProveedorRepo(3), nil)
	prov := uint(3)

	p, err := svc.Crear(context.Background(), dto.ProductoRequest{
		CodigoBarras: strp("  "),
		Nombre:       " Leche ",
		Precio:       d("1150.456"),
		Stock:        4,
		ProveedorID:  &prov,
	})
	require.NoError(t, err)
	assert.Nil(t, p.CodigoBarras)
	assert.Equal(t, "Leche", p.Nombre)
	assert.True(t, d("1150.46").Equal(p.Precio))
	assert.Equal(t, 5, p.StockMinimo)
	assert.True(t, p.AlertaStock)
	assert.True(t, p.Activo)
}

func TestInventario_Validaciones(t *testing.T) {
	repo := newStubProductoRepo(model.Producto{ID: 1, CodigoBarras: strp("779"), Nombre: "Yerba", Precio: d("10"), Stock: 1})
	svc := NewInventarioService(repo, newStubProveedorRepo(), nil)
	ctx := context.Background()
	prov := uint(8)

	cases := []struct {
		name string
		req  dto.ProductoRequest
		want string
	}{
		{"nombre", dto.ProductoRequest{Nombre: " ", Precio: d("1")}, "El nombre del producto es obligatorio"},
		{"precio", dto.ProductoRequest{Nombre: "X", Precio: d("-1")}, "El precio no puede ser negativo"},
		{"stock", dto.ProductoRequest{Nombre: "X", Precio: d("1"), Stock: -1}, "El stock no puede ser negativo"},
		{"minimo", dto.ProductoRequest{Nombre: "X", Precio: d("1"), StockMinimo: intp(-2)}, "El stock mínimo no puede ser negativo"},
		{"barcode", dto.ProductoRequest{Nombre: "X", Precio: d("1"), CodigoBarras: strp("779")}, "Ya existe un producto con ese código de barras"},
		{"proveedor", dto.ProductoRequest{Nombre: "X", Precio: d("1"), ProveedorID: &prov}, "Proveedor no encontrado"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Crear(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}

	// the same barcode is fine when editing the product that owns it
	_, err := svc.Actualizar(ctx, 1, dto.ProductoRequest{Nombre: "Yerba 1kg", Precio: d("12"), Stock: 3, CodigoBarras: strp("779")})
	assert.NoError(t, err)
}

func TestInventario_AgregarStockYAlertas(t *testing.T) {
	repo := newStubProductoRepo(
		model.Producto{ID: 1, Nombre: "Fideos", Precio: d("980"), Stock: 3, StockMinimo: 10},
		model.Producto{ID: 2, Nombre: "Arroz", Precio: d("900"), Stock: 30, StockMinimo: 5},
	)
	svc := NewInventarioService(repo, newStubProveedorRepo(), nil)
	ctx := context.Background()

	alertas, err := svc.Alertas(ctx)
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, "Fideos", alertas[0].Nombre)

	_, err = svc.AgregarStock(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrValidacion)

	p, err := svc.AgregarStock(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 23, p.Stock)
	assert.False(t, p.AlertaStock)

	alertas, err = svc.Alertas(ctx)
	require.NoError(t, err)
	assert.Empty(t, alertas)

	_, err = svc.AgregarStock(ctx, 42, 1)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestInventario_EliminarOcultaProducto(t *testing.T) {
	repo := newStubProductoRepo(model.Producto{ID: 1, CodigoBarras: strp("123"), Nombre: "Pan", Precio: d("500"), Stock: 5})
	svc := NewInventarioService(repo, newStubProveedorRepo(), nil)
	ctx := context.Background()

	precio, err := svc.ConsultarPrecio(ctx, " 123 ")
	require.NoError(t, err)
	assert.Equal(t, "Pan", precio.Nombre)
	assert.Equal(t, "123", precio.CodigoBarras)

	require.NoError(t, svc.Eliminar(ctx, 1))
	_, err = svc.Obtener(ctx, 1)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	_, err = svc.ConsultarPrecio(ctx, "123")
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.ErrorIs(t, svc.Eliminar(ctx, 1), ErrNoEncontrado)

	lista, err := svc.Listar(ctx)
	require.NoError(t, err)
	assert.Empty(t, lista)
}
