// Package pos holds the point-of-sale logic shared by the terminal client
// and the server: cart bookkeeping, change calculation, payment checks and
// catalog search.
package pos

import (
	"errors"

	"minimercado/internal/dto"

	"github.com/shopspring/decimal"
)

var (
	ErrSinStock     = errors.New("No hay más stock disponible")
	ErrCarritoVacio = errors.New("El carrito está vacío")
	ErrItemInvalido = errors.New("Ítem inexistente en el carrito")
)

// CartItem is one line of the cart. StockMax is the stock known when the
// product was added; it is never written back to the server.
type CartItem struct {
	ProductoID uint            `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Cantidad   int             `json:"cantidad"`
	StockMax   int             `json:"stock_max"`
}

// Subtotal is Precio × Cantidad.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Precio.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// Cart is the in-memory sale being built. The zero value is an empty cart.
// A Cart is not safe for concurrent use.
type Cart struct {
	items []CartItem
}

// Agregar adds one unit of p. An existing line is incremented while its
// quantity stays below the known stock; a new line needs stock > 0.
func (c *Cart) Agregar(p dto.ProductoResponse) error {
	for i := range c.items {
		if c.items[i].ProductoID != p.ID {
			continue
		}
		if c.items[i].Cantidad >= p.Stock {
			return ErrSinStock
		}
		c.items[i].Cantidad++
		c.items[i].StockMax = p.Stock
		return nil
	}
	if p.Stock <= 0 {
		return ErrSinStock
	}
	c.items = append(c.items, CartItem{
		ProductoID: p.ID,
		Nombre:     p.Nombre,
		Precio:     p.Precio,
		Cantidad:   1,
		StockMax:   p.Stock,
	})
	return nil
}

// Quitar removes the line at index.
func (c *Cart) Quitar(index int) error {
	if index < 0 || index >= len(c.items) {
		return ErrItemInvalido
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// Total is the sum of every line subtotal.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Items returns a copy of the lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Vaciar()     { c.items = nil }
func (c *Cart) Vacio() bool { return len(c.items) == 0 }

// Lineas builds the items payload of POST /api/ventas.
func (c *Cart) Lineas() []dto.ItemVentaRequest {
	out := make([]dto.ItemVentaRequest, len(c.items))
	for i, it := range c.items {
		out[i] = dto.ItemVentaRequest{ProductoID: it.ProductoID, Cantidad: it.Cantidad}
	}
	return out
}
