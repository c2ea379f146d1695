package service

import (
	"context"
	"errors"
	"time"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/pos"
	"minimercado/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const ventasListLimit = 200

// TicketEnqueuer schedules the printable ticket of a confirmed sale.
type TicketEnqueuer interface {
	EnqueueTicket(ctx context.Context, ventaID uint, email *string) error
}

type VentaService interface {
	Registrar(ctx context.Context, usuarioID uint, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error)
	Listar(ctx context.Context) ([]dto.VentaResponse, error)
	Anular(ctx context.Context, id uint) error
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	caja         CajaService
	inventario   InventarioService
	tickets      TicketEnqueuer // nil disables tickets
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	caja CajaService,
	inventario InventarioService,
	tickets TicketEnqueuer,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		caja:         caja,
		inventario:   inventario,
		tickets:      tickets,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Registrar ─────────────────────────────────────────────────────────────────
//   1. Caja must be open
//   2. Every product exists, is active and has stock (pre-flight, outside TX)
//   3. Total from server prices
//   4. Payment checked with the POS checkout rules
//   5. BEGIN TX: lock the caja (still open?), conditional stock decrement,
//      venta + detalles. COMMIT
//   6. (async) ticket job, best effort

func (s *ventaService) Registrar(ctx context.Context, usuarioID uint, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	caja, err := s.caja.CajaAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, invalido(pos.ErrCarritoVacio.Error())
	}

	// Same product twice in the payload counts as one line.
	cantidades := make(map[uint]int, len(req.Items))
	orden := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Cantidad <= 0 {
			return nil, invalido("La cantidad debe ser mayor a 0")
		}
		if _, ok := cantidades[it.ProductoID]; !ok {
			orden = append(orden, it.ProductoID)
		}
		cantidades[it.ProductoID] += it.Cantidad
	}

	detalles := make([]model.DetalleVenta, 0, len(orden))
	total := decimal.Zero
	for _, id := range orden {
		p, err := s.productoRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalidof("Producto %d no existe", id)
			}
			return nil, err
		}
		cantidad := cantidades[id]
		if p.Stock < cantidad {
			return nil, invalidof("Stock insuficiente para %s. Disponible: %d", p.Nombre, p.Stock)
		}
		subtotal := p.Precio.Mul(decimal.NewFromInt(int64(cantidad)))
		total = total.Add(subtotal)
		detalles = append(detalles, model.DetalleVenta{
			ProductoID:     p.ID,
			Cantidad:       cantidad,
			PrecioUnitario: p.Precio,
			Subtotal:       subtotal,
			Producto:       p,
		})
	}

	pago := pagoDesde(req, total)
	resultado, err := pos.ValidarPago(total, pago)
	if err != nil {
		return nil, invalido(err.Error())
	}

	var cliente *model.Cliente
	if req.ClienteID != nil {
		cliente, err = s.clienteRepo.FindByID(ctx, *req.ClienteID)
		if err != nil {
			return nil, lookupErr(err, "Cliente no encontrado")
		}
	}

	venta := &model.Venta{
		Fecha:      time.Now(),
		Total:      total,
		ClienteID:  req.ClienteID,
		UsuarioID:  usuarioID,
		CajaID:     caja.ID,
		MetodoPago: pago.Metodo,
		MontoPago:  pos.MontoCobrado(total, pago),
		Cambio:     resultado.Cambio,
		Referencia: blankToNil(req.Referencia),
		Estado:     model.VentaCompletada,
		Cliente:    cliente,
		Detalles:   detalles,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.caja.BloquearTx(tx, caja.ID); err != nil {
			return err
		}
		for _, d := range detalles {
			ok, err := s.productoRepo.DescontarStockTx(tx, d.ProductoID, d.Cantidad)
			if err != nil {
				return err
			}
			if !ok {
				return invalidof("Stock insuficiente para %s", d.Producto.Nombre)
			}
		}
		return s.repo.CreateTx(ctx, tx, venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Uint("venta_id", venta.ID).
		Uint("caja_id", caja.ID).
		Str("total", total.StringFixed(2)).
		Str("metodo_pago", pago.Metodo).
		Msg("venta registrada")

	for _, d := range detalles {
		s.inventario.InvalidarPrecio(ctx, d.Producto.CodigoBarras)
	}

	if s.tickets != nil {
		var email *string
		if cliente != nil {
			email = cliente.Email
		}
		if err := s.tickets.EnqueueTicket(ctx, venta.ID, email); err != nil {
			log.Warn().Err(err).Uint("venta_id", venta.ID).Msg("ticket: enqueue failed")
		}
	}

	// Reload for the usuario name; the in-memory venta is good enough otherwise.
	if saved, err := s.repo.FindByID(ctx, venta.ID); err == nil {
		venta = saved
	}
	resp := ventaResponse(venta)
	return &resp, nil
}

// pagoDesde fills the defaults of a sale request: no method means cash, and
// cash with monto_pago absent means exact payment. An explicit 0 is kept.
func pagoDesde(req dto.RegistrarVentaRequest, total decimal.Decimal) pos.Pago {
	p := pos.Pago{Metodo: req.MetodoPago}
	if req.MontoPago != nil {
		p.Monto = *req.MontoPago
	}
	if req.Referencia != nil {
		p.Referencia = *req.Referencia
	}
	if p.Metodo == "" {
		p.Metodo = model.PagoEfectivo
	}
	if p.Metodo == model.PagoEfectivo && req.MontoPago == nil {
		p.Monto = total
	}
	return p
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Venta no encontrada")
	}
	resp := ventaResponse(v)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.List(ctx, ventasListLimit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		resp[i] = ventaResponse(&ventas[i])
	}
	return resp, nil
}

// ── Anular ────────────────────────────────────────────────────────────────────

func (s *ventaService) Anular(ctx context.Context, id uint) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "Venta no encontrada")
	}
	if venta.Estado == model.VentaAnulada {
		return invalido("La venta ya está anulada")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateEstadoTx(tx, venta.ID, model.VentaCompletada, model.VentaAnulada)
		if err != nil {
			return err
		}
		if !ok {
			return invalido("La venta ya está anulada")
		}
		for _, d := range venta.Detalles {
			if err := s.productoRepo.AjustarStockTx(tx, d.ProductoID, d.Cantidad); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	for _, d := range venta.Detalles {
		if d.Producto != nil {
			s.inventario.InvalidarPrecio(ctx, d.Producto.CodigoBarras)
		}
	}
	log.Info().Uint("venta_id", venta.ID).Msg("venta anulada")
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func ventaResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:         v.ID,
		Fecha:      v.Fecha.Format(dto.Fecha),
		Cliente:    "Consumidor final",
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		MontoPago:  v.MontoPago,
		Cambio:     v.Cambio,
		Referencia: v.Referencia,
		Estado:     v.Estado,
		CajaID:     v.CajaID,
		Items:      make([]dto.ItemVentaResponse, len(v.Detalles)),
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.Nombre
	}
	if v.Usuario != nil {
		resp.Usuario = v.Usuario.Nombre
	}
	for i, d := range v.Detalles {
		item := dto.ItemVentaResponse{
			ProductoID:     d.ProductoID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			item.Producto = d.Producto.Nombre
		}
		resp.Items[i] = item
	}
	return resp
}
