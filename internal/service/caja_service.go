package service

import (
	"context"
	"errors"
	"time"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const cajasListLimit = 100

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uint, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	Actual(ctx context.Context) (*dto.CajaActualResponse, error)
	Listar(ctx context.Context) ([]dto.CajaResponse, error)
	Resumen(ctx context.Context, cajaID uint) (*dto.ResumenCajaResponse, error)
	// CajaAbierta is called by VentaService to gate sales.
	CajaAbierta(ctx context.Context) (*model.Caja, error)
	// BloquearTx re-checks inside a sale transaction that caja id is still
	// open and holds it until tx ends, so a concurrent Cerrar waits for it.
	BloquearTx(tx *gorm.DB, id uint) error
}

type cajaService struct {
	repo    repository.CajaRepository
	reporte repository.ReporteRepository
}

func NewCajaService(repo repository.CajaRepository, reporte repository.ReporteRepository) CajaService {
	return &cajaService{repo: repo, reporte: reporte}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uint, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	if _, err := s.repo.FindAbierta(ctx); err == nil {
		return nil, invalido("Ya existe una caja abierta. Cerrar la caja actual antes de abrir una nueva")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if req.MontoInicial.IsNegative() {
		return nil, invalido("El monto inicial no puede ser negativo")
	}

	caja := &model.Caja{
		FechaApertura: time.Now(),
		MontoInicial:  req.MontoInicial.Round(2),
		UsuarioID:     usuarioID,
		Estado:        model.CajaAbierta,
	}
	if err := s.repo.Create(ctx, caja); err != nil {
		return nil, err
	}
	log.Info().Uint("caja_id", caja.ID).Uint("usuario_id", usuarioID).Msg("caja abierta")
	resp := cajaResponse(caja)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Diferencia compares against the opening amount; Desvio compares against
// what the drawer should hold after cash sales.

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	if req.MontoFinal.IsNegative() {
		return nil, invalido("El monto final no puede ser negativo")
	}
	montoFinal := req.MontoFinal.Round(2)

	// The caja row stays locked from the cash totals until the close commits;
	// sales lock it too, so none can land in between.
	var caja *model.Caja
	efectivo := decimal.Zero
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		caja, err = s.repo.FindAbiertaTx(tx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalido("No hay caja abierta para cerrar")
			}
			return err
		}

		if s.reporte != nil {
			totales, err := s.reporte.TotalesPorMetodoTx(ctx, tx, caja.ID)
			if err != nil {
				return err
			}
			for _, t := range totales {
				if t.MetodoPago == model.PagoEfectivo {
					efectivo = efectivo.Add(t.Total)
				}
			}
		}

		ahora := time.Now()
		caja.FechaCierre = &ahora
		caja.MontoFinal = &montoFinal
		if err := s.repo.CerrarTx(tx, caja); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalido("No hay caja abierta para cerrar")
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	esperado := caja.MontoInicial.Add(efectivo)
	desvio := montoFinal.Sub(esperado)
	var desvioPct decimal.Decimal
	if !esperado.IsZero() {
		desvioPct = desvio.Div(esperado).Mul(decimal.NewFromInt(100)).Round(2)
	}
	clasificacion := clasificarDesvio(desvioPct)

	log.Info().
		Uint("caja_id", caja.ID).
		Str("esperado", esperado.StringFixed(2)).
		Str("desvio", desvio.StringFixed(2)).
		Str("clasificacion", clasificacion).
		Msg("caja cerrada")

	return &dto.CierreCajaResponse{
		ID:             caja.ID,
		MontoInicial:   caja.MontoInicial,
		MontoFinal:     montoFinal,
		Diferencia:     montoFinal.Sub(caja.MontoInicial),
		VentasEfectivo: efectivo,
		Esperado:       esperado,
		Desvio:         desvio,
		Clasificacion:  clasificacion,
	}, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) Actual(ctx context.Context) (*dto.CajaActualResponse, error) {
	caja, err := s.repo.FindAbierta(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.CajaActualResponse{Abierta: false}, nil
	}
	if err != nil {
		return nil, err
	}
	resp := cajaResponse(caja)
	return &dto.CajaActualResponse{Abierta: true, Caja: &resp}, nil
}

func (s *cajaService) Listar(ctx context.Context) ([]dto.CajaResponse, error) {
	cajas, err := s.repo.List(ctx, cajasListLimit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i := range cajas {
		resp[i] = cajaResponse(&cajas[i])
	}
	return resp, nil
}

func (s *cajaService) Resumen(ctx context.Context, cajaID uint) (*dto.ResumenCajaResponse, error) {
	if _, err := s.repo.FindByID(ctx, cajaID); err != nil {
		return nil, lookupErr(err, "Caja no encontrada")
	}
	resp := &dto.ResumenCajaResponse{CajaID: cajaID}
	if s.reporte == nil {
		return resp, nil
	}
	totales, err := s.reporte.TotalesPorMetodo(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	anuladas, err := s.reporte.ContarAnuladas(ctx, cajaID)
	if err != nil {
		return nil, err
	}

	resp.Anuladas = anuladas
	for _, t := range totales {
		resp.CantidadVentas += t.Cantidad
		resp.Total = resp.Total.Add(t.Total)
		switch t.MetodoPago {
		case model.PagoEfectivo:
			resp.PorMetodo.Efectivo = t.Total
		case model.PagoTarjeta:
			resp.PorMetodo.Tarjeta = t.Total
		case model.PagoTransferencia:
			resp.PorMetodo.Transferencia = t.Total
		}
	}
	return resp, nil
}

func (s *cajaService) CajaAbierta(ctx context.Context) (*model.Caja, error) {
	caja, err := s.repo.FindAbierta(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalido("No hay caja abierta. Abrir caja antes de realizar ventas")
	}
	return caja, err
}

func (s *cajaService) BloquearTx(tx *gorm.DB, id uint) error {
	err := s.repo.BloquearAbiertaTx(tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalido("No hay caja abierta. Abrir caja antes de realizar ventas")
	}
	return err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// clasificarDesvio returns "normal" | "advertencia" | "critico"
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%
func clasificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}

func cajaResponse(c *model.Caja) dto.CajaResponse {
	resp := dto.CajaResponse{
		ID:            c.ID,
		FechaApertura: c.FechaApertura.Format(dto.Fecha),
		MontoInicial:  c.MontoInicial,
		MontoFinal:    c.MontoFinal,
		UsuarioID:     c.UsuarioID,
		Estado:        c.Estado,
	}
	if c.FechaCierre != nil {
		f := c.FechaCierre.Format(dto.Fecha)
		resp.FechaCierre = &f
	}
	return resp
}
