package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"minimercado/internal/apierror"
	"minimercado/internal/dto"
	"minimercado/internal/infra"
	"minimercado/internal/middleware"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type VentasHandler struct {
	svc    service.VentaService
	tienda string
}

func NewVentasHandler(svc service.VentaService, tienda string) *VentasHandler {
	return &VentasHandler{svc: svc, tienda: tienda}
}

// RegistrarVenta godoc
// @Summary Registrar una venta
// @Description Descuenta stock de forma atómica y exige una caja abierta.
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVentaRequest true "Items y pago"
// @Success 201 {object} dto.VentaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
		return
	}

	venta, err := h.svc.Registrar(c.Request.Context(), claims.UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	log.Info().
		Uint("venta_id", venta.ID).
		Str("total", venta.Total.StringFixed(2)).
		Str("metodo", venta.MetodoPago).
		Msg("venta registrada")
	ok(c, http.StatusCreated, gin.H{"message": "Venta registrada", "venta": venta})
}

// ListarVentas godoc
// @Summary Últimas ventas
// @Tags ventas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.VentaResponse
// @Router /api/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	ventas, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"ventas": ventas})
}

func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	venta, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"venta": venta})
}

// AnularVenta godoc
// @Summary Anular una venta y reponer stock
// @Tags ventas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Venta ID"
// @Success 200 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /api/ventas/{id} [delete]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Venta anulada"})
}

// Ticket renders the sale ticket as PDF on the fly.
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	venta, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := infra.WriteTicketPDF(&buf, h.tienda, *venta); err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="ticket_%d.pdf"`, venta.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
