package handler

import (
	"net/http"

	"minimercado/internal/apierror"
	"minimercado/internal/dto"
	"minimercado/internal/middleware"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Actual godoc
// @Summary Estado de la caja del turno
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CajaActualResponse
// @Router /api/caja/actual [get]
func (h *CajaHandler) Actual(c *gin.Context) {
	actual, err := h.svc.Actual(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"abierta": actual.Abierta, "caja": actual.Caja})
}

// Abrir godoc
// @Summary Abre la caja del turno
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Monto inicial"
// @Success 201 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
		return
	}
	caja, err := h.svc.Abrir(c.Request.Context(), claims.UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Caja abierta", "caja": caja})
}

// Cerrar godoc
// @Summary Cierra la caja abierta y calcula el desvío
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Monto contado"
// @Success 200 {object} dto.CierreCajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cierre, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Caja cerrada", "data": cierre})
}

func (h *CajaHandler) Listar(c *gin.Context) {
	cajas, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"cajas": cajas})
}

// Resumen returns sales totals by payment method for one caja.
func (h *CajaHandler) Resumen(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	resumen, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"resumen": resumen})
}
