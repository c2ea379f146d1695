package handler

import (
	"net/http"

	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication and no side effects.
type ConsultaPreciosHandler struct{ svc service.InventarioService }

func NewConsultaPreciosHandler(svc service.InventarioService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// PrecioPorCodigo godoc
// @Summary Consulta de precio por codigo de barras (sin autenticacion)
// @Tags precio
// @Produce json
// @Param codigo path string true "Codigo de barras"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/inventario/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) PrecioPorCodigo(c *gin.Context) {
	producto, err := h.svc.ConsultarPrecio(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"producto": producto})
}
