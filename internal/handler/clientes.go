package handler

import (
	"net/http"

	"minimercado/internal/dto"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Listar godoc
// @Summary Listar clientes activos
// @Tags clientes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ClienteResponse
// @Router /api/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	clientes, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"clientes": clientes})
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	cliente, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"cliente": cliente})
}

// Crear godoc
// @Summary Crear cliente
// @Tags clientes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ClienteRequest true "Cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Cliente creado", "cliente": cliente})
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Cliente actualizado", "cliente": cliente})
}

func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Cliente eliminado"})
}
