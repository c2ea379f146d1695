package handler

import (
	"net/http"

	"minimercado/internal/dto"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

// Listar godoc
// @Summary Listar proveedores activos
// @Tags proveedores
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ProveedorResponse
// @Router /api/proveedores [get]
func (h *ProveedoresHandler) Listar(c *gin.Context) {
	proveedores, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"proveedores": proveedores})
}

func (h *ProveedoresHandler) Obtener(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	proveedor, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"proveedor": proveedor})
}

// Crear godoc
// @Summary Crear proveedor
// @Tags proveedores
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ProveedorRequest true "Proveedor"
// @Success 201 {object} dto.ProveedorResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/proveedores [post]
func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.ProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	proveedor, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Proveedor creado", "proveedor": proveedor})
}

func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	var req dto.ProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	proveedor, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Proveedor actualizado", "proveedor": proveedor})
}

func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Proveedor eliminado"})
}
