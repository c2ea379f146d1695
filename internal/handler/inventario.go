package handler

import (
	"net/http"

	"minimercado/internal/dto"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

// InventarioHandler serves /api/inventario: the product catalog, stock
// replenishment and low-stock alerts.
type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// ListarProductos godoc
// @Summary Listar productos activos
// @Tags inventario
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ProductoResponse
// @Router /api/inventario/productos [get]
func (h *InventarioHandler) ListarProductos(c *gin.Context) {
	productos, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"productos": productos})
}

func (h *InventarioHandler) ObtenerProducto(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	producto, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"producto": producto})
}

// CrearProducto godoc
// @Summary Crear producto
// @Tags inventario
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/inventario/productos [post]
func (h *InventarioHandler) CrearProducto(c *gin.Context) {
	var req dto.ProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	producto, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Producto creado", "producto": producto})
}

func (h *InventarioHandler) ActualizarProducto(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	var req dto.ProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	producto, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Producto actualizado", "producto": producto})
}

func (h *InventarioHandler) EliminarProducto(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Producto eliminado"})
}

// AgregarStock godoc
// @Summary Ingreso de mercadería
// @Tags inventario
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Producto ID"
// @Param body body dto.AgregarStockRequest true "Cantidad a ingresar"
// @Success 200 {object} dto.ProductoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/inventario/productos/{id}/stock [post]
func (h *InventarioHandler) AgregarStock(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	var req dto.AgregarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	producto, err := h.svc.AgregarStock(c.Request.Context(), id, req.Cantidad)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Stock actualizado", "producto": producto})
}

// Alertas lists products at or below their minimum stock.
func (h *InventarioHandler) Alertas(c *gin.Context) {
	alertas, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"alertas": alertas, "total": len(alertas)})
}
