package handler

import (
	"net/http"

	"minimercado/internal/apierror"
	"minimercado/internal/dto"
	"minimercado/internal/middleware"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	usuarios, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"usuarios": usuarios})
}

func (h *UsuariosHandler) Obtener(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	usuario, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"usuario": usuario})
}

func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuario, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Usuario creado", "usuario": usuario})
}

func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuario, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Usuario actualizado", "usuario": usuario})
}

// Desactivar soft-deletes a user. Admins cannot deactivate themselves.
func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		return
	}
	if claims := middleware.GetClaims(c); claims != nil && claims.UserID == id {
		c.JSON(http.StatusBadRequest, apierror.New("No puede desactivar su propio usuario"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Usuario desactivado"})
}
