package handler

import (
	"errors"
	"net/http"
	"strings"

	"minimercado/internal/apierror"
	"minimercado/internal/dto"
	"minimercado/internal/middleware"
	"minimercado/internal/model"
	"minimercado/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrValidacion) {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"token":      resp.Token,
		"expires_in": resp.ExpiresIn,
		"usuario":    resp.Usuario,
	})
}

// Register godoc
// @Summary Registro de usuario
// @Description Abierto mientras no exista ningún usuario; luego requiere un token de Admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.CrearUsuarioRequest true "Nuevo usuario"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	abierto, err := h.svc.RegistroAbierto(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if !abierto {
		claims := middleware.GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}
		if !model.TieneRol(model.RolAdmin, claims.Rol) {
			c.JSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
	}

	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuario, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Usuario registrado", "usuario": usuario})
}

// Validate accepts the token either as Bearer header or in the body.
func (h *AuthHandler) Validate(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		var req dto.ValidarTokenRequest
		_ = c.ShouldBindJSON(&req)
		token = req.Token
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
		return
	}

	usuario, err := h.svc.Validar(c.Request.Context(), token)
	if errors.Is(err, service.ErrValidacion) {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"usuario": usuario})
}
