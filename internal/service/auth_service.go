package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"minimercado/internal/config"
	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Registrar(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	// Validar parses a token and returns the user it belongs to.
	Validar(ctx context.Context, token string) (*dto.UsuarioResponse, error)
	// RegistroAbierto reports whether anyone may register (no users yet).
	RegistroAbierto(ctx context.Context) (bool, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func rolValido(rol string) bool {
	_, ok := model.NivelRol[rol]
	return ok
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalido("Usuario no encontrado")
		}
		return nil, err
	}
	if !user.Activo {
		return nil, invalido("Usuario desactivado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalido("Contraseña incorrecta")
	}

	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("firmar token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: s.cfg.JWTExpirationHours * 3600,
		Usuario:   usuarioResponse(user),
	}, nil
}

func (s *authService) Registrar(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	return crearUsuario(ctx, s.repo, req, "El username ya existe")
}

func (s *authService) Validar(ctx context.Context, tokenStr string) (*dto.UsuarioResponse, error) {
	errToken := invalido("Token inválido o expirado")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errToken
	}
	// JSON numbers decode as float64.
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errToken
	}

	user, err := s.repo.FindByID(ctx, uint(rawID))
	if err != nil || !user.Activo {
		return nil, errToken
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) RegistroAbierto(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"nombre":   user.Nombre,
		"rol":      user.Rol,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// crearUsuario is shared by self-registration and the admin users screen,
// which word the duplicate-username error differently.
func crearUsuario(ctx context.Context, repo repository.UsuarioRepository, req dto.CrearUsuarioRequest, msgDuplicado string) (*dto.UsuarioResponse, error) {
	username := strings.TrimSpace(req.Username)
	if !rolValido(req.Rol) {
		return nil, invalido("Rol inválido")
	}
	if _, err := repo.FindByUsername(ctx, username); err == nil {
		return nil, invalido(msgDuplicado)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nombre:       strings.TrimSpace(req.Nombre),
		Username:     username,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func usuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Username: u.Username,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}
