package service

import (
	"context"
	"strings"

	"minimercado/internal/dto"
	"minimercado/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UsuarioService interface {
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.UsuarioResponse, error)
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Desactivar(ctx context.Context, id uint) error
}

type usuarioService struct {
	repo repository.UsuarioRepository
}

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *usuarioService) Obtener(ctx context.Context, id uint) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Usuario no encontrado")
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	return crearUsuario(ctx, s.repo, req, "El nombre de usuario ya está en uso")
}

func (s *usuarioService) Actualizar(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Usuario no encontrado")
	}
	if !rolValido(req.Rol) {
		return nil, invalido("Rol inválido")
	}

	username := strings.TrimSpace(req.Username)
	if username != user.Username {
		if otro, err := s.repo.FindByUsername(ctx, username); err == nil && otro.ID != user.ID {
			return nil, invalido("El nombre de usuario ya está en uso")
		}
		user.Username = username
	}
	user.Nombre = strings.TrimSpace(req.Nombre)
	user.Rol = req.Rol
	if req.Activo != nil {
		user.Activo = *req.Activo
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *usuarioService) Desactivar(ctx context.Context, id uint) error {
	return lookupErr(s.repo.SoftDelete(ctx, id), "Usuario no encontrado")
}
