package service

import (
	"context"
	"strings"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/repository"
)

type ClienteService interface {
	Listar(ctx context.Context) ([]dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.ClienteResponse, error)
	Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Listar(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = clienteResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Obtener(ctx context.Context, id uint) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Cliente no encontrado")
	}
	resp := clienteResponse(c)
	return &resp, nil
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, invalido("El nombre del cliente es obligatorio")
	}
	c := &model.Cliente{
		Nombre:   nombre,
		Telefono: blankToNil(req.Telefono),
		Email:    blankToNil(req.Email),
		Activo:   true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteResponse(c)
	return &resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, invalido("El nombre del cliente es obligatorio")
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Cliente no encontrado")
	}
	c.Nombre = nombre
	c.Telefono = blankToNil(req.Telefono)
	c.Email = blankToNil(req.Email)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteResponse(c)
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uint) error {
	return lookupErr(s.repo.SoftDelete(ctx, id), "Cliente no encontrado")
}

func clienteResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{ID: c.ID, Nombre: c.Nombre, Telefono: c.Telefono, Email: c.Email}
}

// blankToNil drops optional strings that only hold whitespace.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
