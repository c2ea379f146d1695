package service

import (
	"context"
	"strings"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/repository"
)

type ProveedorService interface {
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.ProveedorResponse, error)
	Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		resp[i] = proveedorResponse(&proveedores[i])
	}
	return resp, nil
}

func (s *proveedorService) Obtener(ctx context.Context, id uint) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Proveedor no encontrado")
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, invalido("El nombre del proveedor es obligatorio")
	}
	p := &model.Proveedor{
		Nombre:    nombre,
		Telefono:  blankToNil(req.Telefono),
		Direccion: blankToNil(req.Direccion),
		Activo:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uint, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, invalido("El nombre del proveedor es obligatorio")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Proveedor no encontrado")
	}
	p.Nombre = nombre
	p.Telefono = blankToNil(req.Telefono)
	p.Direccion = blankToNil(req.Direccion)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := proveedorResponse(p)
	return &resp, nil
}

func (s *proveedorService) Eliminar(ctx context.Context, id uint) error {
	return lookupErr(s.repo.SoftDelete(ctx, id), "Proveedor no encontrado")
}

func proveedorResponse(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{ID: p.ID, Nombre: p.Nombre, Telefono: p.Telefono, Direccion: p.Direccion}
}
