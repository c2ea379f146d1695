package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	precioCachePrefix  = "precio:"
	precioCacheTTL     = 4 * time.Hour
	stockMinimoDefault = 5
)

// InventarioService owns products and their stock outside of sales.
type InventarioService interface {
	Listar(ctx context.Context) ([]dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uint) error
	AgregarStock(ctx context.Context, id uint, cantidad int) (*dto.ProductoResponse, error)
	Alertas(ctx context.Context) ([]dto.ProductoResponse, error)
	// ConsultarPrecio is the public barcode lookup, served from redis when cached.
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error)
	// InvalidarPrecio drops the cached price of a barcode. Sales call it
	// after commit since the cached entry carries stock.
	InvalidarPrecio(ctx context.Context, codigo *string)
}

type inventarioService struct {
	repo          repository.ProductoRepository
	proveedorRepo repository.ProveedorRepository
	rdb           *redis.Client // nil disables the price cache
}

func NewInventarioService(repo repository.ProductoRepository, proveedorRepo repository.ProveedorRepository, rdb *redis.Client) InventarioService {
	return &inventarioService{repo: repo, proveedorRepo: proveedorRepo, rdb: rdb}
}

func (s *inventarioService) Listar(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return productosResponse(productos), nil
}

func (s *inventarioService) Obtener(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Producto no encontrado")
	}
	resp := productoResponse(p)
	return &resp, nil
}

func (s *inventarioService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	if err := s.validar(ctx, 0, req); err != nil {
		return nil, err
	}
	p := &model.Producto{
		CodigoBarras: blankToNil(req.CodigoBarras),
		Nombre:       strings.TrimSpace(req.Nombre),
		Precio:       req.Precio.Round(2),
		Stock:        req.Stock,
		StockMinimo:  stockMinimoDefault,
		ProveedorID:  req.ProveedorID,
		Activo:       true,
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.InvalidarPrecio(ctx, p.CodigoBarras)
	resp := productoResponse(p)
	return &resp, nil
}

func (s *inventarioService) Actualizar(ctx context.Context, id uint, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Producto no encontrado")
	}
	if err := s.validar(ctx, id, req); err != nil {
		return nil, err
	}
	anterior := p.CodigoBarras

	p.CodigoBarras = blankToNil(req.CodigoBarras)
	p.Nombre = strings.TrimSpace(req.Nombre)
	p.Precio = req.Precio.Round(2)
	p.Stock = req.Stock
	p.ProveedorID = req.ProveedorID
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.InvalidarPrecio(ctx, anterior)
	s.InvalidarPrecio(ctx, p.CodigoBarras)
	resp := productoResponse(p)
	return &resp, nil
}

func (s *inventarioService) Eliminar(ctx context.Context, id uint) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "Producto no encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return lookupErr(err, "Producto no encontrado")
	}
	s.InvalidarPrecio(ctx, p.CodigoBarras)
	return nil
}

func (s *inventarioService) AgregarStock(ctx context.Context, id uint, cantidad int) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupErr(err, "Producto no encontrado")
	}
	if cantidad <= 0 {
		return nil, invalido("La cantidad debe ser mayor a 0")
	}
	if err := s.repo.AjustarStock(ctx, id, cantidad); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Producto no encontrado")
	}
	s.InvalidarPrecio(ctx, p.CodigoBarras)
	resp := productoResponse(p)
	return &resp, nil
}

func (s *inventarioService) Alertas(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	return productosResponse(productos), nil
}

func (s *inventarioService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error) {
	codigo = strings.TrimSpace(codigo)
	key := precioCachePrefix + codigo

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.ConsultaPreciosResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, codigo)
	if err != nil {
		return nil, lookupErr(err, "Producto no encontrado")
	}
	resp := &dto.ConsultaPreciosResponse{
		CodigoBarras: codigo,
		Nombre:       p.Nombre,
		Precio:       p.Precio,
		Stock:        p.Stock,
	}

	// Populate cache, best effort
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			if err := s.rdb.Set(ctx, key, b, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("codigo", codigo).Msg("precio: cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *inventarioService) InvalidarPrecio(ctx context.Context, codigo *string) {
	if s.rdb == nil || codigo == nil || *codigo == "" {
		return
	}
	if err := s.rdb.Del(ctx, precioCachePrefix+*codigo).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", *codigo).Msg("precio: cache invalidation failed")
	}
}

// validar checks the numeric fields, barcode uniqueness and the supplier.
// id is the product being edited, 0 on create.
func (s *inventarioService) validar(ctx context.Context, id uint, req dto.ProductoRequest) error {
	if strings.TrimSpace(req.Nombre) == "" {
		return invalido("El nombre del producto es obligatorio")
	}
	if req.Precio.IsNegative() {
		return invalido("El precio no puede ser negativo")
	}
	if req.Stock < 0 {
		return invalido("El stock no puede ser negativo")
	}
	if req.StockMinimo != nil && *req.StockMinimo < 0 {
		return invalido("El stock mínimo no puede ser negativo")
	}
	if codigo := blankToNil(req.CodigoBarras); codigo != nil {
		otro, err := s.repo.FindByBarcode(ctx, *codigo)
		if err == nil && otro.ID != id {
			return invalido("Ya existe un producto con ese código de barras")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if req.ProveedorID != nil {
		if _, err := s.proveedorRepo.FindByID(ctx, *req.ProveedorID); err != nil {
			return lookupErr(err, "Proveedor no encontrado")
		}
	}
	return nil
}

func productoResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:           p.ID,
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Precio:       p.Precio,
		Stock:        p.Stock,
		StockMinimo:  p.StockMinimo,
		ProveedorID:  p.ProveedorID,
		Activo:       p.Activo,
		AlertaStock:  p.AlertaStock(),
	}
}

func productosResponse(productos []model.Producto) []dto.ProductoResponse {
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = productoResponse(&productos[i])
	}
	return resp
}
