package main

import (
	"context"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/repository"
	"minimercado/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func sembrar(ctx context.Context, cat catalogo, db *gorm.DB) error {
	usuarios := service.NewUsuarioService(repository.NewUsuarioRepository(db))
	proveedorRepo := repository.NewProveedorRepository(db)
	proveedores := service.NewProveedorService(proveedorRepo)
	inventario := service.NewInventarioService(repository.NewProductoRepository(db), proveedorRepo, nil)
	clientes := service.NewClienteService(repository.NewClienteRepository(db))

	if cat.Admin.Username != "" {
		u, err := usuarios.Crear(ctx, dto.CrearUsuarioRequest{
			Nombre:   cat.Admin.Nombre,
			Username: cat.Admin.Username,
			Password: cat.Admin.Password,
			Rol:      model.RolAdmin,
		})
		if err != nil {
			if err := omitido(err, "usuario", cat.Admin.Username); err != nil {
				return err
			}
		} else {
			log.Info().Str("username", u.Username).Msg("admin creado")
		}
	}

	existentes, err := proveedores.Listar(ctx)
	if err != nil {
		return err
	}
	cargados := make(map[string]bool, len(existentes))
	for _, p := range existentes {
		cargados[p.Nombre] = true
	}

	for _, pv := range cat.Proveedores {
		if cargados[pv.Nombre] {
			log.Info().Str("proveedor", pv.Nombre).Msg("ya existe, omitido")
			continue
		}
		prov, err := proveedores.Crear(ctx, dto.ProveedorRequest{
			Nombre: pv.Nombre, Telefono: pv.Telefono, Direccion: pv.Direccion,
		})
		if err != nil {
			if err := omitido(err, "proveedor", pv.Nombre); err != nil {
				return err
			}
			continue
		}
		for _, p := range pv.Productos {
			precio, err := decimal.NewFromString(p.Precio)
			if err != nil {
				log.Warn().Str("producto", p.Nombre).Str("precio", p.Precio).Msg("precio inválido, omitido")
				continue
			}
			_, err = inventario.Crear(ctx, dto.ProductoRequest{
				CodigoBarras: p.CodigoBarras,
				Nombre:       p.Nombre,
				Precio:       precio,
				Stock:        p.Stock,
				StockMinimo:  p.StockMinimo,
				ProveedorID:  &prov.ID,
			})
			if err := omitido(err, "producto", p.Nombre); err != nil {
				return err
			}
		}
		log.Info().Str("proveedor", prov.Nombre).Int("productos", len(pv.Productos)).Msg("proveedor cargado")
	}

	previos, err := clientes.Listar(ctx)
	if err != nil {
		return err
	}
	conocidos := make(map[string]bool, len(previos))
	for _, c := range previos {
		conocidos[c.Nombre] = true
	}
	for _, c := range cat.Clientes {
		if conocidos[c.Nombre] {
			continue
		}
		_, err := clientes.Crear(ctx, dto.ClienteRequest{Nombre: c.Nombre, Telefono: c.Telefono, Email: c.Email})
		if err := omitido(err, "cliente", c.Nombre); err != nil {
			return err
		}
	}
	log.Info().Int("clientes", len(cat.Clientes)).Msg("seed completo")
	return nil
}
