// Command seed bootstraps a database: the first Admin user plus a demo
// catalog of suppliers, products and clients read from a YAML file.
// Running it twice is harmless; existing rows are skipped.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"minimercado/internal/config"
	"minimercado/internal/infra"
	"minimercado/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type catalogo struct {
	Admin struct {
		Nombre   string `yaml:"nombre"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Proveedores []struct {
		Nombre    string  `yaml:"nombre"`
		Telefono  *string `yaml:"telefono"`
		Direccion *string `yaml:"direccion"`
		Productos []struct {
			CodigoBarras *string `yaml:"codigo_barras"`
			Nombre       string  `yaml:"nombre"`
			Precio       string  `yaml:"precio"`
			Stock        int     `yaml:"stock"`
			StockMinimo  *int    `yaml:"stock_minimo"`
		} `yaml:"productos"`
	} `yaml:"proveedores"`
	Clientes []struct {
		Nombre   string  `yaml:"nombre"`
		Telefono *string `yaml:"telefono"`
		Email    *string `yaml:"email"`
	} `yaml:"clientes"`
}

var archivo string

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Crea el usuario Admin y un catálogo de demo",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(archivo)
		if err != nil {
			return err
		}
		var cat catalogo
		if err := yaml.Unmarshal(raw, &cat); err != nil {
			return fmt.Errorf("%s: %w", archivo, err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBDebug)
		if err != nil {
			return err
		}
		return sembrar(cmd.Context(), cat, db)
	},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	rootCmd.Flags().StringVarP(&archivo, "file", "f", "cmd/seed/catalogo.yaml", "catálogo YAML")
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

// omitido logs business-rule rejections (duplicates mostly) and lets
// anything else through as a real failure.
func omitido(err error, que, nombre string) error {
	if errors.Is(err, service.ErrValidacion) {
		log.Warn().Str(que, nombre).Msg(err.Error())
		return nil
	}
	return err
}
