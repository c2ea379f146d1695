package main

import (
	"fmt"

	"minimercado/internal/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// precioCmd needs no login: the price check is public.
var precioCmd = &cobra.Command{
	Use:   "precio <codigo>",
	Short: "Consulta el precio de un código de barras",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := client.New(viper.GetString("api_url")).ConsultarPrecio(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s  $%s  (stock %d)\n", p.Nombre, p.Precio.StringFixed(2), p.Stock)
		return nil
	},
}
