// Command pos is the terminal point of sale. It talks to the minimercado
// REST API and keeps the cart locally until the sale is confirmed.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"minimercado/internal/client"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "pos",
	Short:         "Punto de venta de terminal para minimercado",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if viper.GetBool("verbose") {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().String("api", "http://localhost:8000", "URL base de la API (POS_API_URL)")
	rootCmd.PersistentFlags().String("username", "", "usuario (POS_USERNAME)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log de depuración")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.SetEnvPrefix("POS")
	viper.AutomaticEnv()

	rootCmd.AddCommand(venderCmd, cajaCmd, precioCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// conectar logs in, prompting for whatever credential is missing.
func conectar(ctx context.Context) (*client.Client, error) {
	c := client.New(viper.GetString("api_url"))

	username := viper.GetString("username")
	if username == "" {
		var err error
		username, err = (&promptui.Prompt{Label: "Usuario"}).Run()
		if err != nil {
			return nil, err
		}
	}
	password := os.Getenv("POS_PASSWORD")
	if password == "" {
		var err error
		password, err = (&promptui.Prompt{Label: "Contraseña", Mask: '*'}).Run()
		if err != nil {
			return nil, err
		}
	}

	usuario, err := c.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Hola %s (%s)\n\n", usuario.Nombre, usuario.Rol)
	return c, nil
}

// pedirMonto prompts for a non-negative amount.
func pedirMonto(label string) (decimal.Decimal, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			d, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("monto inválido")
			}
			if d.IsNegative() {
				return fmt.Errorf("el monto no puede ser negativo")
			}
			return nil
		},
	}
	s, err := p.Run()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}
