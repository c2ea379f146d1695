package main

import (
	"fmt"

	"minimercado/internal/pos"

	"github.com/spf13/cobra"
)

var cajaCmd = &cobra.Command{
	Use:   "caja",
	Short: "Estado, apertura y cierre de la caja del turno",
}

var cajaEstadoCmd = &cobra.Command{
	Use:   "estado",
	Short: "Muestra si la caja está abierta",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := conectar(ctx)
		if err != nil {
			return err
		}
		estado, err := pos.NewTerminal(c).EstadoCaja(ctx)
		if err != nil {
			return err
		}
		if !estado.Abierta || estado.Caja == nil {
			fmt.Println("Caja cerrada")
			return nil
		}
		fmt.Printf("Caja #%d abierta desde %s con $%s\n",
			estado.Caja.ID, estado.Caja.FechaApertura, estado.Caja.MontoInicial.StringFixed(2))
		return nil
	},
}

var cajaAbrirCmd = &cobra.Command{
	Use:   "abrir",
	Short: "Abre la caja con un monto inicial",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := conectar(ctx)
		if err != nil {
			return err
		}
		monto, err := pedirMonto("Monto inicial")
		if err != nil {
			return err
		}
		caja, err := pos.NewTerminal(c).AbrirCaja(ctx, monto)
		if err != nil {
			return err
		}
		fmt.Printf("Caja #%d abierta\n", caja.ID)
		return nil
	},
}

var cajaCerrarCmd = &cobra.Command{
	Use:   "cerrar",
	Short: "Cierra la caja con el monto contado",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := conectar(ctx)
		if err != nil {
			return err
		}
		monto, err := pedirMonto("Monto final contado")
		if err != nil {
			return err
		}
		cierre, err := pos.NewTerminal(c).CerrarCaja(ctx, monto)
		if err != nil {
			return err
		}
		fmt.Printf("Caja #%d cerrada\n", cierre.ID)
		fmt.Printf("  Esperado:  $%s\n", cierre.Esperado.StringFixed(2))
		fmt.Printf("  Contado:   $%s\n", cierre.MontoFinal.StringFixed(2))
		fmt.Printf("  Desvío:    $%s (%s)\n", cierre.Desvio.StringFixed(2), cierre.Clasificacion)
		return nil
	},
}

func init() {
	cajaCmd.AddCommand(cajaEstadoCmd, cajaAbrirCmd, cajaCerrarCmd)
}
