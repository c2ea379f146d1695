package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minimercado/internal/dto"
	"minimercado/internal/model"
	"minimercado/internal/pos"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	accionAgregar = "Agregar producto"
	accionCarrito = "Ver carrito"
	accionQuitar  = "Quitar ítem"
	accionCobrar  = "Cobrar"
	accionSalir   = "Salir"
)

var venderCmd = &cobra.Command{
	Use:   "vender",
	Short: "Abre la pantalla de venta",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := conectar(ctx)
		if err != nil {
			return err
		}
		t := pos.NewTerminal(c)

		estado, err := t.EstadoCaja(ctx)
		if err != nil {
			return err
		}
		if !estado.Abierta {
			return errors.New("No hay caja abierta. Use `pos caja abrir` primero")
		}
		if err := t.Cargar(ctx); err != nil {
			return err
		}
		return loopVenta(ctx, t)
	},
}

func loopVenta(ctx context.Context, t *pos.Terminal) error {
	for {
		fmt.Printf("\nTotal: $%s (%d ítems)\n", t.Carrito().Total().StringFixed(2), len(t.Carrito().Items()))
		menu := promptui.Select{
			Label: "Acción",
			Items: []string{accionAgregar, accionCarrito, accionQuitar, accionCobrar, accionSalir},
		}
		_, accion, err := menu.Run()
		if err != nil {
			return err
		}

		switch accion {
		case accionAgregar:
			err = agregar(t)
		case accionCarrito:
			mostrarCarrito(t.Carrito())
		case accionQuitar:
			err = quitar(t)
		case accionCobrar:
			err = cobrar(ctx, t)
		case accionSalir:
			return nil
		}
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil
			}
			fmt.Println("✗", err)
		}
	}
}

func agregar(t *pos.Terminal) error {
	texto, err := (&promptui.Prompt{Label: "Buscar"}).Run()
	if err != nil {
		return err
	}
	candidatos := t.Filtrar(texto)
	if len(candidatos) == 0 {
		return errors.New("Sin resultados")
	}
	items := make([]string, len(candidatos))
	for i, p := range candidatos {
		items[i] = fmt.Sprintf("%-30s $%10s  stock %d", p.Nombre, p.Precio.StringFixed(2), p.Stock)
	}
	idx, _, err := (&promptui.Select{Label: "Producto", Items: items, Size: 10}).Run()
	if err != nil {
		return err
	}
	return t.Agregar(candidatos[idx].ID)
}

func mostrarCarrito(cart *pos.Cart) {
	if cart.Vacio() {
		fmt.Println("El carrito está vacío")
		return
	}
	for i, it := range cart.Items() {
		fmt.Printf("%2d. %-30s %3d x $%s = $%s\n", i+1, it.Nombre, it.Cantidad,
			it.Precio.StringFixed(2), it.Subtotal().StringFixed(2))
	}
}

func quitar(t *pos.Terminal) error {
	cart := t.Carrito()
	if cart.Vacio() {
		return pos.ErrCarritoVacio
	}
	items := make([]string, 0, len(cart.Items()))
	for _, it := range cart.Items() {
		items = append(items, fmt.Sprintf("%s x%d", it.Nombre, it.Cantidad))
	}
	idx, _, err := (&promptui.Select{Label: "Quitar", Items: items}).Run()
	if err != nil {
		return err
	}
	return t.Quitar(idx)
}

func cobrar(ctx context.Context, t *pos.Terminal) error {
	if t.Carrito().Vacio() {
		return pos.ErrCarritoVacio
	}

	clienteID, err := elegirCliente(t.Clientes())
	if err != nil {
		return err
	}

	_, metodo, err := (&promptui.Select{
		Label: "Método de pago",
		Items: []string{model.PagoEfectivo, model.PagoTarjeta, model.PagoTransferencia},
	}).Run()
	if err != nil {
		return err
	}

	pago := pos.Pago{Metodo: metodo}
	if metodo == model.PagoEfectivo {
		pago.Monto, err = pedirMonto("Monto recibido")
	} else {
		pago.Referencia, err = (&promptui.Prompt{Label: "Referencia"}).Run()
	}
	if err != nil {
		return err
	}

	venta, res, err := t.Cobrar(ctx, clienteID, pago)
	if venta == nil {
		return err
	}
	fmt.Printf("✓ Venta #%d por $%s", venta.ID, venta.Total.StringFixed(2))
	if metodo == model.PagoEfectivo {
		fmt.Printf(", cambio $%s", res.Cambio.StringFixed(2))
	}
	fmt.Println()
	return err
}

// elegirCliente returns nil for "Consumidor final".
func elegirCliente(clientes []dto.ClienteResponse) (*uint, error) {
	items := []string{"Consumidor final"}
	for _, c := range clientes {
		items = append(items, strings.TrimSpace(c.Nombre))
	}
	idx, _, err := (&promptui.Select{Label: "Cliente", Items: items, Size: 10}).Run()
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, nil
	}
	id := clientes[idx-1].ID
	return &id, nil
}
