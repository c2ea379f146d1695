package worker

// ticket_worker.go
// Processes ticket jobs from QueueTicket: renders the PDF of a confirmed sale
// to disk and, when the customer has an email, enqueues the mail.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"minimercado/internal/dto"
	"minimercado/internal/infra"

	"github.com/rs/zerolog/log"
)

// TicketJobPayload is the job envelope sent to QueueTicket.
type TicketJobPayload struct {
	VentaID      uint    `json:"venta_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// VentaLookup loads the sale to print.
type VentaLookup interface {
	Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error)
}

// EmailEnqueuer hands the rendered ticket to the email queue.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type TicketWorker struct {
	ventas      VentaLookup
	emails      EmailEnqueuer
	storagePath string
	tienda      string
}

func NewTicketWorker(ventas VentaLookup, emails EmailEnqueuer, storagePath, tienda string) *TicketWorker {
	return &TicketWorker{ventas: ventas, emails: emails, storagePath: storagePath, tienda: tienda}
}

// Process handles a single ticket job:
//  1. Parse TicketJobPayload
//  2. Load the venta
//  3. Write storagePath/ticket_{id}.pdf
//  4. Enqueue the email job when an address is known
func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return nil
	}
	if payload.VentaID == 0 {
		log.Error().Msg("ticket_worker: missing venta_id")
		return nil
	}

	venta, err := w.ventas.Obtener(ctx, payload.VentaID)
	if err != nil {
		return fmt.Errorf("ticket_worker: load venta %d: %w", payload.VentaID, err)
	}

	path, err := infra.SaveTicketPDF(w.storagePath, w.tienda, *venta)
	if err != nil {
		return fmt.Errorf("ticket_worker: venta %d: %w", payload.VentaID, err)
	}
	log.Info().Uint("venta_id", venta.ID).Str("path", path).Msg("ticket_worker: PDF generated")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" {
		return nil
	}
	if w.emails == nil {
		return errors.New("ticket_worker: no email queue configured")
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: *payload.ClienteEmail,
		Subject: fmt.Sprintf("%s - Ticket de compra N° %d", w.tienda, venta.ID),
		Body:    fmt.Sprintf("Gracias por su compra. Total: $%s", venta.Total.StringFixed(2)),
		PDFPath: path,
	})
}
