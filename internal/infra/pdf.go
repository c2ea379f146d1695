package infra

// pdf.go: ticket generation with go-pdf/fpdf.
// Narrow receipt-style page with store name, sale number and date, the item
// table, total, payment method and change.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"minimercado/internal/dto"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// latin1 converts UTF-8 text to the Windows-1252 bytes fpdf core fonts expect.
// Unmappable runes become '?'.
func latin1(s string) string {
	out, _, err := transform.String(charmap.Windows1252.NewEncoder(), s)
	if err != nil {
		var b bytes.Buffer
		for _, r := range s {
			if r < 0x80 {
				b.WriteRune(r)
			} else {
				b.WriteByte('?')
			}
		}
		return b.String()
	}
	return out
}

// WriteTicketPDF renders the ticket of v into w.
func WriteTicketPDF(w io.Writer, tienda string, v dto.VentaResponse) error {
	// 74mm wide: close to thermal receipt paper. Height grows with the items.
	alto := 70 + 5*float64(len(v.Items))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, latin1(tienda), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, latin1(fmt.Sprintf("Venta N° %d", v.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, v.Fecha, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, latin1("Cliente: "+v.Cliente), "", 1, "L", false, 0, "")
	if v.Usuario != "" {
		pdf.CellFormat(contentW, 4, latin1("Atendió: "+v.Usuario), "", 1, "L", false, 0, "")
	}
	if v.Estado != "" && v.Estado != "completada" {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(contentW, 5, "ANULADA", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range v.Items {
		nombre := []rune(item.Producto)
		if len(nombre) > 22 {
			nombre = append(nombre[:21], '.')
		}
		pdf.CellFormat(col1, 5, latin1(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+v.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, latin1("Pago ("+v.MetodoPago+"):"), "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+v.MontoPago.StringFixed(2), "", 1, "R", false, 0, "")
	if v.Cambio.IsPositive() {
		pdf.CellFormat(col1+col2, 4, "Cambio:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+v.Cambio.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if v.Referencia != nil {
		pdf.CellFormat(contentW, 4, latin1("Ref: "+*v.Referencia), "", 1, "L", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, latin1("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// SaveTicketPDF writes the ticket to storagePath/ticket_{id}.pdf, creating
// the directory if needed, and returns the file path.
func SaveTicketPDF(storagePath, tienda string, v dto.VentaResponse) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("ticket_%d.pdf", v.ID))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := WriteTicketPDF(f, tienda, v); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: close file: %w", err)
	}
	return filePath, nil
}
