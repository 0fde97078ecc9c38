package infra

// pdf.go renders invoices and proformas as A4 documents with go-pdf/fpdf:
//   - issuer header (razon social, RUC) and document title/number
//   - access key, date, payment condition
//   - customer block
//   - line table (description, quantity, unit price, total)
//   - subtotal / discount / IVA / total
//   - ANULADO watermark line for cancelled documents

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

type EmisorPDF struct {
	RUC         string
	RazonSocial string
}

type LineaPDF struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	Total          decimal.Decimal
}

// DocumentoPDF is the printable view of a factura or proforma.
type DocumentoPDF struct {
	Titulo         string
	Numero         string
	ClaveAcceso    string
	Fecha          time.Time
	Condicion      string
	Cliente        string
	Identificacion string
	Lineas         []LineaPDF
	Subtotal       decimal.Decimal
	Descuento      decimal.Decimal
	IVA            decimal.Decimal
	Total          decimal.Decimal
	Anulado        bool
}

// RenderDocumentoPDF writes the document to w.
func RenderDocumentoPDF(w io.Writer, em EmisorPDF, d DocumentoPDF) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW*0.6, 8, tr(em.RazonSocial), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 8, tr(d.Titulo), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.6, 5, "RUC: "+em.RUC, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, "No. "+d.Numero, "", 1, "R", false, 0, "")
	if d.ClaveAcceso != "" {
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(contentW, 5, "Clave de acceso: "+d.ClaveAcceso, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.5, 5, "Fecha: "+d.Fecha.Format("02/01/2006 15:04"), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 5, tr(d.Condicion), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	if d.Anulado {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(contentW, 9, "ANULADO", "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	// ── Customer ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Cliente", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(d.Cliente), "", 1, "L", false, 0, "")
	if d.Identificacion != "" {
		pdf.CellFormat(contentW, 5, tr("Identificación: ")+d.Identificacion, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Lines ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.14
	col3 := contentW * 0.17
	col4 := contentW * 0.17

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(col1, 6, tr("Descripción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 6, "Cant.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col3, 6, "P. Unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col4, 6, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range d.Lineas {
		desc := []rune(l.Descripcion)
		if len(desc) > 48 {
			desc = append(desc[:47], '.')
		}
		pdf.CellFormat(col1, 6, tr(string(desc)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, l.Cantidad.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, l.PrecioUnitario.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, l.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3
	fila := func(label string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, v.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	fila("Subtotal:", d.Subtotal, false)
	if !d.Descuento.IsZero() {
		fila("Descuento:", d.Descuento, false)
	}
	fila("IVA:", d.IVA, false)
	fila("TOTAL:", d.Total, true)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return pdf.Output(w)
}

// GuardarDocumentoPDF renders into dir/nombre (dir is created if needed) and
// returns the file path.
func GuardarDocumentoPDF(dir, nombre string, em EmisorPDF, d DocumentoPDF) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, nombre)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderDocumentoPDF(f, em, d); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
