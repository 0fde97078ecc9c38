package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documento() DocumentoPDF {
	return DocumentoPDF{
		Titulo:         "FACTURA",
		Numero:         "001-001-000000007",
		ClaveAcceso:    "0503202401179001234500110010020000001231234567811",
		Fecha:          time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Condicion:      "credito",
		Cliente:        "Comercial Núñez",
		Identificacion: "0912345678",
		Lineas: []LineaPDF{
			{Descripcion: "Café molido 500g", Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.RequireFromString("4.50"), Total: decimal.RequireFromString("9.00")},
		},
		Subtotal: decimal.RequireFromString("9.00"),
		IVA:      decimal.RequireFromString("1.35"),
		Total:    decimal.RequireFromString("10.35"),
	}
}

func TestRenderDocumentoPDF(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDocumentoPDF(&buf, EmisorPDF{RUC: "1790012345001", RazonSocial: "Empresa"}, documento())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGuardarDocumentoPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")
	d := documento()
	d.Anulado = true

	path, err := GuardarDocumentoPDF(dir, "factura_001-001-000000007.pdf", EmisorPDF{RUC: "1790012345001"}, d)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
