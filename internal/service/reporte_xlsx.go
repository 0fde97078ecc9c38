package service

import (
	"io"

	"integrafacturacion/internal/dto"

	"github.com/xuri/excelize/v2"
)

const hojaVentas = "Ventas"

var columnasReporte = []interface{}{
	"Numero", "Fecha", "Cliente", "Condicion", "Estado", "Subtotal", "Descuento", "IVA", "Total",
}

// escribirReporteXLSX writes the sales report rows plus a totals line.
func escribirReporteXLSX(w io.Writer, rep *dto.ReporteVentasResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaVentas); err != nil {
		return err
	}
	if err := f.SetSheetRow(hojaVentas, "A1", &columnasReporte); err != nil {
		return err
	}

	fila := 2
	for _, v := range rep.Data {
		celda, err := excelize.CoordinatesToCellName(1, fila)
		if err != nil {
			return err
		}
		valores := []interface{}{
			v.Numero,
			v.FechaEmision,
			v.Cliente,
			v.CondicionPago,
			v.Estado,
			v.Subtotal.InexactFloat64(),
			v.Descuento.InexactFloat64(),
			v.IVA.InexactFloat64(),
			v.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(hojaVentas, celda, &valores); err != nil {
			return err
		}
		fila++
	}

	celda, err := excelize.CoordinatesToCellName(8, fila+1)
	if err != nil {
		return err
	}
	totales := []interface{}{"TOTAL", rep.SumaTotal.InexactFloat64()}
	if err := f.SetSheetRow(hojaVentas, celda, &totales); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
