package service_test

import (
	"bytes"
	"context"
	"testing"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProformaService(t *testing.T, f *ventasFixture) service.ProformaService {
	return service.NewProformaService(f.proformas, f.productos, f.clientes, f.svc, emisorPruebas(t))
}

func TestProforma_CrearNoTocaStock(t *testing.T) {
	f := newVentasFixture(t)
	svc := newProformaService(t, f)
	p := f.producto("10", "3.00", "15")
	c := f.clientes.add("0", "0")

	resp, err := svc.Crear(context.Background(), admin(), dto.CrearProformaRequest{
		ClienteID: c.ID.String(),
		Items:     []dto.ItemVentaRequest{item(p, "2")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pendiente", resp.Estado)
	assert.Equal(t, 15, resp.ValidezDias)
	assert.True(t, resp.Total.Equal(dec("6.90")))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("10")))
	assert.Empty(t, f.movs.movs)

	var buf bytes.Buffer
	require.NoError(t, svc.Imprimir(context.Background(), admin(), uuid.MustParse(resp.ID), &buf))
	assert.Equal(t, "%PDF", buf.String()[:4])
}

func TestProforma_CrearRejectsInactiveClient(t *testing.T) {
	f := newVentasFixture(t)
	svc := newProformaService(t, f)
	p := f.producto("10", "3.00", "15")
	c := f.clientes.add("0", "0")
	f.clientes.clientes[c.ID].Activo = false

	_, err := svc.Crear(context.Background(), admin(), dto.CrearProformaRequest{
		ClienteID: c.ID.String(),
		Items:     []dto.ItemVentaRequest{item(p, "1")},
	})
	assert.True(t, apierror.IsCode(err, apierror.CodePartyInactive))
	assert.Empty(t, f.proformas.proformas)
}

func TestProforma_ConvertirOnce(t *testing.T) {
	f := newVentasFixture(t)
	svc := newProformaService(t, f)
	p := f.producto("10", "3.00", "0")
	c := f.clientes.add("0", "0")
	ctx := context.Background()

	pf, err := svc.Crear(ctx, admin(), dto.CrearProformaRequest{
		ClienteID: c.ID.String(),
		Items:     []dto.ItemVentaRequest{item(p, "4")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(pf.ID)

	venta, err := svc.Convertir(ctx, admin(), id, dto.ConvertirProformaRequest{CondicionPago: model.CondicionContado})
	require.NoError(t, err)
	assert.True(t, venta.Total.Equal(pf.Total))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("6")))

	obtenida, err := svc.Obtener(ctx, admin(), id)
	require.NoError(t, err)
	assert.Equal(t, "facturada", obtenida.Estado)
	require.NotNil(t, obtenida.FacturaID)
	assert.Equal(t, venta.ID, *obtenida.FacturaID)

	_, err = svc.Convertir(ctx, admin(), id, dto.ConvertirProformaRequest{CondicionPago: model.CondicionContado})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("6")))
	assert.Len(t, f.facturas.facturas, 1)
}
