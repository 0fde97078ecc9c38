package service_test

import (
	"bytes"
	"context"
	"testing"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventasFixture struct {
	productos *stubProductoRepo
	movs      *stubMovRepo
	clientes  *stubClienteRepo
	facturas  *stubFacturaRepo
	cuentas   *stubCuentaRepo
	cajas     *stubCajaRepo
	proformas *stubProformaRepo
	correo    *stubEncolador
	svc       service.VentaService
}

func emisorPruebas(t *testing.T) service.Emisor {
	return service.Emisor{
		RUC:             "1790012345001",
		RazonSocial:     "Comercial Andina S.A.",
		Establecimiento: "001",
		PuntoEmision:    "001",
		Ambiente:        "1",
		PDFPath:         t.TempDir(),
	}
}

func newVentasFixture(t *testing.T) *ventasFixture {
	f := &ventasFixture{
		productos: newStubProductoRepo(),
		movs:      &stubMovRepo{},
		clientes:  newStubClienteRepo(),
		facturas:  newStubFacturaRepo(),
		cuentas:   newStubCuentaRepo(),
		cajas:     newStubCajaRepo(),
		proformas: newStubProformaRepo(),
		correo:    &stubEncolador{},
	}
	inv := service.NewInventarioService(f.productos, f.movs, false)
	f.svc = service.NewVentaService(f.facturas, f.clientes, f.cuentas, f.cajas, stubSucursalRepo{},
		f.proformas, inv, f.correo, emisorPruebas(t))
	return f
}

func (f *ventasFixture) producto(stock, precio, iva string) *model.Producto {
	return f.productos.add(&model.Producto{
		SucursalID:  sucursalMatriz,
		Codigo:      "P-" + stock + "-" + precio,
		Nombre:      "Arroz 1kg",
		PrecioVenta: dec(precio),
		TarifaIVA:   dec(iva),
		StockActual: dec(stock),
	})
}

func venta(cliente *model.Cliente, condicion string, items ...dto.ItemVentaRequest) dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{
		ClienteID:     cliente.ID.String(),
		CondicionPago: condicion,
		Items:         items,
	}
}

func item(p *model.Producto, cantidad string) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{ProductoID: p.ID.String(), Cantidad: dec(cantidad)}
}

func TestRegistrarVenta_StockGate(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")

	_, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionContado, item(p, "11")))
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeInsufficientStock))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("10")))
	assert.Empty(t, f.facturas.facturas)
	assert.Empty(t, f.movs.movs)

	resp, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionContado, item(p, "10")))
	require.NoError(t, err)
	assert.True(t, f.productos.stock(p.ID).IsZero())
	assert.Equal(t, "emitida", resp.Estado)
	require.Len(t, f.movs.movs, 1)
	assert.Equal(t, model.MovimientoSalida, f.movs.movs[0].Tipo)
	assert.True(t, f.movs.movs[0].StockNuevo.IsZero())
}

func TestRegistrarVenta_AggregatesRepeatedProduct(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("5", "2.00", "0")
	c := f.clientes.add("0", "0")

	// 3 + 3 exceeds 5 even though each line alone fits.
	_, err := f.svc.Registrar(context.Background(), admin(),
		venta(c, model.CondicionContado, item(p, "3"), item(p, "3")))
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeInsufficientStock))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("5")))
}

func TestRegistrarVenta_CreditLimit(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("100", "1.00", "0")
	c := f.clientes.add("80", "100")

	_, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionCredito, item(p, "15")))
	require.NoError(t, err)
	assert.True(t, f.clientes.clientes[c.ID].Saldo.Equal(dec("95")))
	require.Len(t, f.cuentas.cobrar, 1)

	_, err = f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionCredito, item(p, "25")))
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeCreditLimitExceeded))
	assert.True(t, f.clientes.clientes[c.ID].Saldo.Equal(dec("95")))
	assert.Len(t, f.cuentas.cobrar, 1)
	assert.True(t, f.productos.stock(p.ID).Equal(dec("85")))
}

func TestRegistrarVenta_CreditLimitRejectsBeforeAnyWrite(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("100", "1.00", "0")
	c := f.clientes.add("80", "100")

	_, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionCredito, item(p, "25")))
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeCreditLimitExceeded))
	assert.True(t, f.clientes.clientes[c.ID].Saldo.Equal(dec("80")))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("100")))
	assert.Zero(t, f.productos.stockWrites)
}

func TestRegistrarVenta_ComputesTotalsFromProductPrices(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "2.50", "15")
	c := f.clientes.add("0", "0")

	req := venta(c, model.CondicionContado, dto.ItemVentaRequest{
		ProductoID: p.ID.String(),
		Cantidad:   dec("4"),
		Descuento:  dec("1.00"),
	})
	resp, err := f.svc.Registrar(context.Background(), admin(), req)
	require.NoError(t, err)

	// 4 x 2.50 - 1.00 = 9.00; 15% = 1.35
	assert.True(t, resp.Subtotal.Equal(dec("9.00")))
	assert.True(t, resp.IVA.Equal(dec("1.35")))
	assert.True(t, resp.Total.Equal(dec("10.35")))
	assert.Equal(t, "001-001-000000001", resp.Numero)
	assert.Len(t, resp.ClaveAcceso, 49)
}

func TestRegistrarVenta_RejectsProductFromOtherBranch(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")

	// Unrestricted user: the product still has to live in the sale's branch.
	req := venta(c, model.CondicionContado, item(p, "2"))
	req.SucursalID = uuid.NewString()
	_, err := f.svc.Registrar(context.Background(), admin(), req)
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("10")))
	assert.Empty(t, f.facturas.facturas)
	assert.Empty(t, f.movs.movs)
}

func TestRegistrarVenta_CallerNumberAdvancesSequence(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")
	ctx := context.Background()

	req := venta(c, model.CondicionContado, item(p, "1"))
	req.Numero = "001-001-000000005"
	resp, err := f.svc.Registrar(ctx, admin(), req)
	require.NoError(t, err)
	assert.Equal(t, "001-001-000000005", resp.Numero)

	resp, err = f.svc.Registrar(ctx, admin(), venta(c, model.CondicionContado, item(p, "1")))
	require.NoError(t, err)
	assert.Equal(t, "001-001-000000006", resp.Numero)

	_, err = f.svc.Registrar(ctx, admin(), req)
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))
	assert.Len(t, f.facturas.facturas, 2)
	assert.True(t, f.productos.stock(p.ID).Equal(dec("8")))
}

func TestRegistrarVenta_LocksProductsInIDOrder(t *testing.T) {
	f := newVentasFixture(t)
	a := f.producto("10", "1.00", "0")
	b := f.producto("10", "1.00", "0")
	c := f.producto("10", "1.00", "0")
	cli := f.clientes.add("0", "0")

	_, err := f.svc.Registrar(context.Background(), admin(),
		venta(cli, model.CondicionContado, item(c, "1"), item(a, "1"), item(b, "1"), item(c, "1")))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(f.productos.bloqueos), 3)
	primeros := f.productos.bloqueos[:3]
	for i := 1; i < len(primeros); i++ {
		assert.Negative(t, bytes.Compare(primeros[i-1][:], primeros[i][:]), "lock %d out of order", i)
	}
}

func TestRegistrarVenta_InactiveClient(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")
	f.clientes.clientes[c.ID].Activo = false

	for _, cond := range []string{model.CondicionContado, model.CondicionCredito} {
		_, err := f.svc.Registrar(context.Background(), admin(), venta(c, cond, item(p, "1")))
		require.Error(t, err)
		assert.True(t, apierror.IsCode(err, apierror.CodePartyInactive), cond)
	}
	assert.True(t, f.productos.stock(p.ID).Equal(dec("10")))
}

func TestRegistrarVenta_ReadOnlyRoleIsVetoed(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")

	u := usuarioCon(sucursalMatriz, auth.PermAll, auth.PermSoloLectura)
	_, err := f.svc.Registrar(context.Background(), u, venta(c, model.CondicionContado, item(p, "1")))
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeReadOnlyRole))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("10")))
}

func TestRegistrarVenta_AttachesOpenCashSession(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")
	sesion := &model.SesionCaja{SucursalID: sucursalMatriz, Estado: "abierta"}
	require.NoError(t, f.cajas.CreateSesion(context.Background(), admin(), sesion))

	resp, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionContado, item(p, "1")))
	require.NoError(t, err)
	require.NotNil(t, resp.SesionCajaID)
	assert.Equal(t, sesion.ID.String(), *resp.SesionCajaID)
}

func TestRegistrarVenta_EnqueuesInvoiceEmail(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "15")
	c := f.clientes.add("0", "0")

	req := venta(c, model.CondicionContado, item(p, "2"))
	correo := "cliente@example.com"
	req.ClienteEmail = &correo

	resp, err := f.svc.Registrar(context.Background(), admin(), req)
	require.NoError(t, err)
	require.Len(t, f.correo.jobs, 1)
	job := f.correo.jobs[0]
	assert.Equal(t, correo, job.ToEmail)
	assert.Contains(t, job.Subject, resp.Numero)
	assert.FileExists(t, job.PDFPath)
}

func TestAnularVenta_CompensatesStockAndReceivable(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("20", "10.00", "0")
	c := f.clientes.add("0", "500")

	resp, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionCredito, item(p, "3")))
	require.NoError(t, err)
	assert.True(t, f.productos.stock(p.ID).Equal(dec("17")))
	assert.True(t, f.clientes.clientes[c.ID].Saldo.Equal(dec("30")))

	id := uuid.MustParse(resp.ID)
	anulada, err := f.svc.Anular(context.Background(), admin(), id, "Error de digitacion")
	require.NoError(t, err)
	assert.Equal(t, "anulada", anulada.Estado)

	assert.True(t, f.productos.stock(p.ID).Equal(dec("20")))
	assert.True(t, f.clientes.clientes[c.ID].Saldo.IsZero())
	for _, cuenta := range f.cuentas.cobrar {
		assert.Equal(t, model.CuentaAnulada, cuenta.Estado)
		assert.True(t, cuenta.Saldo.IsZero())
	}
	require.Len(t, f.movs.movs, 2)
	assert.Equal(t, model.MovimientoEntrada, f.movs.movs[1].Tipo)
	assert.Equal(t, service.MotivoAnulacionVenta, f.movs.movs[1].Motivo)

	_, err = f.svc.Anular(context.Background(), admin(), id, "Segundo intento")
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeConflict))
	assert.True(t, f.productos.stock(p.ID).Equal(dec("20")))
}

func TestPagarCuenta_PartialThenFull(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "100.00", "0")
	c := f.clientes.add("0", "1000")

	_, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionCredito, item(p, "1")))
	require.NoError(t, err)
	var cuentaID string
	for id := range f.cuentas.cobrar {
		cuentaID = id.String()
	}

	pago, err := f.svc.PagarCuenta(context.Background(), admin(), dto.PagarCuentaRequest{CuentaID: cuentaID, Monto: dec("40"), Metodo: "efectivo"})
	require.NoError(t, err)
	assert.True(t, pago.SaldoNuevo.Equal(dec("60")))
	assert.Equal(t, model.CuentaPendiente, pago.EstadoNuevo)
	assert.True(t, f.clientes.clientes[c.ID].Saldo.Equal(dec("60")))

	_, err = f.svc.PagarCuenta(context.Background(), admin(), dto.PagarCuentaRequest{CuentaID: cuentaID, Monto: dec("70"), Metodo: "efectivo"})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeValidation))

	pago, err = f.svc.PagarCuenta(context.Background(), admin(), dto.PagarCuentaRequest{CuentaID: cuentaID, Monto: dec("60"), Metodo: "transferencia"})
	require.NoError(t, err)
	assert.True(t, pago.SaldoNuevo.IsZero())
	assert.Equal(t, model.CuentaPagada, pago.EstadoNuevo)
	assert.True(t, f.clientes.clientes[c.ID].Saldo.IsZero())
	assert.Len(t, f.cuentas.pagosCobrar, 2)
}

func TestReporteVentas_ExportsWorkbook(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")
	_, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionContado, item(p, "2")))
	require.NoError(t, err)

	rep, err := f.svc.Reporte(context.Background(), admin(), dto.ReporteVentasFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rep.Total)
	assert.True(t, rep.SumaTotal.Equal(dec("2.00")))

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportarReporte(context.Background(), admin(), dto.ReporteVentasFilter{Page: 1, Limit: 50}, &buf))
	// xlsx files are zip archives.
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2])
}

func TestImprimirVenta_RendersPDF(t *testing.T) {
	f := newVentasFixture(t)
	p := f.producto("10", "1.00", "0")
	c := f.clientes.add("0", "0")
	resp, err := f.svc.Registrar(context.Background(), admin(), venta(c, model.CondicionContado, item(p, "1")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Imprimir(context.Background(), admin(), uuid.MustParse(resp.ID), &buf))
	assert.Equal(t, "%PDF", buf.String()[:4])

	err = f.svc.Imprimir(context.Background(), admin(), uuid.New(), &buf)
	assert.True(t, apierror.IsCode(err, apierror.CodeNotFound))
}
