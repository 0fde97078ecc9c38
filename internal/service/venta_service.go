package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"time"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/comprobante"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/infra"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"
	"integrafacturacion/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// diasCredito is the default term of a receivable opened by a credit sale.
const diasCredito = 30

// maxFilasExportacion caps one xlsx export; it starts at the first page.
const maxFilasExportacion = 500

var reNumero = regexp.MustCompile(`^(\d{3})-(\d{3})-(\d{9})$`)

// Encolador is satisfied by *worker.Dispatcher.
type Encolador interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

type VentaService interface {
	Registrar(ctx context.Context, u auth.ActingUser, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, u auth.ActingUser, id uuid.UUID, motivo string) (*dto.VentaResponse, error)
	PagarCuenta(ctx context.Context, u auth.ActingUser, req dto.PagarCuentaRequest) (*dto.PagoResponse, error)
	ListarCuentas(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) (*dto.CuentaListResponse, error)
	Reporte(ctx context.Context, u auth.ActingUser, filter dto.ReporteVentasFilter) (*dto.ReporteVentasResponse, error)
	ExportarReporte(ctx context.Context, u auth.ActingUser, filter dto.ReporteVentasFilter, w io.Writer) error
	Imprimir(ctx context.Context, u auth.ActingUser, id uuid.UUID, w io.Writer) error
}

type ventaService struct {
	repo         repository.FacturaRepository
	clienteRepo  repository.ClienteRepository
	cuentaRepo   repository.CuentaRepository
	cajaRepo     repository.CajaRepository
	sucursalRepo repository.SucursalRepository
	proformaRepo repository.ProformaRepository
	inventario   InventarioService
	encolador    Encolador
	emisor       Emisor
}

func NewVentaService(
	repo repository.FacturaRepository,
	clienteRepo repository.ClienteRepository,
	cuentaRepo repository.CuentaRepository,
	cajaRepo repository.CajaRepository,
	sucursalRepo repository.SucursalRepository,
	proformaRepo repository.ProformaRepository,
	inventario InventarioService,
	encolador Encolador,
	emisor Emisor,
) VentaService {
	return &ventaService{
		repo:         repo,
		clienteRepo:  clienteRepo,
		cuentaRepo:   cuentaRepo,
		cajaRepo:     cajaRepo,
		sucursalRepo: sucursalRepo,
		proformaRepo: proformaRepo,
		inventario:   inventario,
		encolador:    encolador,
		emisor:       emisor,
	}
}

// linea is a sale line priced from the locked product row.
type linea struct {
	producto  *model.Producto
	cantidad  decimal.Decimal
	descuento decimal.Decimal
	neto      decimal.Decimal
	iva       decimal.Decimal
	total     decimal.Decimal
}

// calcularLinea applies server prices: net = qty x price - discount,
// iva = net x rate / 100, both rounded to cents.
func calcularLinea(p *model.Producto, cantidad, descuento decimal.Decimal) (linea, error) {
	bruto := cantidad.Mul(p.PrecioVenta)
	if descuento.IsNegative() || descuento.GreaterThan(bruto) {
		return linea{}, apierror.Validation(fmt.Sprintf("Descuento invalido para %s", p.Nombre))
	}
	neto := bruto.Sub(descuento).Round(2)
	iva := neto.Mul(p.TarifaIVA).Div(cien).Round(2)
	return linea{
		producto:  p,
		cantidad:  cantidad,
		descuento: descuento.Round(2),
		neto:      neto,
		iva:       iva,
		total:     neto.Add(iva),
	}, nil
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// One transaction:
//   1. lock and stock-check every product (aggregated per product)
//   2. price lines from the product rows
//   3. lock the client, check active flag and credit limit
//   4. number the document and build the access key
//   5. persist header + lines, OUT movements, receivable, client balance
//   6. (after commit) enqueue the e-mail job when requested

func (s *ventaService) Registrar(ctx context.Context, u auth.ActingUser, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermVentas); err != nil {
		return nil, err
	}
	clienteID, err := parseID("cliente_id", req.ClienteID)
	if err != nil {
		return nil, err
	}
	pedido, err := parseOptionalID("sucursal_id", req.SucursalID)
	if err != nil {
		return nil, err
	}
	sucursalID := u.ScopedBranch(pedido)
	if sucursalID == uuid.Nil {
		return nil, apierror.ValidationFields(map[string]string{"sucursal_id": "required"})
	}
	proformaID, err := optionalUUID("proforma_id", req.ProformaID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(req.Items))
	porProducto := make(map[uuid.UUID]decimal.Decimal, len(req.Items))
	var orden []uuid.UUID
	for i, item := range req.Items {
		pid, err := parseID(fmt.Sprintf("items[%d].producto_id", i), item.ProductoID)
		if err != nil {
			return nil, err
		}
		if !item.Cantidad.IsPositive() {
			return nil, apierror.ValidationFields(map[string]string{fmt.Sprintf("items[%d].cantidad", i): "gt"})
		}
		ids[i] = pid
		if _, ok := porProducto[pid]; !ok {
			orden = append(orden, pid)
		}
		porProducto[pid] = porProducto[pid].Add(item.Cantidad)
	}

	sort.Slice(orden, func(i, j int) bool { return bytes.Compare(orden[i][:], orden[j][:]) < 0 })

	var factura model.Factura
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// 1. Lock products in id order; lines must belong to the sale's branch.
		productos := make(map[uuid.UUID]*model.Producto, len(orden))
		for _, pid := range orden {
			p, err := s.inventario.VerificarStockTx(tx, u, pid, porProducto[pid])
			if err != nil {
				return err
			}
			if !p.Activo || p.SucursalID != sucursalID {
				return apierror.NotFound("Producto")
			}
			productos[pid] = p
		}

		// 2. Price lines
		lineas := make([]linea, len(req.Items))
		subtotal, descuento, iva := decimal.Zero, decimal.Zero, decimal.Zero
		for i, item := range req.Items {
			l, err := calcularLinea(productos[ids[i]], item.Cantidad, item.Descuento)
			if err != nil {
				return err
			}
			lineas[i] = l
			subtotal = subtotal.Add(l.neto)
			descuento = descuento.Add(l.descuento)
			iva = iva.Add(l.iva)
		}
		total := subtotal.Add(iva)

		// 3. Client and credit
		cliente, err := s.clienteRepo.FindForUpdateTx(tx, clienteID)
		if err != nil {
			return buscarErr(err, "Cliente")
		}
		if !cliente.Activo {
			return apierror.PartyInactive(cliente.Nombre)
		}
		if req.CondicionPago == model.CondicionCredito &&
			cliente.Saldo.Add(total).GreaterThan(cliente.LimiteCredito) {
			return apierror.CreditLimitExceeded(cliente.Nombre, cliente.Saldo, cliente.LimiteCredito, total)
		}

		if proformaID != nil {
			pf, err := s.proformaRepo.FindForUpdateTx(tx, *proformaID)
			if err != nil {
				return buscarErr(err, "Proforma")
			}
			if pf.Estado != "pendiente" {
				return apierror.Conflict("La proforma ya fue " + pf.Estado)
			}
		}

		// 4. Numbering
		ahora := time.Now()
		numero, secuencial, clave, err := s.numerar(ctx, tx, sucursalID, ahora, req.Numero, req.ClaveAcceso)
		if err != nil {
			return err
		}

		factura = model.Factura{
			SucursalID:    sucursalID,
			UsuarioID:     u.ID,
			ClienteID:     clienteID,
			ProformaID:    proformaID,
			Numero:        numero,
			Secuencial:    secuencial,
			ClaveAcceso:   clave,
			CondicionPago: req.CondicionPago,
			Subtotal:      subtotal,
			Descuento:     descuento,
			IVA:           iva,
			Total:         total,
			Estado:        "emitida",
			FechaEmision:  ahora,
			Cliente:       cliente,
		}
		if req.CondicionPago == model.CondicionContado {
			if sesion, err := s.cajaRepo.FindAbiertaPorSucursal(ctx, sucursalID); err == nil && sesion != nil {
				factura.SesionCajaID = &sesion.ID
			}
		}
		for _, l := range lineas {
			factura.Detalles = append(factura.Detalles, model.FacturaDetalle{
				ProductoID:     l.producto.ID,
				Descripcion:    l.producto.Nombre,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.producto.PrecioVenta,
				Descuento:      l.descuento,
				TarifaIVA:      l.producto.TarifaIVA,
				Subtotal:       l.neto,
				IVA:            l.iva,
				Total:          l.total,
			})
		}

		// 5. Persist
		if err := s.repo.CreateTx(ctx, tx, u, &factura); err != nil {
			return guardarErr(err, "Numero de factura o clave de acceso duplicados")
		}
		if req.Numero != "" {
			if err := s.repo.AvanzarSecuencialTx(ctx, tx, secuencial); err != nil {
				return err
			}
		}
		ref := factura.ID
		for _, l := range lineas {
			if _, err := s.inventario.AplicarMovimientoTx(ctx, tx, u, Movimiento{
				ProductoID:   l.producto.ID,
				Tipo:         model.MovimientoSalida,
				Cantidad:     l.cantidad,
				Motivo:       MotivoVenta,
				ReferenciaID: &ref,
				Notas:        "Factura " + numero,
			}); err != nil {
				return err
			}
		}

		// 6. Receivable and client balance
		if req.CondicionPago == model.CondicionCredito {
			vence := ahora.AddDate(0, 0, diasCredito)
			cuenta := &model.CuentaPorCobrar{
				FacturaID:        factura.ID,
				ClienteID:        clienteID,
				SucursalID:       sucursalID,
				Monto:            total,
				Saldo:            total,
				Estado:           model.CuentaPendiente,
				FechaVencimiento: &vence,
			}
			if err := s.cuentaRepo.CreateCobrarTx(tx, u, cuenta); err != nil {
				return err
			}
			if err := s.clienteRepo.AjustarSaldoTx(tx, u, clienteID, total); err != nil {
				return err
			}
		}

		if proformaID != nil {
			return s.proformaRepo.MarcarFacturadaTx(tx, u, *proformaID, factura.ID)
		}
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}

	log.Info().
		Str("factura_id", factura.ID.String()).
		Str("numero", factura.Numero).
		Str("total", factura.Total.StringFixed(2)).
		Str("condicion", factura.CondicionPago).
		Msg("venta registrada")

	if req.ClienteEmail != nil && *req.ClienteEmail != "" {
		s.encolarEmail(ctx, &factura, *req.ClienteEmail)
	}
	return facturaToResponse(&factura), nil
}

// numerar returns the printed number, the sequence and the access key. Values
// already assigned by the caller are kept.
func (s *ventaService) numerar(ctx context.Context, tx *gorm.DB, sucursalID uuid.UUID, fecha time.Time, numero, clave string) (string, int64, string, error) {
	est, pto := s.emisor.Establecimiento, s.emisor.PuntoEmision
	if suc, err := s.sucursalRepo.FindByID(ctx, sucursalID); err == nil && suc != nil {
		if suc.Establecimiento != "" {
			est = suc.Establecimiento
		}
		if suc.PuntoEmision != "" {
			pto = suc.PuntoEmision
		}
	}

	var secuencial int64
	if numero != "" {
		m := reNumero.FindStringSubmatch(numero)
		if m == nil {
			return "", 0, "", apierror.ValidationFields(map[string]string{"numero": "format"})
		}
		est, pto = m[1], m[2]
		secuencial, _ = strconv.ParseInt(m[3], 10, 64)
	} else {
		n, err := s.repo.NextSecuencialTx(ctx, tx)
		if err != nil {
			return "", 0, "", err
		}
		secuencial = n
		numero = comprobante.NumeroDocumento(est, pto, secuencial)
	}

	if clave == "" {
		k, err := comprobante.GenerarClaveAcceso(comprobante.DatosClave{
			Fecha:           fecha,
			TipoComprobante: comprobante.TipoFactura,
			RUC:             s.emisor.RUC,
			Ambiente:        s.emisor.Ambiente,
			Establecimiento: est,
			PuntoEmision:    pto,
			Secuencial:      secuencial,
		})
		if err != nil {
			return "", 0, "", apierror.Validation(err.Error())
		}
		clave = k
	} else if !comprobante.ValidarClaveAcceso(clave) {
		return "", 0, "", apierror.ValidationFields(map[string]string{"clave_acceso": "digito_verificador"})
	}
	return numero, secuencial, clave, nil
}

func (s *ventaService) encolarEmail(ctx context.Context, f *model.Factura, to string) {
	if s.encolador == nil {
		return
	}
	path, err := infra.GuardarDocumentoPDF(s.emisor.PDFPath, "factura_"+f.Numero+".pdf", s.emisor.pdf(), facturaDocumento(f))
	if err != nil {
		log.Warn().Err(err).Str("factura_id", f.ID.String()).Msg("no se pudo generar el PDF para envio")
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: to,
		Subject: "Factura " + f.Numero + " - " + s.emisor.RazonSocial,
		Body:    "Adjuntamos su factura electronica " + f.Numero + ".\nClave de acceso: " + f.ClaveAcceso,
		PDFPath: path,
	}
	if err := s.encolador.EnqueueEmail(ctx, payload); err != nil {
		log.Warn().Err(err).Str("factura_id", f.ID.String()).Msg("no se pudo encolar el envio de la factura")
	}
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Compensates every line with an IN movement, zeroes the receivable and gives
// the outstanding balance back to the client. One transaction.

func (s *ventaService) Anular(ctx context.Context, u auth.ActingUser, id uuid.UUID, motivo string) (*dto.VentaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermVentas); err != nil {
		return nil, err
	}

	var factura *model.Factura
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return buscarErr(err, "Factura")
		}
		if b, limited := u.BranchFilter(); limited && f.SucursalID != b {
			return apierror.NotFound("Factura")
		}
		if f.Estado == "anulada" {
			return apierror.Conflict("La factura ya esta anulada")
		}

		ref := f.ID
		for _, d := range f.Detalles {
			if _, err := s.inventario.AplicarMovimientoTx(ctx, tx, u, Movimiento{
				ProductoID:   d.ProductoID,
				Tipo:         model.MovimientoEntrada,
				Cantidad:     d.Cantidad,
				Motivo:       MotivoAnulacionVenta,
				ReferenciaID: &ref,
				Notas:        "Anulacion factura " + f.Numero,
			}); err != nil {
				return err
			}
		}

		if f.CondicionPago == model.CondicionCredito {
			cuenta, err := s.cuentaRepo.FindCobrarPorFacturaTx(tx, f.ID)
			if err != nil {
				return buscarErr(err, "Cuenta por cobrar")
			}
			pendiente := cuenta.Saldo
			cuenta.Saldo = decimal.Zero
			cuenta.Estado = model.CuentaAnulada
			if err := s.cuentaRepo.SaveCobrarTx(tx, u, cuenta); err != nil {
				return err
			}
			if pendiente.IsPositive() {
				if err := s.clienteRepo.AjustarSaldoTx(tx, u, f.ClienteID, pendiente.Neg()); err != nil {
					return err
				}
			}
		}

		if err := s.repo.AnularTx(tx, u, f.ID, motivo); err != nil {
			return err
		}
		f.Estado = "anulada"
		f.MotivoAnulacion = &motivo
		factura = f
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}
	log.Info().Str("factura_id", id.String()).Str("motivo", motivo).Msg("venta anulada")
	return facturaToResponse(factura), nil
}

// ── Cuentas por cobrar ────────────────────────────────────────────────────────

func (s *ventaService) PagarCuenta(ctx context.Context, u auth.ActingUser, req dto.PagarCuentaRequest) (*dto.PagoResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCuentas); err != nil {
		return nil, err
	}
	cuentaID, err := parseID("cuenta_id", req.CuentaID)
	if err != nil {
		return nil, err
	}

	var resp dto.PagoResponse
	err = runTx(ctx, s.cuentaRepo.DB(), func(tx *gorm.DB) error {
		cuenta, err := s.cuentaRepo.FindCobrarForUpdateTx(tx, cuentaID)
		if err != nil {
			return buscarErr(err, "Cuenta por cobrar")
		}
		if b, limited := u.BranchFilter(); limited && cuenta.SucursalID != b {
			return apierror.NotFound("Cuenta por cobrar")
		}
		saldo, estado, err := aplicarPago(cuenta.Saldo, cuenta.Estado, req.Monto)
		if err != nil {
			return err
		}
		if err := s.cuentaRepo.CreatePagoCobrarTx(tx, u, &model.PagoCuentaCobrar{
			CuentaID:   cuenta.ID,
			UsuarioID:  u.ID,
			Monto:      req.Monto,
			Metodo:     req.Metodo,
			Referencia: req.Referencia,
		}); err != nil {
			return err
		}
		cuenta.Saldo, cuenta.Estado = saldo, estado
		if err := s.cuentaRepo.SaveCobrarTx(tx, u, cuenta); err != nil {
			return err
		}
		if err := s.clienteRepo.AjustarSaldoTx(tx, u, cuenta.ClienteID, req.Monto.Neg()); err != nil {
			return err
		}
		resp = dto.PagoResponse{CuentaID: cuenta.ID.String(), Monto: req.Monto, SaldoNuevo: saldo, EstadoNuevo: estado}
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}
	return &resp, nil
}

func (s *ventaService) ListarCuentas(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) (*dto.CuentaListResponse, error) {
	if err := u.RequireAccess(auth.PermCuentas); err != nil {
		return nil, err
	}
	cuentas, total, err := s.cuentaRepo.ListCobrar(ctx, u, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.CuentaResponse, 0, len(cuentas))
	for _, c := range cuentas {
		data = append(data, dto.CuentaResponse{
			ID:            c.ID.String(),
			DocumentoID:   c.FacturaID.String(),
			ContraparteID: c.ClienteID.String(),
			Monto:         c.Monto,
			Saldo:         c.Saldo,
			Estado:        c.Estado,
			CreatedAt:     fecha(c.CreatedAt),
		})
	}
	return &dto.CuentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Reportes e impresion ──────────────────────────────────────────────────────

func (s *ventaService) Reporte(ctx context.Context, u auth.ActingUser, filter dto.ReporteVentasFilter) (*dto.ReporteVentasResponse, error) {
	if err := u.RequireAccess(auth.PermReportes); err != nil {
		return nil, err
	}
	if filter.ClienteID != "" {
		if _, err := parseID("clienteId", filter.ClienteID); err != nil {
			return nil, err
		}
	}
	facturas, total, suma, err := s.repo.Reporte(ctx, u, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.VentaResponse, 0, len(facturas))
	for i := range facturas {
		data = append(data, *facturaToResponse(&facturas[i]))
	}
	return &dto.ReporteVentasResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit, SumaTotal: suma}, nil
}

func (s *ventaService) ExportarReporte(ctx context.Context, u auth.ActingUser, filter dto.ReporteVentasFilter, w io.Writer) error {
	filter.Page, filter.Limit = 1, maxFilasExportacion
	rep, err := s.Reporte(ctx, u, filter)
	if err != nil {
		return err
	}
	if err := escribirReporteXLSX(w, rep); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func (s *ventaService) Imprimir(ctx context.Context, u auth.ActingUser, id uuid.UUID, w io.Writer) error {
	if err := u.RequireAccess(auth.PermVentas); err != nil {
		return err
	}
	f, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return buscarErr(err, "Factura")
	}
	if err := infra.RenderDocumentoPDF(w, s.emisor.pdf(), facturaDocumento(f)); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func facturaDocumento(f *model.Factura) infra.DocumentoPDF {
	d := infra.DocumentoPDF{
		Titulo:      "FACTURA",
		Numero:      f.Numero,
		ClaveAcceso: f.ClaveAcceso,
		Fecha:       f.FechaEmision,
		Condicion:   f.CondicionPago,
		Subtotal:    f.Subtotal,
		Descuento:   f.Descuento,
		IVA:         f.IVA,
		Total:       f.Total,
		Anulado:     f.Estado == "anulada",
	}
	if f.Cliente != nil {
		d.Cliente = f.Cliente.Nombre
		d.Identificacion = f.Cliente.Identificacion
	}
	for _, det := range f.Detalles {
		d.Lineas = append(d.Lineas, infra.LineaPDF{
			Descripcion:    det.Descripcion,
			Cantidad:       det.Cantidad,
			PrecioUnitario: det.PrecioUnitario,
			Total:          det.Subtotal,
		})
	}
	return d
}

func facturaToResponse(f *model.Factura) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(f.Detalles))
	for _, d := range f.Detalles {
		items = append(items, dto.ItemVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Descripcion:    d.Descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Descuento:      d.Descuento,
			Subtotal:       d.Subtotal,
			IVA:            d.IVA,
			Total:          d.Total,
		})
	}
	resp := &dto.VentaResponse{
		ID:            f.ID.String(),
		Numero:        f.Numero,
		ClaveAcceso:   f.ClaveAcceso,
		ClienteID:     f.ClienteID.String(),
		CondicionPago: f.CondicionPago,
		SesionCajaID:  idString(f.SesionCajaID),
		Items:         items,
		Subtotal:      f.Subtotal,
		Descuento:     f.Descuento,
		IVA:           f.IVA,
		Total:         f.Total,
		Estado:        f.Estado,
		FechaEmision:  fecha(f.FechaEmision),
	}
	if f.Cliente != nil {
		resp.Cliente = f.Cliente.Nombre
	}
	return resp
}
