package service

import (
	"context"
	"fmt"
	"io"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/infra"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const validezProformaDias = 15

type ProformaService interface {
	Crear(ctx context.Context, u auth.ActingUser, req dto.CrearProformaRequest) (*dto.ProformaResponse, error)
	Obtener(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.ProformaResponse, error)
	Listar(ctx context.Context, u auth.ActingUser, filter dto.ProformaFilter) ([]dto.ProformaResponse, int64, error)
	Imprimir(ctx context.Context, u auth.ActingUser, id uuid.UUID, w io.Writer) error
	// Convertir invoices a pending proforma through the regular sale
	// transaction, which also flips the proforma to facturada.
	Convertir(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ConvertirProformaRequest) (*dto.VentaResponse, error)
}

type proformaService struct {
	repo         repository.ProformaRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	ventas       VentaService
	emisor       Emisor
}

func NewProformaService(
	repo repository.ProformaRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	ventas VentaService,
	emisor Emisor,
) ProformaService {
	return &proformaService{repo: repo, productoRepo: productoRepo, clienteRepo: clienteRepo, ventas: ventas, emisor: emisor}
}

func (s *proformaService) Crear(ctx context.Context, u auth.ActingUser, req dto.CrearProformaRequest) (*dto.ProformaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProformas); err != nil {
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

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, buscarErr(err, "Cliente")
	}
	if !cliente.Activo {
		return nil, apierror.PartyInactive(cliente.Nombre)
	}

	p := &model.Proforma{
		SucursalID:    sucursalID,
		UsuarioID:     u.ID,
		ClienteID:     clienteID,
		Estado:        "pendiente",
		ValidezDias:   req.ValidezDias,
		Observaciones: req.Observaciones,
		Cliente:       cliente,
	}
	if p.ValidezDias == 0 {
		p.ValidezDias = validezProformaDias
	}
	p.Subtotal, p.Descuento, p.IVA = decimal.Zero, decimal.Zero, decimal.Zero
	for i, item := range req.Items {
		pid, err := parseID(fmt.Sprintf("items[%d].producto_id", i), item.ProductoID)
		if err != nil {
			return nil, err
		}
		if !item.Cantidad.IsPositive() {
			return nil, apierror.ValidationFields(map[string]string{fmt.Sprintf("items[%d].cantidad", i): "gt"})
		}
		prod, err := s.productoRepo.FindByID(ctx, u, pid)
		if err != nil {
			return nil, buscarErr(err, "Producto")
		}
		if !prod.Activo || prod.SucursalID != sucursalID {
			return nil, apierror.NotFound("Producto")
		}
		l, err := calcularLinea(prod, item.Cantidad, item.Descuento)
		if err != nil {
			return nil, err
		}
		p.Detalles = append(p.Detalles, model.ProformaDetalle{
			ProductoID:     prod.ID,
			Descripcion:    prod.Nombre,
			Cantidad:       l.cantidad,
			PrecioUnitario: prod.PrecioVenta,
			Descuento:      l.descuento,
			TarifaIVA:      prod.TarifaIVA,
			Subtotal:       l.neto,
			IVA:            l.iva,
			Total:          l.total,
		})
		p.Subtotal = p.Subtotal.Add(l.neto)
		p.Descuento = p.Descuento.Add(l.descuento)
		p.IVA = p.IVA.Add(l.iva)
	}
	p.Total = p.Subtotal.Add(p.IVA)

	if err := s.repo.Create(ctx, u, p); err != nil {
		return nil, txErr(err)
	}
	log.Info().Int64("numero", p.Numero).Str("total", p.Total.StringFixed(2)).Msg("proforma creada")
	return proformaToResponse(p), nil
}

func (s *proformaService) Obtener(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.ProformaResponse, error) {
	if err := u.RequireAccess(auth.PermProformas); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return nil, buscarErr(err, "Proforma")
	}
	return proformaToResponse(p), nil
}

func (s *proformaService) Listar(ctx context.Context, u auth.ActingUser, filter dto.ProformaFilter) ([]dto.ProformaResponse, int64, error) {
	if err := u.RequireAccess(auth.PermProformas); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repo.List(ctx, u, filter)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.ProformaResponse, 0, len(list))
	for i := range list {
		resp = append(resp, *proformaToResponse(&list[i]))
	}
	return resp, total, nil
}

func (s *proformaService) Imprimir(ctx context.Context, u auth.ActingUser, id uuid.UUID, w io.Writer) error {
	if err := u.RequireAccess(auth.PermProformas); err != nil {
		return err
	}
	p, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return buscarErr(err, "Proforma")
	}
	if err := infra.RenderDocumentoPDF(w, s.emisor.pdf(), proformaDocumento(p)); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func (s *proformaService) Convertir(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ConvertirProformaRequest) (*dto.VentaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermVentas); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return nil, buscarErr(err, "Proforma")
	}
	if p.Estado != "pendiente" {
		return nil, apierror.Conflict("La proforma ya fue " + p.Estado)
	}

	pid := p.ID.String()
	venta := dto.RegistrarVentaRequest{
		ClienteID:     p.ClienteID.String(),
		CondicionPago: req.CondicionPago,
		SucursalID:    p.SucursalID.String(),
		ClienteEmail:  req.ClienteEmail,
		ProformaID:    &pid,
	}
	for _, d := range p.Detalles {
		venta.Items = append(venta.Items, dto.ItemVentaRequest{
			ProductoID: d.ProductoID.String(),
			Cantidad:   d.Cantidad,
			Descuento:  d.Descuento,
		})
	}
	// The sale re-locks the proforma and re-checks its state inside the tx.
	return s.ventas.Registrar(ctx, u, venta)
}

func proformaDocumento(p *model.Proforma) infra.DocumentoPDF {
	d := infra.DocumentoPDF{
		Titulo:    "PROFORMA",
		Numero:    fmt.Sprintf("%06d", p.Numero),
		Fecha:     p.CreatedAt,
		Condicion: fmt.Sprintf("Validez %d dias", p.ValidezDias),
		Subtotal:  p.Subtotal,
		Descuento: p.Descuento,
		IVA:       p.IVA,
		Total:     p.Total,
		Anulado:   p.Estado == "anulada",
	}
	if p.Cliente != nil {
		d.Cliente = p.Cliente.Nombre
		d.Identificacion = p.Cliente.Identificacion
	}
	for _, det := range p.Detalles {
		d.Lineas = append(d.Lineas, infra.LineaPDF{
			Descripcion:    det.Descripcion,
			Cantidad:       det.Cantidad,
			PrecioUnitario: det.PrecioUnitario,
			Total:          det.Subtotal,
		})
	}
	return d
}

func proformaToResponse(p *model.Proforma) *dto.ProformaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(p.Detalles))
	for _, d := range p.Detalles {
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
	resp := &dto.ProformaResponse{
		ID:            p.ID.String(),
		Numero:        p.Numero,
		ClienteID:     p.ClienteID.String(),
		Items:         items,
		Subtotal:      p.Subtotal,
		Descuento:     p.Descuento,
		IVA:           p.IVA,
		Total:         p.Total,
		Estado:        p.Estado,
		FacturaID:     idString(p.FacturaID),
		ValidezDias:   p.ValidezDias,
		Observaciones: p.Observaciones,
		CreatedAt:     fecha(p.CreatedAt),
	}
	if p.Cliente != nil {
		resp.Cliente = p.Cliente.Nombre
	}
	return resp
}
