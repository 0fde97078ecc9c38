package service

import (
	"context"
	"fmt"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, u auth.ActingUser, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, u auth.ActingUser, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	DefinirReceta(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.RecetaRequest) (*dto.ProductoResponse, error)
	HistorialCostos(ctx context.Context, u auth.ActingUser, id uuid.UUID, page, limit int) ([]dto.HistorialCostoResponse, int64, error)
}

type productoService struct {
	repo      repository.ProductoRepository
	historial repository.HistorialPrecioRepository
}

func NewProductoService(repo repository.ProductoRepository, historial repository.HistorialPrecioRepository) ProductoService {
	return &productoService{repo: repo, historial: historial}
}

func (s *productoService) Crear(ctx context.Context, u auth.ActingUser, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProductos); err != nil {
		return nil, err
	}
	sucursalID, err := parseOptionalID("sucursal_id", req.SucursalID)
	if err != nil {
		return nil, err
	}
	sucursalID = u.ScopedBranch(sucursalID)
	if sucursalID == uuid.Nil {
		return nil, apierror.ValidationFields(map[string]string{"sucursal_id": "required"})
	}
	categoriaID, err := optionalUUID("categoria_id", req.CategoriaID)
	if err != nil {
		return nil, err
	}
	proveedorID, err := optionalUUID("proveedor_id", req.ProveedorID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		SucursalID:   sucursalID,
		Codigo:       req.Codigo,
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		CategoriaID:  categoriaID,
		ProveedorID:  proveedorID,
		PrecioCosto:  req.PrecioCosto,
		PrecioVenta:  req.PrecioVenta,
		TarifaIVA:    req.TarifaIVA,
		StockActual:  decimal.Zero,
		StockMinimo:  req.StockMinimo,
		UnidadMedida: req.UnidadMedida,
		Activo:       true,
	}
	if p.UnidadMedida == "" {
		p.UnidadMedida = "unidad"
	}
	if err := s.repo.Create(ctx, u, p); err != nil {
		return nil, txErr(err)
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.ProductoResponse, error) {
	if err := u.RequireAccess(auth.PermProductos); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return nil, buscarErr(err, "Producto")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, u auth.ActingUser, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if err := u.RequireAccess(auth.PermProductos); err != nil {
		return nil, err
	}
	list, total, err := s.repo.List(ctx, u, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.ProductoResponse, 0, len(list))
	for i := range list {
		data = append(data, *productoToResponse(&list[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProductos); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return nil, buscarErr(err, "Producto")
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		cat, err := optionalUUID("categoria_id", req.CategoriaID)
		if err != nil {
			return nil, err
		}
		p.CategoriaID = cat
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, apierror.ValidationFields(map[string]string{"precio_venta": "min"})
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.TarifaIVA != nil {
		if req.TarifaIVA.IsNegative() || req.TarifaIVA.GreaterThan(cien) {
			return nil, apierror.ValidationFields(map[string]string{"tarifa_iva": "range"})
		}
		p.TarifaIVA = *req.TarifaIVA
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, u, p); err != nil {
		return nil, txErr(err)
	}
	return productoToResponse(p), nil
}

// DefinirReceta replaces the bill of materials of a product. Components must
// be visible to the caller and cannot include the product itself.
func (s *productoService) DefinirReceta(ctx context.Context, u auth.ActingUser, id uuid.UUID, req dto.RecetaRequest) (*dto.ProductoResponse, error) {
	if err := u.AuthorizeWrite(auth.PermProductos); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, u, id)
	if err != nil {
		return nil, buscarErr(err, "Producto")
	}

	vistos := make(map[uuid.UUID]bool, len(req.Componentes))
	comps := make([]model.ProductoComponente, 0, len(req.Componentes))
	for i, c := range req.Componentes {
		campo := fmt.Sprintf("componentes[%d].componente_id", i)
		cid, err := parseID(campo, c.ComponenteID)
		if err != nil {
			return nil, err
		}
		if cid == p.ID {
			return nil, apierror.ValidationFields(map[string]string{campo: "self"})
		}
		if vistos[cid] {
			return nil, apierror.ValidationFields(map[string]string{campo: "duplicate"})
		}
		if !c.Cantidad.IsPositive() {
			return nil, apierror.ValidationFields(map[string]string{fmt.Sprintf("componentes[%d].cantidad", i): "gt"})
		}
		comp, err := s.repo.FindByID(ctx, u, cid)
		if err != nil {
			return nil, buscarErr(err, "Componente")
		}
		vistos[cid] = true
		comps = append(comps, model.ProductoComponente{ProductoID: p.ID, ComponenteID: cid, Cantidad: c.Cantidad, Componente: comp})
	}

	if err := s.repo.ReemplazarReceta(ctx, u, p.ID, comps); err != nil {
		return nil, txErr(err)
	}
	p.Componentes = comps
	return productoToResponse(p), nil
}

func (s *productoService) HistorialCostos(ctx context.Context, u auth.ActingUser, id uuid.UUID, page, limit int) ([]dto.HistorialCostoResponse, int64, error) {
	if err := u.RequireAccess(auth.PermProductos); err != nil {
		return nil, 0, err
	}
	// Resolve through the scoped lookup so other branches' history stays hidden.
	if _, err := s.repo.FindByID(ctx, u, id); err != nil {
		return nil, 0, buscarErr(err, "Producto")
	}
	rows, total, err := s.historial.ListByProducto(ctx, id, page, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.HistorialCostoResponse, 0, len(rows))
	for _, h := range rows {
		resp = append(resp, dto.HistorialCostoResponse{
			ID:           h.ID.String(),
			ProductoID:   h.ProductoID.String(),
			ProveedorID:  idString(h.ProveedorID),
			CompraID:     idString(h.CompraID),
			CostoAntes:   h.CostoAntes,
			CostoDespues: h.CostoDespues,
			Motivo:       h.Motivo,
			CreatedAt:    fecha(h.CreatedAt),
		})
	}
	return resp, total, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		SucursalID:   p.SucursalID.String(),
		Codigo:       p.Codigo,
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		CategoriaID:  idString(p.CategoriaID),
		ProveedorID:  idString(p.ProveedorID),
		PrecioCosto:  p.PrecioCosto,
		PrecioVenta:  p.PrecioVenta,
		TarifaIVA:    p.TarifaIVA,
		StockActual:  p.StockActual,
		StockMinimo:  p.StockMinimo,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
	for _, c := range p.Componentes {
		cr := dto.ComponenteResponse{ComponenteID: c.ComponenteID.String(), Cantidad: c.Cantidad}
		if c.Componente != nil {
			cr.Nombre = c.Componente.Nombre
		}
		resp.Componentes = append(resp.Componentes, cr)
	}
	return resp
}
