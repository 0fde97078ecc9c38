package service

import (
	"context"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Motivos de movimiento.
const (
	MotivoVenta           = "venta"
	MotivoAnulacionVenta  = "anulacion_venta"
	MotivoCompra          = "compra"
	MotivoAnulacionCompra = "anulacion_compra"
	MotivoAjuste          = "ajuste"
	MotivoProduccion      = "produccion"
)

// Movimiento is the input of the single stock primitive. Every stock change in
// the system (sales, purchases, cancellations, production, manual
// adjustments) goes through AplicarMovimientoTx.
type Movimiento struct {
	ProductoID   uuid.UUID
	Tipo         string // model.MovimientoEntrada | model.MovimientoSalida
	Cantidad     decimal.Decimal
	Motivo       string
	ReferenciaID *uuid.UUID
	Notas        string
}

// InventarioService defines the contract for stock movements and production.
type InventarioService interface {
	// AplicarMovimientoTx is called within a caller's transaction: it locks the
	// product row, updates its stock and appends the kardex row.
	AplicarMovimientoTx(ctx context.Context, tx *gorm.DB, u auth.ActingUser, m Movimiento) (*model.MovimientoInventario, error)
	// VerificarStockTx locks the product and fails with InsufficientStock
	// when an OUT of cantidad would leave it negative.
	VerificarStockTx(tx *gorm.DB, u auth.ActingUser, productoID uuid.UUID, cantidad decimal.Decimal) (*model.Producto, error)

	MovimientoManual(ctx context.Context, u auth.ActingUser, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error)
	Kardex(ctx context.Context, u auth.ActingUser, filter dto.KardexFilter) (*dto.KardexResponse, error)
	Producir(ctx context.Context, u auth.ActingUser, req dto.ProduccionRequest) (*dto.ProduccionResponse, error)
}

type inventarioService struct {
	productoRepo     repository.ProductoRepository
	movRepo          repository.MovimientoRepository
	permitirNegativo bool
}

func NewInventarioService(productoRepo repository.ProductoRepository, movRepo repository.MovimientoRepository, permitirNegativo bool) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movRepo: movRepo, permitirNegativo: permitirNegativo}
}

func (s *inventarioService) bloquearProducto(tx *gorm.DB, u auth.ActingUser, id uuid.UUID) (*model.Producto, error) {
	p, err := s.productoRepo.FindForUpdateTx(tx, id)
	if err != nil {
		return nil, buscarErr(err, "Producto")
	}
	if b, limited := u.BranchFilter(); limited && p.SucursalID != b {
		return nil, apierror.NotFound("Producto")
	}
	return p, nil
}

func (s *inventarioService) VerificarStockTx(tx *gorm.DB, u auth.ActingUser, productoID uuid.UUID, cantidad decimal.Decimal) (*model.Producto, error) {
	p, err := s.bloquearProducto(tx, u, productoID)
	if err != nil {
		return nil, err
	}
	if !s.permitirNegativo && p.StockActual.LessThan(cantidad) {
		return nil, apierror.InsufficientStock(p.Nombre, p.StockActual, cantidad)
	}
	return p, nil
}

func (s *inventarioService) AplicarMovimientoTx(ctx context.Context, tx *gorm.DB, u auth.ActingUser, m Movimiento) (*model.MovimientoInventario, error) {
	if !m.Cantidad.IsPositive() {
		return nil, apierror.ValidationFields(map[string]string{"cantidad": "gt"})
	}
	p, err := s.bloquearProducto(tx, u, m.ProductoID)
	if err != nil {
		return nil, err
	}

	antes := p.StockActual
	var nuevo decimal.Decimal
	switch m.Tipo {
	case model.MovimientoEntrada:
		nuevo = antes.Add(m.Cantidad)
	case model.MovimientoSalida:
		nuevo = antes.Sub(m.Cantidad)
		if nuevo.IsNegative() && !s.permitirNegativo {
			return nil, apierror.InsufficientStock(p.Nombre, antes, m.Cantidad)
		}
	default:
		return nil, apierror.ValidationFields(map[string]string{"tipo": "oneof"})
	}

	if err := s.productoRepo.SetStockTx(tx, u, p.ID, nuevo); err != nil {
		return nil, err
	}
	p.StockActual = nuevo

	mov := &model.MovimientoInventario{
		ProductoID:    p.ID,
		SucursalID:    p.SucursalID,
		UsuarioID:     u.ID,
		Tipo:          m.Tipo,
		Motivo:        m.Motivo,
		Cantidad:      m.Cantidad,
		StockAnterior: antes,
		StockNuevo:    nuevo,
		ReferenciaID:  m.ReferenciaID,
		Notas:         m.Notas,
		Producto:      p,
	}
	if err := s.movRepo.CreateTx(tx, u, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (s *inventarioService) MovimientoManual(ctx context.Context, u auth.ActingUser, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error) {
	if err := u.AuthorizeWrite(auth.PermInventario); err != nil {
		return nil, err
	}
	pid, err := parseID("producto_id", req.ProductoID)
	if err != nil {
		return nil, err
	}

	var mov *model.MovimientoInventario
	err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.AplicarMovimientoTx(ctx, tx, u, Movimiento{
			ProductoID: pid,
			Tipo:       req.Tipo,
			Cantidad:   req.Cantidad,
			Motivo:     MotivoAjuste,
			Notas:      req.Notas,
		})
		return err
	})
	if err != nil {
		return nil, txErr(err)
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *inventarioService) Kardex(ctx context.Context, u auth.ActingUser, filter dto.KardexFilter) (*dto.KardexResponse, error) {
	if err := u.RequireAccess(auth.PermInventario); err != nil {
		return nil, err
	}
	if filter.ProductoID != "" {
		if _, err := parseID("producto_id", filter.ProductoID); err != nil {
			return nil, err
		}
	}
	movs, total, err := s.movRepo.List(ctx, u, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.MovimientoResponse, 0, len(movs))
	for i := range movs {
		data = append(data, movimientoToResponse(&movs[i]))
	}
	return &dto.KardexResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Producir explodes the recipe of a product: one OUT per component
// (component quantity x cantidad) and one IN for the finished product, all in
// one transaction. Stock of every component is checked before any write.
func (s *inventarioService) Producir(ctx context.Context, u auth.ActingUser, req dto.ProduccionRequest) (*dto.ProduccionResponse, error) {
	if err := u.AuthorizeWrite(auth.PermInventario); err != nil {
		return nil, err
	}
	pid, err := parseID("producto_id", req.ProductoID)
	if err != nil {
		return nil, err
	}

	var movs []*model.MovimientoInventario
	err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if _, err := s.bloquearProducto(tx, u, pid); err != nil {
			return err
		}
		receta, err := s.productoRepo.ListComponentesTx(tx, pid)
		if err != nil {
			return err
		}
		if len(receta) == 0 {
			return apierror.Validation("El producto no tiene receta definida")
		}

		requerido := make(map[uuid.UUID]decimal.Decimal, len(receta))
		for _, c := range receta {
			requerido[c.ComponenteID] = requerido[c.ComponenteID].Add(c.Cantidad.Mul(req.Cantidad))
		}
		for _, c := range receta {
			if _, err := s.VerificarStockTx(tx, u, c.ComponenteID, requerido[c.ComponenteID]); err != nil {
				return err
			}
		}

		ref := pid
		for _, c := range receta {
			mov, err := s.AplicarMovimientoTx(ctx, tx, u, Movimiento{
				ProductoID:   c.ComponenteID,
				Tipo:         model.MovimientoSalida,
				Cantidad:     c.Cantidad.Mul(req.Cantidad),
				Motivo:       MotivoProduccion,
				ReferenciaID: &ref,
				Notas:        req.Notas,
			})
			if err != nil {
				return err
			}
			movs = append(movs, mov)
		}
		mov, err := s.AplicarMovimientoTx(ctx, tx, u, Movimiento{
			ProductoID: pid,
			Tipo:       model.MovimientoEntrada,
			Cantidad:   req.Cantidad,
			Motivo:     MotivoProduccion,
			Notas:      req.Notas,
		})
		if err != nil {
			return err
		}
		movs = append(movs, mov)
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}

	log.Info().Str("producto_id", pid.String()).Str("cantidad", req.Cantidad.String()).
		Int("componentes", len(movs)-1).Msg("produccion registrada")

	resp := &dto.ProduccionResponse{ProductoID: pid.String(), Cantidad: req.Cantidad}
	for _, m := range movs {
		resp.Movimientos = append(resp.Movimientos, movimientoToResponse(m))
	}
	return resp, nil
}

func movimientoToResponse(m *model.MovimientoInventario) dto.MovimientoResponse {
	r := dto.MovimientoResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Motivo:        m.Motivo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		ReferenciaID:  idString(m.ReferenciaID),
		Notas:         m.Notas,
		CreatedAt:     fecha(m.CreatedAt),
	}
	if m.Producto != nil {
		r.Producto = m.Producto.Nombre
	}
	return r
}
