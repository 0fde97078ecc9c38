package service

import (
	"context"
	"time"

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

type CompraService interface {
	Registrar(ctx context.Context, u auth.ActingUser, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	Pagar(ctx context.Context, u auth.ActingUser, req dto.PagarCuentaRequest) (*dto.PagoResponse, error)
	Anular(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.CompraResponse, error)
	ListarCuentas(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) (*dto.CuentaListResponse, error)
}

type compraService struct {
	repo          repository.CompraRepository
	cuentaRepo    repository.CuentaRepository
	proveedorRepo repository.ProveedorRepository
	productoRepo  repository.ProductoRepository
	historialRepo repository.HistorialPrecioRepository
	inventario    InventarioService
}

func NewCompraService(
	repo repository.CompraRepository,
	cuentaRepo repository.CuentaRepository,
	proveedorRepo repository.ProveedorRepository,
	productoRepo repository.ProductoRepository,
	historialRepo repository.HistorialPrecioRepository,
	inventario InventarioService,
) CompraService {
	return &compraService{
		repo:          repo,
		cuentaRepo:    cuentaRepo,
		proveedorRepo: proveedorRepo,
		productoRepo:  productoRepo,
		historialRepo: historialRepo,
		inventario:    inventario,
	}
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Header + lines, IN movements, cost update with history, payable on credit.

func (s *compraService) Registrar(ctx context.Context, u auth.ActingUser, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCompras); err != nil {
		return nil, err
	}
	proveedorID, err := parseID("proveedor_id", req.ProveedorID)
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
	emision := time.Now()
	if req.FechaEmision != "" {
		if emision, err = time.Parse("2006-01-02", req.FechaEmision); err != nil {
			return nil, apierror.ValidationFields(map[string]string{"fecha_emision": "datetime"})
		}
	}

	proveedor, err := s.proveedorRepo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, buscarErr(err, "Proveedor")
	}
	if !proveedor.Activo {
		return nil, apierror.PartyInactive(proveedor.RazonSocial)
	}

	var compra model.Compra
	var cuentaID *uuid.UUID
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra = model.Compra{
			SucursalID:      sucursalID,
			UsuarioID:       u.ID,
			ProveedorID:     proveedorID,
			NumeroDocumento: req.NumeroDocumento,
			ClaveAcceso:     req.ClaveAcceso,
			CondicionPago:   req.CondicionPago,
			FechaEmision:    emision,
			Estado:          "registrada",
			Proveedor:       proveedor,
		}

		ids := make([]uuid.UUID, len(req.Items))
		for i, item := range req.Items {
			pid, err := parseID("producto_id", item.ProductoID)
			if err != nil {
				return err
			}
			p, err := s.productoRepo.FindForUpdateTx(tx, pid)
			if err != nil {
				return buscarErr(err, "Producto")
			}
			if p.SucursalID != sucursalID {
				return apierror.NotFound("Producto")
			}
			tarifa := p.TarifaIVA
			if item.TarifaIVA != nil {
				tarifa = *item.TarifaIVA
			}
			neto := item.Cantidad.Mul(item.CostoUnitario).Round(2)
			iva := neto.Mul(tarifa).Div(cien).Round(2)
			compra.Detalles = append(compra.Detalles, model.CompraDetalle{
				ProductoID:    pid,
				Cantidad:      item.Cantidad,
				CostoUnitario: item.CostoUnitario,
				TarifaIVA:     tarifa,
				Subtotal:      neto,
				IVA:           iva,
				Total:         neto.Add(iva),
			})
			compra.Subtotal = compra.Subtotal.Add(neto)
			compra.IVA = compra.IVA.Add(iva)
			ids[i] = pid
		}
		compra.Total = compra.Subtotal.Add(compra.IVA)

		if err := s.repo.CreateTx(ctx, tx, u, &compra); err != nil {
			return err
		}

		ref := compra.ID
		for i, d := range compra.Detalles {
			if _, err := s.inventario.AplicarMovimientoTx(ctx, tx, u, Movimiento{
				ProductoID:   ids[i],
				Tipo:         model.MovimientoEntrada,
				Cantidad:     d.Cantidad,
				Motivo:       MotivoCompra,
				ReferenciaID: &ref,
				Notas:        "Compra " + compra.NumeroDocumento,
			}); err != nil {
				return err
			}
			if err := s.actualizarCostoTx(tx, u, ids[i], d.CostoUnitario, proveedorID, ref); err != nil {
				return err
			}
		}

		if req.CondicionPago == model.CondicionCredito {
			vence := emision.AddDate(0, 0, proveedor.DiasCredito)
			cuenta := &model.CuentaPorPagar{
				CompraID:         compra.ID,
				ProveedorID:      proveedorID,
				SucursalID:       sucursalID,
				Monto:            compra.Total,
				Saldo:            compra.Total,
				Estado:           model.CuentaPendiente,
				FechaVencimiento: &vence,
			}
			if err := s.cuentaRepo.CreatePagarTx(tx, u, cuenta); err != nil {
				return err
			}
			cuentaID = &cuenta.ID
		}
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}

	log.Info().
		Str("compra_id", compra.ID.String()).
		Str("proveedor", proveedor.RazonSocial).
		Str("total", compra.Total.StringFixed(2)).
		Msg("compra registrada")

	resp := compraToResponse(&compra)
	resp.CuentaID = idString(cuentaID)
	return resp, nil
}

// actualizarCostoTx stores the new purchase cost and records the change.
func (s *compraService) actualizarCostoTx(tx *gorm.DB, u auth.ActingUser, productoID uuid.UUID, costo decimal.Decimal, proveedorID, compraID uuid.UUID) error {
	p, err := s.productoRepo.FindForUpdateTx(tx, productoID)
	if err != nil {
		return buscarErr(err, "Producto")
	}
	if p.PrecioCosto.Equal(costo) {
		return nil
	}
	if err := s.historialRepo.CreateTx(tx, u, &model.HistorialPrecio{
		ProductoID:   productoID,
		ProveedorID:  &proveedorID,
		CompraID:     &compraID,
		UsuarioID:    u.ID,
		CostoAntes:   p.PrecioCosto,
		CostoDespues: costo,
		Motivo:       "compra",
	}); err != nil {
		return err
	}
	return s.productoRepo.UpdateCostoTx(tx, u, productoID, costo)
}

// ── Pagar ─────────────────────────────────────────────────────────────────────

func (s *compraService) Pagar(ctx context.Context, u auth.ActingUser, req dto.PagarCuentaRequest) (*dto.PagoResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCompras); err != nil {
		return nil, err
	}
	cuentaID, err := parseID("cuenta_id", req.CuentaID)
	if err != nil {
		return nil, err
	}

	var resp dto.PagoResponse
	err = runTx(ctx, s.cuentaRepo.DB(), func(tx *gorm.DB) error {
		cuenta, err := s.cuentaRepo.FindPagarForUpdateTx(tx, cuentaID)
		if err != nil {
			return buscarErr(err, "Cuenta por pagar")
		}
		if b, limited := u.BranchFilter(); limited && cuenta.SucursalID != b {
			return apierror.NotFound("Cuenta por pagar")
		}
		saldo, estado, err := aplicarPago(cuenta.Saldo, cuenta.Estado, req.Monto)
		if err != nil {
			return err
		}
		if err := s.cuentaRepo.CreatePagoPagarTx(tx, u, &model.PagoCuentaPagar{
			CuentaID:   cuenta.ID,
			UsuarioID:  u.ID,
			Monto:      req.Monto,
			Metodo:     req.Metodo,
			Referencia: req.Referencia,
		}); err != nil {
			return err
		}
		cuenta.Saldo, cuenta.Estado = saldo, estado
		if err := s.cuentaRepo.SavePagarTx(tx, u, cuenta); err != nil {
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

// ── Anular ────────────────────────────────────────────────────────────────────

func (s *compraService) Anular(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*dto.CompraResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCompras); err != nil {
		return nil, err
	}

	var compra *model.Compra
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return buscarErr(err, "Compra")
		}
		if b, limited := u.BranchFilter(); limited && c.SucursalID != b {
			return apierror.NotFound("Compra")
		}
		if c.Estado == "anulada" {
			return apierror.Conflict("La compra ya esta anulada")
		}

		ref := c.ID
		for _, d := range c.Detalles {
			if _, err := s.inventario.AplicarMovimientoTx(ctx, tx, u, Movimiento{
				ProductoID:   d.ProductoID,
				Tipo:         model.MovimientoSalida,
				Cantidad:     d.Cantidad,
				Motivo:       MotivoAnulacionCompra,
				ReferenciaID: &ref,
				Notas:        "Anulacion compra " + c.NumeroDocumento,
			}); err != nil {
				return err
			}
		}

		if c.CondicionPago == model.CondicionCredito {
			cuenta, err := s.cuentaRepo.FindPagarPorCompraTx(tx, c.ID)
			if err != nil {
				return buscarErr(err, "Cuenta por pagar")
			}
			cuenta.Saldo = decimal.Zero
			cuenta.Estado = model.CuentaAnulada
			if err := s.cuentaRepo.SavePagarTx(tx, u, cuenta); err != nil {
				return err
			}
		}

		if err := s.repo.AnularTx(tx, u, c.ID); err != nil {
			return err
		}
		c.Estado = "anulada"
		compra = c
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}
	log.Info().Str("compra_id", id.String()).Msg("compra anulada")
	return compraToResponse(compra), nil
}

func (s *compraService) ListarCuentas(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) (*dto.CuentaListResponse, error) {
	if err := u.RequireAccess(auth.PermCompras); err != nil {
		return nil, err
	}
	cuentas, total, err := s.cuentaRepo.ListPagar(ctx, u, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	data := make([]dto.CuentaResponse, 0, len(cuentas))
	for _, c := range cuentas {
		data = append(data, dto.CuentaResponse{
			ID:            c.ID.String(),
			DocumentoID:   c.CompraID.String(),
			ContraparteID: c.ProveedorID.String(),
			Monto:         c.Monto,
			Saldo:         c.Saldo,
			Estado:        c.Estado,
			CreatedAt:     fecha(c.CreatedAt),
		})
	}
	return &dto.CuentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	return &dto.CompraResponse{
		ID:              c.ID.String(),
		ProveedorID:     c.ProveedorID.String(),
		NumeroDocumento: c.NumeroDocumento,
		CondicionPago:   c.CondicionPago,
		Subtotal:        c.Subtotal,
		IVA:             c.IVA,
		Total:           c.Total,
		Estado:          c.Estado,
		FechaEmision:    c.FechaEmision.Format("2006-01-02"),
	}
}
