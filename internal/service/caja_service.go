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
	"gorm.io/gorm"
)

type CajaService interface {
	Abrir(ctx context.Context, u auth.ActingUser, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, u auth.ActingUser, req dto.MovimientoCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, u auth.ActingUser, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error)
	Historial(ctx context.Context, u auth.ActingUser, page, limit int) ([]dto.SesionCajaResponse, int64, error)
	Activa(ctx context.Context, u auth.ActingUser, sucursalID uuid.UUID) (*dto.SesionCajaResponse, error)
}

type cajaService struct {
	repo        repository.CajaRepository
	facturaRepo repository.FacturaRepository
}

func NewCajaService(repo repository.CajaRepository, facturaRepo repository.FacturaRepository) CajaService {
	return &cajaService{repo: repo, facturaRepo: facturaRepo}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// One open session per branch.

func (s *cajaService) Abrir(ctx context.Context, u auth.ActingUser, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCaja); err != nil {
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

	if existing, err := s.repo.FindAbiertaPorSucursal(ctx, sucursalID); err == nil && existing != nil {
		return nil, apierror.Conflict("Ya existe una caja abierta en esta sucursal")
	}

	sesion := &model.SesionCaja{
		SucursalID:    sucursalID,
		UsuarioID:     u.ID,
		MontoApertura: req.MontoApertura,
		Estado:        "abierta",
		OpenedAt:      time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, u, sesion); err != nil {
		// The partial unique index catches a concurrent open of the same branch.
		return nil, guardarErr(err, "Ya existe una caja abierta en esta sucursal")
	}
	log.Info().Str("sesion_id", sesion.ID.String()).Str("sucursal_id", sucursalID.String()).Msg("caja abierta")
	return sesionToResponse(sesion), nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Manual ingreso / egreso. Movements are immutable.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, u auth.ActingUser, req dto.MovimientoCajaRequest) (*dto.SesionCajaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCaja); err != nil {
		return nil, err
	}
	sesion, err := s.sesionAbierta(ctx, u, req.SesionCajaID)
	if err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.ValidationFields(map[string]string{"monto": "gt"})
	}
	mov := &model.MovimientoCaja{
		SesionCajaID: sesion.ID,
		UsuarioID:    u.ID,
		Tipo:         req.Tipo,
		Monto:        req.Monto,
		Descripcion:  req.Descripcion,
	}
	if err := s.repo.CreateMovimiento(ctx, u, mov); err != nil {
		return nil, txErr(err)
	}
	sesion.Movimientos = append(sesion.Movimientos, *mov)
	return sesionToResponse(sesion), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// expected = opening float + cash sales + ingresos - egresos
// variance = counted - expected. Closing is terminal.

func (s *cajaService) Cerrar(ctx context.Context, u auth.ActingUser, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error) {
	if err := u.AuthorizeWrite(auth.PermCaja); err != nil {
		return nil, err
	}
	id, err := parseID("sesion_caja_id", req.SesionCajaID)
	if err != nil {
		return nil, err
	}

	var sesion *model.SesionCaja
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ses, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return buscarErr(err, "Sesion de caja")
		}
		if b, limited := u.BranchFilter(); limited && ses.SucursalID != b {
			return apierror.NotFound("Sesion de caja")
		}
		if ses.Estado != "abierta" {
			return apierror.Conflict("La sesion de caja ya esta cerrada")
		}

		ventas, err := s.facturaRepo.SumContadoSesion(ctx, ses.ID)
		if err != nil {
			return err
		}
		ingresos, egresos, err := s.repo.SumMovimientos(ctx, ses.ID)
		if err != nil {
			return err
		}
		esperado := ses.MontoApertura.Add(ventas).Add(ingresos).Sub(egresos)
		contado := req.MontoContado
		diferencia := contado.Sub(esperado)
		ahora := time.Now()
		cerradaPor := u.ID

		ses.TotalVentas = &ventas
		ses.TotalIngresos = &ingresos
		ses.TotalEgresos = &egresos
		ses.MontoEsperado = &esperado
		ses.MontoContado = &contado
		ses.Diferencia = &diferencia
		ses.Observaciones = req.Observaciones
		ses.Estado = "cerrada"
		ses.ClosedAt = &ahora
		ses.CerradaPor = &cerradaPor

		if err := s.repo.CerrarTx(tx, u, ses); err != nil {
			return err
		}
		sesion = ses
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}

	log.Info().
		Str("sesion_id", sesion.ID.String()).
		Str("esperado", sesion.MontoEsperado.StringFixed(2)).
		Str("diferencia", sesion.Diferencia.StringFixed(2)).
		Msg("caja cerrada")
	return sesionToResponse(sesion), nil
}

func (s *cajaService) Historial(ctx context.Context, u auth.ActingUser, page, limit int) ([]dto.SesionCajaResponse, int64, error) {
	if err := u.RequireAccess(auth.PermCaja); err != nil {
		return nil, 0, err
	}
	sesiones, total, err := s.repo.Historial(ctx, u, page, limit)
	if err != nil {
		return nil, 0, apierror.Internal(err)
	}
	resp := make([]dto.SesionCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		resp = append(resp, *sesionToResponse(&sesiones[i]))
	}
	return resp, total, nil
}

func (s *cajaService) Activa(ctx context.Context, u auth.ActingUser, sucursalID uuid.UUID) (*dto.SesionCajaResponse, error) {
	if err := u.RequireAccess(auth.PermCaja); err != nil {
		return nil, err
	}
	sucursalID = u.ScopedBranch(sucursalID)
	sesion, err := s.repo.FindAbiertaPorSucursal(ctx, sucursalID)
	if err != nil {
		return nil, buscarErr(err, "Sesion de caja abierta")
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) sesionAbierta(ctx context.Context, u auth.ActingUser, raw string) (*model.SesionCaja, error) {
	id, err := parseID("sesion_caja_id", raw)
	if err != nil {
		return nil, err
	}
	sesion, err := s.repo.FindSesionByID(ctx, u, id)
	if err != nil {
		return nil, buscarErr(err, "Sesion de caja")
	}
	if sesion.Estado != "abierta" {
		return nil, apierror.Conflict("La sesion de caja esta cerrada")
	}
	return sesion, nil
}

func sesionToResponse(s *model.SesionCaja) *dto.SesionCajaResponse {
	return &dto.SesionCajaResponse{
		ID:            s.ID.String(),
		SucursalID:    s.SucursalID.String(),
		UsuarioID:     s.UsuarioID.String(),
		MontoApertura: s.MontoApertura,
		TotalVentas:   s.TotalVentas,
		TotalIngresos: s.TotalIngresos,
		TotalEgresos:  s.TotalEgresos,
		MontoEsperado: s.MontoEsperado,
		MontoContado:  s.MontoContado,
		Diferencia:    s.Diferencia,
		Estado:        s.Estado,
		Observaciones: s.Observaciones,
		OpenedAt:      fecha(s.OpenedAt),
		ClosedAt:      fechaPtr(s.ClosedAt),
	}
}
