package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, u auth.ActingUser, s *model.SesionCaja) error
	FindAbiertaPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.SesionCaja, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error)
	CerrarTx(tx *gorm.DB, u auth.ActingUser, s *model.SesionCaja) error
	CreateMovimiento(ctx context.Context, u auth.ActingUser, m *model.MovimientoCaja) error
	// SumMovimientos returns total ingresos and egresos of a session.
	SumMovimientos(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)
	Historial(ctx context.Context, u auth.ActingUser, page, limit int) ([]model.SesionCaja, int64, error)
	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) CreateSesion(ctx context.Context, u auth.ActingUser, s *model.SesionCaja) error {
	if err := autorizar(u, auth.PermCaja); err != nil {
		return err
	}
	s.SucursalID = u.ScopedBranch(s.SucursalID)
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindAbiertaPorSucursal(ctx context.Context, sucursalID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("sucursal_id = ? AND estado = 'abierta'", sucursalID).First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Scopes(scopeSucursal(u, "sucursal_id")).
		Preload("Movimientos").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *cajaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := forUpdate(tx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *cajaRepo) CerrarTx(tx *gorm.DB, u auth.ActingUser, s *model.SesionCaja) error {
	if err := autorizar(u, auth.PermCaja); err != nil {
		return err
	}
	return tx.Omit("Movimientos").Save(s).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, u auth.ActingUser, m *model.MovimientoCaja) error {
	if err := autorizar(u, auth.PermCaja); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) SumMovimientos(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var rows []struct {
		Tipo  string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, SUM(monto) AS total").
		Where("sesion_caja_id = ?", sesionID).
		Group("tipo").Scan(&rows).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ingresos, egresos := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch row.Tipo {
		case "ingreso":
			ingresos = row.Total
		case "egreso":
			egresos = row.Total
		}
	}
	return ingresos, egresos, nil
}

func (r *cajaRepo) Historial(ctx context.Context, u auth.ActingUser, page, limit int) ([]model.SesionCaja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SesionCaja{}).Scopes(scopeSucursal(u, "sucursal_id"))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(page, limit, 100)
	var sesiones []model.SesionCaja
	err := q.Order("opened_at DESC").Offset(offset).Limit(limit).Find(&sesiones).Error
	return sesiones, total, err
}
