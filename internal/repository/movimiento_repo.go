package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"

	"gorm.io/gorm"
)

// MovimientoRepository stores the kardex. Rows are append-only.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, u auth.ActingUser, m *model.MovimientoInventario) error
	List(ctx context.Context, u auth.ActingUser, filter dto.KardexFilter) ([]model.MovimientoInventario, int64, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, u auth.ActingUser, m *model.MovimientoInventario) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, u auth.ActingUser, filter dto.KardexFilter) ([]model.MovimientoInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Scopes(scopeSucursal(u, "sucursal_id"))
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Desde != "" {
		q = q.Where("created_at >= ?::date", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("created_at < ?::date + INTERVAL '1 day'", filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 200)
	var movimientos []model.MovimientoInventario
	err := q.Preload("Producto").Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}
