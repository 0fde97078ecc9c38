package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, u auth.ActingUser, c *model.Compra) error
	FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Compra, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	AnularTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID) error
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) CreateTx(ctx context.Context, tx *gorm.DB, u auth.ActingUser, c *model.Compra) error {
	if err := autorizar(u, auth.PermCompras); err != nil {
		return err
	}
	return tx.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).Scopes(scopeSucursal(u, "sucursal_id")).
		Preload("Detalles").Preload("Proveedor").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	if err := forUpdate(tx).First(&c, "id = ?", id).Error; err != nil {
		return &c, err
	}
	err := tx.Where("compra_id = ?", c.ID).Find(&c.Detalles).Error
	return &c, err
}

func (r *compraRepo) AnularTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID) error {
	if err := autorizar(u, auth.PermCompras); err != nil {
		return err
	}
	return tx.Model(&model.Compra{}).Where("id = ?", id).Update("estado", "anulada").Error
}
