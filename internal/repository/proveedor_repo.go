package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, u auth.ActingUser, p *model.Proveedor) error
	Update(ctx context.Context, u auth.ActingUser, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error)
	List(ctx context.Context, buscar string) ([]model.Proveedor, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, u auth.ActingUser, p *model.Proveedor) error {
	if err := autorizar(u, auth.PermProveedores); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) Update(ctx context.Context, u auth.ActingUser, p *model.Proveedor) error {
	if err := autorizar(u, auth.PermProveedores); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *proveedorRepo) FindByRUC(ctx context.Context, ruc string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("ruc = ?", ruc).First(&p).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context, buscar string) ([]model.Proveedor, error) {
	q := r.db.WithContext(ctx).Where("activo = true")
	if buscar != "" {
		like := "%" + buscar + "%"
		q = q.Where("razon_social ILIKE ? OR ruc LIKE ?", like, like)
	}
	var ps []model.Proveedor
	err := q.Order("razon_social ASC").Find(&ps).Error
	return ps, err
}
