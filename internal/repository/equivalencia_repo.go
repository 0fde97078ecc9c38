package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquivalenciaRepository interface {
	Guardar(ctx context.Context, u auth.ActingUser, e *model.EquivalenciaProducto) error
	// MapaPorProveedor returns supplier code -> product id.
	MapaPorProveedor(ctx context.Context, proveedorID uuid.UUID) (map[string]uuid.UUID, error)
}

type equivalenciaRepo struct{ db *gorm.DB }

func NewEquivalenciaRepository(db *gorm.DB) EquivalenciaRepository {
	return &equivalenciaRepo{db: db}
}

func (r *equivalenciaRepo) Guardar(ctx context.Context, u auth.ActingUser, e *model.EquivalenciaProducto) error {
	if err := autorizar(u, auth.PermCompras); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "proveedor_id"}, {Name: "codigo_proveedor"}},
		DoUpdates: clause.AssignmentColumns([]string{"producto_id"}),
	}).Create(e).Error
}

func (r *equivalenciaRepo) MapaPorProveedor(ctx context.Context, proveedorID uuid.UUID) (map[string]uuid.UUID, error) {
	var eqs []model.EquivalenciaProducto
	if err := r.db.WithContext(ctx).Where("proveedor_id = ?", proveedorID).Find(&eqs).Error; err != nil {
		return nil, err
	}
	m := make(map[string]uuid.UUID, len(eqs))
	for _, e := range eqs {
		m[e.CodigoProveedor] = e.ProductoID
	}
	return m, nil
}
