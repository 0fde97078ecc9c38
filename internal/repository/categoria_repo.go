package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"gorm.io/gorm"
)

type CategoriaRepository interface {
	Create(ctx context.Context, u auth.ActingUser, c *model.Categoria) error
	List(ctx context.Context) ([]model.Categoria, error)
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) Create(ctx context.Context, u auth.ActingUser, c *model.Categoria) error {
	if err := autorizar(u, auth.PermProductos); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) List(ctx context.Context) ([]model.Categoria, error) {
	var cats []model.Categoria
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&cats).Error
	return cats, err
}
