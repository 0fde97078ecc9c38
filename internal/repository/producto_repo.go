package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling unit tests with in-memory stubs.
type ProductoRepository interface {
	Create(ctx context.Context, u auth.ActingUser, p *model.Producto) error
	Update(ctx context.Context, u auth.ActingUser, p *model.Producto) error
	FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, u auth.ActingUser, filter dto.ProductoFilter) ([]model.Producto, int64, error)

	// Bill of materials
	ListComponentes(ctx context.Context, productoID uuid.UUID) ([]model.ProductoComponente, error)
	ReemplazarReceta(ctx context.Context, u auth.ActingUser, productoID uuid.UUID, comps []model.ProductoComponente) error

	// Used inside transactions; callers pass the tx instance.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	SetStockTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, stock decimal.Decimal) error
	UpdateCostoTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, costo decimal.Decimal) error
	ListComponentesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.ProductoComponente, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, u auth.ActingUser, p *model.Producto) error {
	if err := autorizar(u, auth.PermProductos); err != nil {
		return err
	}
	p.SucursalID = u.ScopedBranch(p.SucursalID)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) Update(ctx context.Context, u auth.ActingUser, p *model.Producto) error {
	if err := autorizar(u, auth.PermProductos); err != nil {
		return err
	}
	// Stock is owned by the movement ledger and never saved from here.
	return r.db.WithContext(ctx).Model(p).Scopes(scopeSucursal(u, "sucursal_id")).
		Select("nombre", "codigo_barras", "descripcion", "categoria_id", "precio_venta",
			"tarifa_iva", "stock_minimo", "activo").
		Updates(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Scopes(scopeSucursal(u, "sucursal_id")).
		Preload("Componentes.Componente").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, u auth.ActingUser, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Scopes(scopeSucursal(u, "sucursal_id"))

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("(nombre ILIKE ? OR codigo ILIKE ? OR codigo_barras = ?)", like, like, filter.Buscar)
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 500)
	err := q.Order("nombre ASC").Limit(limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListComponentes(ctx context.Context, productoID uuid.UUID) ([]model.ProductoComponente, error) {
	return r.ListComponentesTx(r.db.WithContext(ctx), productoID)
}

func (r *productoRepo) ReemplazarReceta(ctx context.Context, u auth.ActingUser, productoID uuid.UUID, comps []model.ProductoComponente) error {
	if err := autorizar(u, auth.PermProductos); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", productoID).Delete(&model.ProductoComponente{}).Error; err != nil {
			return err
		}
		if len(comps) == 0 {
			return nil
		}
		for i := range comps {
			comps[i].ProductoID = productoID
		}
		return tx.Create(&comps).Error
	})
}

func (r *productoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := forUpdate(tx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) SetStockTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, stock decimal.Decimal) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("stock_actual", stock).Error
}

func (r *productoRepo) UpdateCostoTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, costo decimal.Decimal) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("precio_costo", costo).Error
}

func (r *productoRepo) ListComponentesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.ProductoComponente, error) {
	var comps []model.ProductoComponente
	err := tx.Where("producto_id = ?", productoID).Find(&comps).Error
	return comps, err
}
