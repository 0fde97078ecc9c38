package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, u auth.ActingUser, c *model.Cliente) error
	Update(ctx context.Context, u auth.ActingUser, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, buscar string, page, limit int) ([]model.Cliente, int64, error)

	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error)
	// AjustarSaldoTx adds delta (negative to reduce) to the client's balance.
	AjustarSaldoTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, delta decimal.Decimal) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, u auth.ActingUser, c *model.Cliente) error {
	if err := autorizar(u, auth.PermClientes); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) Update(ctx context.Context, u auth.ActingUser, c *model.Cliente) error {
	if err := autorizar(u, auth.PermClientes); err != nil {
		return err
	}
	// Saldo belongs to the ledger; it is never written from the CRUD path.
	return r.db.WithContext(ctx).Model(c).
		Select("nombre", "email", "telefono", "direccion", "limite_credito", "activo").
		Updates(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, buscar string, page, limit int) ([]model.Cliente, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if buscar != "" {
		like := "%" + buscar + "%"
		q = q.Where("nombre ILIKE ? OR identificacion LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(page, limit, 200)
	var cs []model.Cliente
	err := q.Order("nombre").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *clienteRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := forUpdate(tx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) AjustarSaldoTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, delta decimal.Decimal) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Model(&model.Cliente{}).Where("id = ?", id).
		Update("saldo", gorm.Expr("saldo + ?", delta)).Error
}
