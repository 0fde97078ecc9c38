package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CuentaRepository holds both ledgers: receivables opened by credit sales and
// payables opened by credit purchases.
type CuentaRepository interface {
	CreateCobrarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorCobrar) error
	FindCobrarForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CuentaPorCobrar, error)
	FindCobrarPorFacturaTx(tx *gorm.DB, facturaID uuid.UUID) (*model.CuentaPorCobrar, error)
	SaveCobrarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorCobrar) error
	CreatePagoCobrarTx(tx *gorm.DB, u auth.ActingUser, p *model.PagoCuentaCobrar) error
	ListCobrar(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) ([]model.CuentaPorCobrar, int64, error)

	CreatePagarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorPagar) error
	FindPagarForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CuentaPorPagar, error)
	FindPagarPorCompraTx(tx *gorm.DB, compraID uuid.UUID) (*model.CuentaPorPagar, error)
	SavePagarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorPagar) error
	CreatePagoPagarTx(tx *gorm.DB, u auth.ActingUser, p *model.PagoCuentaPagar) error
	ListPagar(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) ([]model.CuentaPorPagar, int64, error)

	DB() *gorm.DB
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) DB() *gorm.DB { return r.db }

// ─── Por cobrar ──────────────────────────────────────────────────────────────

func (r *cuentaRepo) CreateCobrarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorCobrar) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Create(c).Error
}

func (r *cuentaRepo) FindCobrarForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CuentaPorCobrar, error) {
	var c model.CuentaPorCobrar
	err := forUpdate(tx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cuentaRepo) FindCobrarPorFacturaTx(tx *gorm.DB, facturaID uuid.UUID) (*model.CuentaPorCobrar, error) {
	var c model.CuentaPorCobrar
	err := forUpdate(tx).Where("factura_id = ?", facturaID).First(&c).Error
	return &c, err
}

func (r *cuentaRepo) SaveCobrarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorCobrar) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Model(c).Select("saldo", "estado").Updates(c).Error
}

func (r *cuentaRepo) CreatePagoCobrarTx(tx *gorm.DB, u auth.ActingUser, p *model.PagoCuentaCobrar) error {
	if err := autorizar(u, auth.PermCuentas); err != nil {
		return err
	}
	return tx.Create(p).Error
}

func (r *cuentaRepo) ListCobrar(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) ([]model.CuentaPorCobrar, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CuentaPorCobrar{}).Scopes(scopeSucursal(u, "sucursal_id"))
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(filter.Page, filter.Limit, 200)
	var cuentas []model.CuentaPorCobrar
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&cuentas).Error
	return cuentas, total, err
}

// ─── Por pagar ───────────────────────────────────────────────────────────────

func (r *cuentaRepo) CreatePagarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorPagar) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Create(c).Error
}

func (r *cuentaRepo) FindPagarForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CuentaPorPagar, error) {
	var c model.CuentaPorPagar
	err := forUpdate(tx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cuentaRepo) FindPagarPorCompraTx(tx *gorm.DB, compraID uuid.UUID) (*model.CuentaPorPagar, error) {
	var c model.CuentaPorPagar
	err := forUpdate(tx).Where("compra_id = ?", compraID).First(&c).Error
	return &c, err
}

func (r *cuentaRepo) SavePagarTx(tx *gorm.DB, u auth.ActingUser, c *model.CuentaPorPagar) error {
	if err := autorizarEscritura(u); err != nil {
		return err
	}
	return tx.Model(c).Select("saldo", "estado").Updates(c).Error
}

func (r *cuentaRepo) CreatePagoPagarTx(tx *gorm.DB, u auth.ActingUser, p *model.PagoCuentaPagar) error {
	if err := autorizar(u, auth.PermCompras); err != nil {
		return err
	}
	return tx.Create(p).Error
}

func (r *cuentaRepo) ListPagar(ctx context.Context, u auth.ActingUser, filter dto.CuentaFilter) ([]model.CuentaPorPagar, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CuentaPorPagar{}).Scopes(scopeSucursal(u, "sucursal_id"))
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(filter.Page, filter.Limit, 200)
	var cuentas []model.CuentaPorPagar
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&cuentas).Error
	return cuentas, total, err
}
