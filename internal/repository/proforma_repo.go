package repository

import (
	"context"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProformaRepository interface {
	Create(ctx context.Context, u auth.ActingUser, p *model.Proforma) error
	FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Proforma, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Proforma, error)
	MarcarFacturadaTx(tx *gorm.DB, u auth.ActingUser, id, facturaID uuid.UUID) error
	List(ctx context.Context, u auth.ActingUser, filter dto.ProformaFilter) ([]model.Proforma, int64, error)
}

type proformaRepo struct{ db *gorm.DB }

func NewProformaRepository(db *gorm.DB) ProformaRepository { return &proformaRepo{db: db} }

func (r *proformaRepo) Create(ctx context.Context, u auth.ActingUser, p *model.Proforma) error {
	if err := autorizar(u, auth.PermProformas); err != nil {
		return err
	}
	p.SucursalID = u.ScopedBranch(p.SucursalID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw("SELECT nextval('proformas_numero_seq')").Scan(&p.Numero).Error; err != nil {
			return err
		}
		return tx.Create(p).Error
	})
}

func (r *proformaRepo) FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Proforma, error) {
	var p model.Proforma
	err := r.db.WithContext(ctx).Scopes(scopeSucursal(u, "sucursal_id")).
		Preload("Detalles").Preload("Cliente").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *proformaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Proforma, error) {
	var p model.Proforma
	if err := forUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
		return &p, err
	}
	err := tx.Where("proforma_id = ?", p.ID).Find(&p.Detalles).Error
	return &p, err
}

func (r *proformaRepo) MarcarFacturadaTx(tx *gorm.DB, u auth.ActingUser, id, facturaID uuid.UUID) error {
	if err := autorizar(u, auth.PermProformas); err != nil {
		return err
	}
	return tx.Model(&model.Proforma{}).Where("id = ?", id).
		Updates(map[string]interface{}{"estado": "facturada", "factura_id": facturaID}).Error
}

func (r *proformaRepo) List(ctx context.Context, u auth.ActingUser, filter dto.ProformaFilter) ([]model.Proforma, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Proforma{}).Scopes(scopeSucursal(u, "sucursal_id"))
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	_, limit, offset := paginar(filter.Page, filter.Limit, 200)
	var proformas []model.Proforma
	err := q.Preload("Cliente").Order("numero DESC").Offset(offset).Limit(limit).Find(&proformas).Error
	return proformas, total, err
}
