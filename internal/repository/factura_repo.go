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

type FacturaRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, u auth.ActingUser, f *model.Factura) error
	FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Factura, error)
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	AnularTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, motivo string) error
	NextSecuencialTx(ctx context.Context, tx *gorm.DB) (int64, error)
	// AvanzarSecuencialTx moves the sequence past a number assigned by the
	// caller so later automatic numbers cannot collide with it.
	AvanzarSecuencialTx(ctx context.Context, tx *gorm.DB, usado int64) error
	Reporte(ctx context.Context, u auth.ActingUser, filter dto.ReporteVentasFilter) ([]model.Factura, int64, decimal.Decimal, error)
	// SumContadoSesion totals the non-cancelled cash sales attached to a cash session.
	SumContadoSesion(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func (r *facturaRepo) CreateTx(ctx context.Context, tx *gorm.DB, u auth.ActingUser, f *model.Factura) error {
	if err := autorizar(u, auth.PermVentas); err != nil {
		return err
	}
	return tx.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, u auth.ActingUser, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).Scopes(scopeSucursal(u, "sucursal_id")).
		Preload("Detalles").Preload("Cliente").First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	if err := forUpdate(tx).First(&f, "id = ?", id).Error; err != nil {
		return &f, err
	}
	err := tx.Where("factura_id = ?", f.ID).Find(&f.Detalles).Error
	return &f, err
}

func (r *facturaRepo) AnularTx(tx *gorm.DB, u auth.ActingUser, id uuid.UUID, motivo string) error {
	if err := autorizar(u, auth.PermVentas); err != nil {
		return err
	}
	return tx.Model(&model.Factura{}).Where("id = ?", id).
		Updates(map[string]interface{}{"estado": "anulada", "motivo_anulacion": motivo}).Error
}

func (r *facturaRepo) NextSecuencialTx(ctx context.Context, tx *gorm.DB) (int64, error) {
	// Uses a PostgreSQL sequence for atomic invoice numbering
	var n int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('facturas_secuencial_seq')").Scan(&n).Error
	return n, err
}

func (r *facturaRepo) AvanzarSecuencialTx(ctx context.Context, tx *gorm.DB, usado int64) error {
	return tx.WithContext(ctx).Exec(
		`SELECT setval('facturas_secuencial_seq', GREATEST(?, 1, (SELECT last_value FROM facturas_secuencial_seq)))`,
		usado,
	).Error
}

func (r *facturaRepo) Reporte(ctx context.Context, u auth.ActingUser, filter dto.ReporteVentasFilter) ([]model.Factura, int64, decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Factura{}).
		Scopes(scopeSucursal(u, "facturas.sucursal_id"))

	if filter.Desde != "" {
		q = q.Where("facturas.fecha_emision >= ?::date", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("facturas.fecha_emision < ?::date + INTERVAL '1 day'", filter.Hasta)
	}
	if filter.ClienteID != "" {
		q = q.Where("facturas.cliente_id = ?", filter.ClienteID)
	}
	if filter.Condicion != "" {
		q = q.Where("facturas.condicion_pago = ?", filter.Condicion)
	}
	if filter.Estado != "" {
		q = q.Where("facturas.estado = ?", filter.Estado)
	}
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Joins("JOIN clientes ON clientes.id = facturas.cliente_id").
			Where("facturas.numero LIKE ? OR clientes.nombre ILIKE ? OR clientes.identificacion LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}
	var suma decimal.Decimal
	if err := q.Session(&gorm.Session{}).Select("COALESCE(SUM(facturas.total), 0)").Row().Scan(&suma); err != nil {
		return nil, 0, decimal.Zero, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 500)
	var facturas []model.Factura
	err := q.Preload("Detalles").Preload("Cliente").
		Order("facturas.fecha_emision DESC").
		Offset(offset).Limit(limit).
		Find(&facturas).Error
	return facturas, total, suma, err
}

func (r *facturaRepo) SumContadoSesion(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	var suma decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("sesion_caja_id = ? AND condicion_pago = ? AND estado = 'emitida'", sesionID, model.CondicionContado).
		Select("COALESCE(SUM(total), 0)").Row().Scan(&suma)
	return suma, err
}
