package repository

import (
	"context"
	"time"

	"integrafacturacion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LicenciaRepository has no ActingUser: licensing runs before anyone logs in.
type LicenciaRepository interface {
	FindByRUC(ctx context.Context, ruc string) (*model.Licencia, error)
	List(ctx context.Context) ([]model.Licencia, error)
	Guardar(ctx context.Context, l *model.Licencia) error
	MarcarRevocada(ctx context.Context, id uuid.UUID) error

	FindDispositivo(ctx context.Context, licenciaID uuid.UUID, hwid string) (*model.DispositivoLicencia, error)
	CountDispositivos(ctx context.Context, licenciaID uuid.UUID) (int64, error)
	// RegistrarDispositivo adds hwid while the license is under max devices.
	// The license row is locked so concurrent registrations cannot overshoot.
	RegistrarDispositivo(ctx context.Context, licenciaID uuid.UUID, hwid string, nombre *string, max int) (bool, error)
	TocarDispositivo(ctx context.Context, id uuid.UUID, at time.Time) error
}

type licenciaRepo struct{ db *gorm.DB }

func NewLicenciaRepository(db *gorm.DB) LicenciaRepository { return &licenciaRepo{db: db} }

func (r *licenciaRepo) FindByRUC(ctx context.Context, ruc string) (*model.Licencia, error) {
	var l model.Licencia
	err := r.db.WithContext(ctx).Where("ruc = ?", ruc).First(&l).Error
	return &l, err
}

func (r *licenciaRepo) List(ctx context.Context) ([]model.Licencia, error) {
	var ls []model.Licencia
	err := r.db.WithContext(ctx).Order("activada_at").Find(&ls).Error
	return ls, err
}

func (r *licenciaRepo) Guardar(ctx context.Context, l *model.Licencia) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *licenciaRepo) MarcarRevocada(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Licencia{}).Where("id = ?", id).Update("estado", "revocada").Error
}

func (r *licenciaRepo) FindDispositivo(ctx context.Context, licenciaID uuid.UUID, hwid string) (*model.DispositivoLicencia, error) {
	var d model.DispositivoLicencia
	err := r.db.WithContext(ctx).Where("licencia_id = ? AND hardware_id = ?", licenciaID, hwid).First(&d).Error
	return &d, err
}

func (r *licenciaRepo) CountDispositivos(ctx context.Context, licenciaID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.DispositivoLicencia{}).Where("licencia_id = ?", licenciaID).Count(&n).Error
	return n, err
}

func (r *licenciaRepo) RegistrarDispositivo(ctx context.Context, licenciaID uuid.UUID, hwid string, nombre *string, max int) (bool, error) {
	registrado := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l model.Licencia
		if err := forUpdate(tx).First(&l, "id = ?", licenciaID).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.DispositivoLicencia{}).Where("licencia_id = ?", licenciaID).Count(&n).Error; err != nil {
			return err
		}
		if int(n) >= max {
			return nil
		}
		now := time.Now()
		d := &model.DispositivoLicencia{LicenciaID: licenciaID, HardwareID: hwid, Nombre: nombre, UltimoAcceso: now}
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		registrado = true
		return nil
	})
	return registrado, err
}

func (r *licenciaRepo) TocarDispositivo(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.DispositivoLicencia{}).Where("id = ?", id).Update("ultimo_acceso", at).Error
}
