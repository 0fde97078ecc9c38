package model

import (
	"time"

	"github.com/google/uuid"
)

// Licencia authorises up to MaxDispositivos machines for one company RUC.
// Estado: "activa" | "revocada"
type Licencia struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RUC             string    `gorm:"column:ruc;uniqueIndex;not null"`
	RazonSocial     string    `gorm:"not null"`
	Clave           string    `gorm:"not null"`
	MaxDispositivos int       `gorm:"not null;default:1"`
	Estado          string    `gorm:"type:varchar(10);not null;default:'activa'"`
	ActivadaAt      time.Time
	UpdatedAt       time.Time

	Dispositivos []DispositivoLicencia `gorm:"foreignKey:LicenciaID"`
}

// DispositivoLicencia is a machine registered against a license.
type DispositivoLicencia struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicenciaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_licencia_hw"`
	HardwareID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_licencia_hw"`
	Nombre       *string
	UltimoAcceso time.Time
	CreatedAt    time.Time
}

func (DispositivoLicencia) TableName() string { return "dispositivos_licencia" }
