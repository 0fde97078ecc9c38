package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor is a supplier identified by its RUC.
type Proveedor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RUC             string    `gorm:"column:ruc;uniqueIndex;not null"`
	RazonSocial     string    `gorm:"not null"`
	NombreComercial *string
	Telefono        *string
	Email           *string
	Direccion       *string
	DiasCredito     int  `gorm:"not null;default:0"`
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
