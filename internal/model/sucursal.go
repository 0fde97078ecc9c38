package model

import (
	"time"

	"github.com/google/uuid"
)

// Sucursal is a branch. Establecimiento and PuntoEmision form the document
// series printed on its invoices.
type Sucursal struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string    `gorm:"not null"`
	Establecimiento string    `gorm:"type:varchar(3);not null;default:'001'"`
	PuntoEmision    string    `gorm:"type:varchar(3);not null;default:'001'"`
	Direccion       *string
	Activo          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Sucursal) TableName() string { return "sucursales" }
