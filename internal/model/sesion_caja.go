package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja is the lifecycle of a cash drawer in one branch.
// Estado: "abierta" | "cerrada". Closing is terminal.
type SesionCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	MontoApertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Filled on close.
	TotalVentas   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalIngresos *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalEgresos  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado        string           `gorm:"type:varchar(10);not null;default:'abierta'"`
	Observaciones *string
	OpenedAt      time.Time
	ClosedAt      *time.Time
	CerradaPor    *uuid.UUID `gorm:"type:uuid"`

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja is a manual cash entry during a session.
// Tipo: "ingreso" | "egreso". Monto is always positive.
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	Tipo         string          `gorm:"type:varchar(10);not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion  string          `gorm:"not null"`
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
