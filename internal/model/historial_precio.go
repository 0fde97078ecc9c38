package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio records every cost change of a product. Rows are never
// modified or deleted.
type HistorialPrecio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	CompraID     *uuid.UUID      `gorm:"type:uuid"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Motivo       string          `gorm:"not null;default:'compra'"` // compra | manual
	CreatedAt    time.Time
}
