package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a supplier purchase that brings stock in.
// Estado: "registrada" | "anulada"
type Compra struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProveedorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	NumeroDocumento string          `gorm:"not null"`
	ClaveAcceso     *string         `gorm:"type:varchar(49)"`
	CondicionPago   string          `gorm:"type:varchar(10);not null"`
	FechaEmision    time.Time       `gorm:"not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(12);not null;default:'registrada'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Detalles  []CompraDetalle `gorm:"foreignKey:CompraID"`
	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
}

type CompraDetalle struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	TarifaIVA     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (CompraDetalle) TableName() string { return "compra_detalles" }
