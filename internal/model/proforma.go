package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Proforma is a quote. It has no stock effect; converting it produces a
// Factura and marks it facturada in the same transaction.
// Estado: "pendiente" | "facturada" | "anulada"
type Proforma struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Numero        int64           `gorm:"uniqueIndex;not null"`
	FacturaID     *uuid.UUID      `gorm:"type:uuid"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IVA           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        string          `gorm:"type:varchar(10);not null;default:'pendiente'"`
	ValidezDias   int             `gorm:"not null;default:15"`
	Observaciones *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Detalles []ProformaDetalle `gorm:"foreignKey:ProformaID"`
	Cliente  *Cliente          `gorm:"foreignKey:ClienteID"`
}

type ProformaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProformaID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TarifaIVA      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (ProformaDetalle) TableName() string { return "proforma_detalles" }
