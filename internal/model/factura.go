package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Condiciones de pago.
const (
	CondicionContado = "contado"
	CondicionCredito = "credito"
)

// Factura is a sale document. Totals are computed server-side and are the
// sum of the line totals.
// Estado: "emitida" | "anulada"
type Factura struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID       uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SesionCajaID    *uuid.UUID      `gorm:"type:uuid;index"`
	ProformaID      *uuid.UUID      `gorm:"type:uuid"`
	Numero          string          `gorm:"uniqueIndex;not null"`
	Secuencial      int64           `gorm:"not null"`
	ClaveAcceso     string          `gorm:"type:varchar(49);uniqueIndex;not null"`
	CondicionPago   string          `gorm:"type:varchar(10);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IVA             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(10);not null;default:'emitida'"`
	MotivoAnulacion *string
	FechaEmision    time.Time `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Detalles []FacturaDetalle `gorm:"foreignKey:FacturaID"`
	Cliente  *Cliente         `gorm:"foreignKey:ClienteID"`
}

// FacturaDetalle is one priced line of a Factura.
type FacturaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
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

func (FacturaDetalle) TableName() string { return "factura_detalles" }
