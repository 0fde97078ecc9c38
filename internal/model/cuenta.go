package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una cuenta por cobrar o por pagar.
const (
	CuentaPendiente = "pendiente"
	CuentaPagada    = "pagada"
	CuentaAnulada   = "anulada"
)

// CuentaPorCobrar is the receivable opened by a credit sale.
// Saldo only decreases through PagoCuentaCobrar rows or cancellation.
type CuentaPorCobrar struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	ClienteID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SucursalID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           string          `gorm:"type:varchar(10);not null;default:'pendiente'"`
	FechaVencimiento *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Pagos []PagoCuentaCobrar `gorm:"foreignKey:CuentaID"`
}

func (CuentaPorCobrar) TableName() string { return "cuentas_por_cobrar" }

type PagoCuentaCobrar struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo     string          `gorm:"type:varchar(20);not null"`
	Referencia *string
	CreatedAt  time.Time
}

func (PagoCuentaCobrar) TableName() string { return "pagos_cuentas_cobrar" }

// CuentaPorPagar is the payable opened by a credit purchase.
type CuentaPorPagar struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	ProveedorID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SucursalID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           string          `gorm:"type:varchar(10);not null;default:'pendiente'"`
	FechaVencimiento *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Pagos []PagoCuentaPagar `gorm:"foreignKey:CuentaID"`
}

func (CuentaPorPagar) TableName() string { return "cuentas_por_pagar" }

type PagoCuentaPagar struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuentaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo     string          `gorm:"type:varchar(20);not null"`
	Referencia *string
	CreatedAt  time.Time
}

func (PagoCuentaPagar) TableName() string { return "pagos_cuentas_pagar" }
