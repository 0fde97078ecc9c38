package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a customer. Saldo is the outstanding credit balance and must
// always equal the sum of its open receivables.
type Cliente struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Identificacion     string    `gorm:"uniqueIndex;not null"`
	TipoIdentificacion string    `gorm:"type:varchar(10);not null;default:'cedula'"` // cedula | ruc | pasaporte | consumidor_final
	Nombre             string    `gorm:"not null"`
	Email              *string
	Telefono           *string
	Direccion          *string
	LimiteCredito      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Saldo              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
