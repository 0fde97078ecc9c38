package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoComponente is one line of a bill of materials: producing one unit
// of ProductoID consumes Cantidad units of ComponenteID.
type ProductoComponente struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_receta_componente;not null"`
	ComponenteID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_receta_componente;not null"`
	Cantidad     decimal.Decimal `gorm:"type:decimal(14,3);not null"`

	Componente *Producto `gorm:"foreignKey:ComponenteID"`
}

func (ProductoComponente) TableName() string { return "producto_componentes" }
