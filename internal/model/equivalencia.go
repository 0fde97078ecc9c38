package model

import "github.com/google/uuid"

// EquivalenciaProducto maps a supplier's product code, as it appears on its
// electronic invoices, to one of our products.
type EquivalenciaProducto struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_equivalencia"`
	CodigoProveedor string    `gorm:"not null;uniqueIndex:idx_equivalencia"`
	ProductoID      uuid.UUID `gorm:"type:uuid;not null"`
}

func (EquivalenciaProducto) TableName() string { return "equivalencias_producto" }
