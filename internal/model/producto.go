package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a stock-keeping item owned by one branch.
// Quantities are decimals so weighed and fractional goods fit the same ledger.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_sucursal_codigo"`
	Codigo       string    `gorm:"not null;uniqueIndex:idx_producto_sucursal_codigo"`
	CodigoBarras *string   `gorm:"index"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	PrecioCosto  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	// TarifaIVA is a percentage, e.g. 15 for 15%.
	TarifaIVA    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:15"`
	StockActual  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	StockMinimo  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	UnidadMedida string          `gorm:"not null;default:'unidad'"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Componentes []ProductoComponente `gorm:"foreignKey:ProductoID"`
}
