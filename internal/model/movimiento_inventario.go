package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento de inventario.
const (
	MovimientoEntrada = "IN"
	MovimientoSalida  = "OUT"
)

// MovimientoInventario is one immutable kardex row. Cantidad is always
// positive; Tipo gives the direction. StockAnterior/StockNuevo record the
// product balance around the movement.
type MovimientoInventario struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SucursalID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	Tipo          string          `gorm:"type:varchar(3);not null"`
	Motivo        string          `gorm:"type:varchar(30);not null"` // venta | anulacion_venta | compra | anulacion_compra | ajuste | produccion
	Cantidad      decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	ReferenciaID  *uuid.UUID      `gorm:"type:uuid;index"`
	Notas         string
	CreatedAt     time.Time `gorm:"index"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
