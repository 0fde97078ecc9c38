package dto

import "github.com/shopspring/decimal"

type HistorialCostoResponse struct {
	ID           string          `json:"id"`
	ProductoID   string          `json:"producto_id"`
	ProveedorID  *string         `json:"proveedor_id,omitempty"`
	CompraID     *string         `json:"compra_id,omitempty"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	Motivo       string          `json:"motivo"`
	CreatedAt    string          `json:"created_at"`
}
