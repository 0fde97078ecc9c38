package dto

import "github.com/shopspring/decimal"

type MovimientoManualRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Tipo       string          `json:"tipo"        validate:"required,oneof=IN OUT"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"gt=0"`
	Notas      string          `json:"notas"       validate:"max=255"`
}

type ProduccionRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"gt=0"`
	Notas      string          `json:"notas"       validate:"max=255"`
}

type KardexFilter struct {
	ProductoID string `form:"producto_id"`
	Desde      string `form:"desde"`
	Hasta      string `form:"hasta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto,omitempty"`
	Tipo          string          `json:"tipo"`
	Motivo        string          `json:"motivo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	ReferenciaID  *string         `json:"referencia_id,omitempty"`
	Notas         string          `json:"notas,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type KardexResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type ProduccionResponse struct {
	ProductoID  string               `json:"producto_id"`
	Cantidad    decimal.Decimal      `json:"cantidad"`
	Movimientos []MovimientoResponse `json:"movimientos"`
}
