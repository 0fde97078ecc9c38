package dto

import "github.com/shopspring/decimal"

type CrearProformaRequest struct {
	ClienteID     string             `json:"cliente_id"     validate:"required,uuid"`
	SucursalID    string             `json:"sucursal_id"    validate:"omitempty,uuid"`
	ValidezDias   int                `json:"validez_dias"   validate:"omitempty,min=1,max=365"`
	Observaciones *string            `json:"observaciones"  validate:"omitempty,max=500"`
	Items         []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
}

type ConvertirProformaRequest struct {
	CondicionPago string  `json:"condicion_pago" validate:"required,oneof=contado credito"`
	ClienteEmail  *string `json:"cliente_email"  validate:"omitempty,email"`
}

type ProformaFilter struct {
	Estado    string `form:"estado"`
	ClienteID string `form:"clienteId"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProformaResponse struct {
	ID            string              `json:"id"`
	Numero        int64               `json:"numero"`
	ClienteID     string              `json:"cliente_id"`
	Cliente       string              `json:"cliente,omitempty"`
	Items         []ItemVentaResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Descuento     decimal.Decimal     `json:"descuento"`
	IVA           decimal.Decimal     `json:"iva"`
	Total         decimal.Decimal     `json:"total"`
	Estado        string              `json:"estado"`
	FacturaID     *string             `json:"factura_id,omitempty"`
	ValidezDias   int                 `json:"validez_dias"`
	Observaciones *string             `json:"observaciones,omitempty"`
	CreatedAt     string              `json:"created_at"`
}
