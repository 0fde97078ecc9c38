package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest carries no price: prices come from the product row.
type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"gt=0"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

type RegistrarVentaRequest struct {
	ClienteID     string             `json:"cliente_id"     validate:"required,uuid"`
	CondicionPago string             `json:"condicion_pago" validate:"required,oneof=contado credito"`
	SucursalID    string             `json:"sucursal_id"    validate:"omitempty,uuid"`
	Items         []ItemVentaRequest `json:"items"          validate:"required,min=1,dive"`
	// Numero / ClaveAcceso are kept when the client already assigned them.
	Numero      string `json:"numero"       validate:"omitempty,max=17"`
	ClaveAcceso string `json:"clave_acceso" validate:"omitempty,len=49,numeric"`
	// ClienteEmail: when present the invoice PDF is mailed in the background.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
	ProformaID   *string `json:"-"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ReporteVentasFilter is bound from the query string of GET /ventas/reportes.
type ReporteVentasFilter struct {
	Desde     string `form:"desde"` // YYYY-MM-DD
	Hasta     string `form:"hasta"` // YYYY-MM-DD, inclusive
	ClienteID string `form:"clienteId"`
	Buscar    string `form:"buscar"`
	Condicion string `form:"condicion"` // contado | credito
	Estado    string `form:"estado"`    // emitida | anulada
	Formato   string `form:"formato"`   // json | xlsx
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	IVA            decimal.Decimal `json:"iva"`
	Total          decimal.Decimal `json:"total"`
}

type VentaResponse struct {
	ID            string              `json:"id"`
	Numero        string              `json:"numero"`
	ClaveAcceso   string              `json:"clave_acceso"`
	ClienteID     string              `json:"cliente_id"`
	Cliente       string              `json:"cliente,omitempty"`
	CondicionPago string              `json:"condicion_pago"`
	SesionCajaID  *string             `json:"sesion_caja_id,omitempty"`
	Items         []ItemVentaResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Descuento     decimal.Decimal     `json:"descuento"`
	IVA           decimal.Decimal     `json:"iva"`
	Total         decimal.Decimal     `json:"total"`
	Estado        string              `json:"estado"`
	FechaEmision  string              `json:"fecha_emision"`
}

type ReporteVentasResponse struct {
	Data      []VentaResponse `json:"data"`
	Total     int64           `json:"total"`
	Page      int             `json:"page"`
	Limit     int             `json:"limit"`
	SumaTotal decimal.Decimal `json:"suma_total"`
}
