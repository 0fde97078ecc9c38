package dto

import "github.com/shopspring/decimal"

type ItemCompraRequest struct {
	ProductoID    string          `json:"producto_id"    validate:"required,uuid"`
	Cantidad      decimal.Decimal `json:"cantidad"       validate:"gt=0"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
	// TarifaIVA falls back to the product's rate when omitted.
	TarifaIVA *decimal.Decimal `json:"tarifa_iva"`
}

type RegistrarCompraRequest struct {
	ProveedorID     string              `json:"proveedor_id"     validate:"required,uuid"`
	NumeroDocumento string              `json:"numero_documento" validate:"required,max=20"`
	ClaveAcceso     *string             `json:"clave_acceso"     validate:"omitempty,len=49,numeric"`
	CondicionPago   string              `json:"condicion_pago"   validate:"required,oneof=contado credito"`
	FechaEmision    string              `json:"fecha_emision"    validate:"omitempty,datetime=2006-01-02"`
	SucursalID      string              `json:"sucursal_id"      validate:"omitempty,uuid"`
	Items           []ItemCompraRequest `json:"items"            validate:"required,min=1,dive"`
}

type CompraResponse struct {
	ID              string          `json:"id"`
	ProveedorID     string          `json:"proveedor_id"`
	NumeroDocumento string          `json:"numero_documento"`
	CondicionPago   string          `json:"condicion_pago"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	IVA             decimal.Decimal `json:"iva"`
	Total           decimal.Decimal `json:"total"`
	Estado          string          `json:"estado"`
	CuentaID        *string         `json:"cuenta_id,omitempty"`
	FechaEmision    string          `json:"fecha_emision"`
}
