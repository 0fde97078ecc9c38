package dto

import "github.com/shopspring/decimal"

type EquivalenciaRequest struct {
	ProveedorID     string `json:"proveedor_id"     validate:"required,uuid"`
	CodigoProveedor string `json:"codigo_proveedor" validate:"required,max=50"`
	ProductoID      string `json:"producto_id"      validate:"required,uuid"`
}

type LineaXMLResponse struct {
	CodigoProveedor string          `json:"codigo_proveedor"`
	Descripcion     string          `json:"descripcion"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	CostoUnitario   decimal.Decimal `json:"costo_unitario"`
	Descuento       decimal.Decimal `json:"descuento"`
	TarifaIVA       decimal.Decimal `json:"tarifa_iva"`
	ProductoID      *string         `json:"producto_id,omitempty"`
	Producto        string          `json:"producto,omitempty"`
	Emparejado      bool            `json:"emparejado"`
}

// PreprocesarXMLResponse is a purchase draft; nothing is persisted.
type PreprocesarXMLResponse struct {
	ProveedorRUC    string             `json:"proveedor_ruc"`
	ProveedorNombre string             `json:"proveedor_nombre"`
	ProveedorID     *string            `json:"proveedor_id,omitempty"`
	NumeroDocumento string             `json:"numero_documento"`
	ClaveAcceso     string             `json:"clave_acceso"`
	FechaEmision    string             `json:"fecha_emision"`
	Total           decimal.Decimal    `json:"total"`
	Lineas          []LineaXMLResponse `json:"lineas"`
	SinEmparejar    int                `json:"sin_emparejar"`
}
