package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,max=50"`
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,max=50"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=200"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  *string         `json:"categoria_id"  validate:"omitempty,uuid"`
	ProveedorID  *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"min=0"`
	TarifaIVA    decimal.Decimal `json:"tarifa_iva"    validate:"min=0,max=100"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"  validate:"min=0"`
	UnidadMedida string          `json:"unidad_medida" validate:"omitempty,max=20"`
	SucursalID   string          `json:"sucursal_id"   validate:"omitempty,uuid"`
}

// ActualizarProductoRequest: stock is never edited here, only through movements.
type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=200"`
	CodigoBarras *string          `json:"codigo_barras" validate:"omitempty,max=50"`
	Descripcion  *string          `json:"descripcion"`
	CategoriaID  *string          `json:"categoria_id"  validate:"omitempty,uuid"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
	TarifaIVA    *decimal.Decimal `json:"tarifa_iva"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
	Activo       *bool            `json:"activo"`
}

type ComponenteRequest struct {
	ComponenteID string          `json:"componente_id" validate:"required,uuid"`
	Cantidad     decimal.Decimal `json:"cantidad"      validate:"gt=0"`
}

type RecetaRequest struct {
	Componentes []ComponenteRequest `json:"componentes" validate:"required,min=1,dive"`
}

type ProductoFilter struct {
	Buscar      string `form:"buscar"`
	CategoriaID string `form:"categoria_id"`
	SucursalID  string `form:"sucursal_id"`
	Activo      string `form:"activo"` // true (default) | false | all
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type ComponenteResponse struct {
	ComponenteID string          `json:"componente_id"`
	Nombre       string          `json:"nombre,omitempty"`
	Cantidad     decimal.Decimal `json:"cantidad"`
}

type ProductoResponse struct {
	ID           string               `json:"id"`
	SucursalID   string               `json:"sucursal_id"`
	Codigo       string               `json:"codigo"`
	CodigoBarras *string              `json:"codigo_barras,omitempty"`
	Nombre       string               `json:"nombre"`
	Descripcion  *string              `json:"descripcion,omitempty"`
	CategoriaID  *string              `json:"categoria_id,omitempty"`
	ProveedorID  *string              `json:"proveedor_id,omitempty"`
	PrecioCosto  decimal.Decimal      `json:"precio_costo"`
	PrecioVenta  decimal.Decimal      `json:"precio_venta"`
	TarifaIVA    decimal.Decimal      `json:"tarifa_iva"`
	StockActual  decimal.Decimal      `json:"stock_actual"`
	StockMinimo  decimal.Decimal      `json:"stock_minimo"`
	UnidadMedida string               `json:"unidad_medida"`
	Activo       bool                 `json:"activo"`
	Componentes  []ComponenteResponse `json:"componentes,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
