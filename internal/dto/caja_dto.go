package dto

import "github.com/shopspring/decimal"

type AbrirCajaRequest struct {
	MontoApertura decimal.Decimal `json:"monto_apertura" validate:"min=0"`
	SucursalID    string          `json:"sucursal_id"    validate:"omitempty,uuid"`
}

type CerrarCajaRequest struct {
	SesionCajaID  string          `json:"sesion_caja_id" validate:"required,uuid"`
	MontoContado  decimal.Decimal `json:"monto_contado"  validate:"min=0"`
	Observaciones *string         `json:"observaciones"  validate:"omitempty,max=500"`
}

type MovimientoCajaRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso egreso"`
	Monto        decimal.Decimal `json:"monto"          validate:"gt=0"`
	Descripcion  string          `json:"descripcion"    validate:"required,min=3,max=255"`
}

type SesionCajaResponse struct {
	ID            string           `json:"id"`
	SucursalID    string           `json:"sucursal_id"`
	UsuarioID     string           `json:"usuario_id"`
	MontoApertura decimal.Decimal  `json:"monto_apertura"`
	TotalVentas   *decimal.Decimal `json:"total_ventas,omitempty"`
	TotalIngresos *decimal.Decimal `json:"total_ingresos,omitempty"`
	TotalEgresos  *decimal.Decimal `json:"total_egresos,omitempty"`
	MontoEsperado *decimal.Decimal `json:"monto_esperado,omitempty"`
	MontoContado  *decimal.Decimal `json:"monto_contado,omitempty"`
	Diferencia    *decimal.Decimal `json:"diferencia,omitempty"`
	Estado        string           `json:"estado"`
	Observaciones *string          `json:"observaciones,omitempty"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at,omitempty"`
}
