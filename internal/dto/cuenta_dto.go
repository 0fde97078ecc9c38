package dto

import "github.com/shopspring/decimal"

// PagarCuentaRequest is shared by receivables (/cxc/pagar) and payables (/compras/pagar).
type PagarCuentaRequest struct {
	CuentaID   string          `json:"cuenta_id"  validate:"required,uuid"`
	Monto      decimal.Decimal `json:"monto"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo transferencia cheque tarjeta"`
	Referencia *string         `json:"referencia" validate:"omitempty,max=100"`
}

type CuentaFilter struct {
	Estado string `form:"estado"` // pendiente | pagada | anulada
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CuentaResponse struct {
	ID            string          `json:"id"`
	DocumentoID   string          `json:"documento_id"`
	ContraparteID string          `json:"contraparte_id"`
	Monto         decimal.Decimal `json:"monto"`
	Saldo         decimal.Decimal `json:"saldo"`
	Estado        string          `json:"estado"`
	CreatedAt     string          `json:"created_at"`
}

type PagoResponse struct {
	CuentaID    string          `json:"cuenta_id"`
	Monto       decimal.Decimal `json:"monto"`
	SaldoNuevo  decimal.Decimal `json:"saldo_nuevo"`
	EstadoNuevo string          `json:"estado_nuevo"`
}

type CuentaListResponse struct {
	Data  []CuentaResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
