package service

import (
	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/model"

	"github.com/shopspring/decimal"
)

// aplicarPago validates a payment against a receivable or payable balance and
// returns the new balance and state.
func aplicarPago(saldo decimal.Decimal, estado string, monto decimal.Decimal) (decimal.Decimal, string, error) {
	if !monto.IsPositive() {
		return saldo, estado, apierror.ValidationFields(map[string]string{"monto": "gt"})
	}
	switch estado {
	case model.CuentaPagada:
		return saldo, estado, apierror.Validation("La cuenta ya esta pagada")
	case model.CuentaAnulada:
		return saldo, estado, apierror.Validation("La cuenta esta anulada")
	}
	if monto.GreaterThan(saldo) {
		return saldo, estado, apierror.Validation("El monto excede el saldo pendiente de " + saldo.StringFixed(2))
	}
	nuevo := saldo.Sub(monto)
	if nuevo.IsZero() {
		return nuevo, model.CuentaPagada, nil
	}
	return nuevo, model.CuentaPendiente, nil
}
