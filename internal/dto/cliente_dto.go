package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Identificacion     string          `json:"identificacion"      validate:"required,min=5,max=20"`
	TipoIdentificacion string          `json:"tipo_identificacion" validate:"omitempty,oneof=cedula ruc pasaporte consumidor_final"`
	Nombre             string          `json:"nombre"              validate:"required,min=2,max=200"`
	Email              *string         `json:"email"               validate:"omitempty,email"`
	Telefono           *string         `json:"telefono"            validate:"omitempty,max=30"`
	Direccion          *string         `json:"direccion"`
	LimiteCredito      decimal.Decimal `json:"limite_credito"      validate:"min=0"`
}

type ActualizarClienteRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=200"`
	Email         *string          `json:"email"          validate:"omitempty,email"`
	Telefono      *string          `json:"telefono"       validate:"omitempty,max=30"`
	Direccion     *string          `json:"direccion"`
	LimiteCredito *decimal.Decimal `json:"limite_credito"`
	Activo        *bool            `json:"activo"`
}

type ClienteResponse struct {
	ID                 string          `json:"id"`
	Identificacion     string          `json:"identificacion"`
	TipoIdentificacion string          `json:"tipo_identificacion"`
	Nombre             string          `json:"nombre"`
	Email              *string         `json:"email,omitempty"`
	Telefono           *string         `json:"telefono,omitempty"`
	Direccion          *string         `json:"direccion,omitempty"`
	LimiteCredito      decimal.Decimal `json:"limite_credito"`
	Saldo              decimal.Decimal `json:"saldo"`
	Activo             bool            `json:"activo"`
}
