package dto

type CrearProveedorRequest struct {
	RUC             string  `json:"ruc"              validate:"required,len=13,numeric"`
	RazonSocial     string  `json:"razon_social"     validate:"required,min=2,max=200"`
	NombreComercial *string `json:"nombre_comercial" validate:"omitempty,max=200"`
	Telefono        *string `json:"telefono"         validate:"omitempty,max=30"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	DiasCredito     int     `json:"dias_credito"     validate:"min=0,max=365"`
}

type ActualizarProveedorRequest struct {
	RazonSocial     *string `json:"razon_social"     validate:"omitempty,min=2,max=200"`
	NombreComercial *string `json:"nombre_comercial" validate:"omitempty,max=200"`
	Telefono        *string `json:"telefono"         validate:"omitempty,max=30"`
	Email           *string `json:"email"            validate:"omitempty,email"`
	Direccion       *string `json:"direccion"`
	DiasCredito     *int    `json:"dias_credito"     validate:"omitempty,min=0,max=365"`
	Activo          *bool   `json:"activo"`
}

type ProveedorResponse struct {
	ID              string  `json:"id"`
	RUC             string  `json:"ruc"`
	RazonSocial     string  `json:"razon_social"`
	NombreComercial *string `json:"nombre_comercial,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	Email           *string `json:"email,omitempty"`
	Direccion       *string `json:"direccion,omitempty"`
	DiasCredito     int     `json:"dias_credito"`
	Activo          bool    `json:"activo"`
}
