package dto

type ActivarLicenciaRequest struct {
	RUC             string `json:"ruc"              validate:"required,len=13,numeric"`
	RazonSocial     string `json:"razon_social"     validate:"required,min=2"`
	Clave           string `json:"clave"            validate:"required,len=23"`
	MaxDispositivos int    `json:"max_dispositivos" validate:"required,min=1,max=100"`
	HardwareID      string `json:"hardware_id"      validate:"omitempty,max=64"`
}

type AutoActivarRequest struct {
	RUC        string `json:"ruc"         validate:"omitempty,len=13,numeric"`
	HardwareID string `json:"hardware_id" validate:"omitempty,max=64"`
	Nombre     string `json:"nombre"      validate:"omitempty,max=100"`
}

type EstadoLicenciaResponse struct {
	Estado          string `json:"estado"`
	Permitido       bool   `json:"permitido"`
	RUC             string `json:"ruc,omitempty"`
	RazonSocial     string `json:"razon_social,omitempty"`
	HardwareID      string `json:"hardware_id"`
	Dispositivos    int    `json:"dispositivos"`
	MaxDispositivos int    `json:"max_dispositivos"`
}

type HardwareIDResponse struct {
	HardwareID string `json:"hardware_id"`
}
