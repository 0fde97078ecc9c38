package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest: HardwareID is optional; the X-Device-ID header wins when both are sent.
type LoginRequest struct {
	Username   string `json:"username"    validate:"required,min=1"`
	Password   string `json:"password"    validate:"required,min=4"`
	HardwareID string `json:"hardware_id" validate:"omitempty,max=64"`
}

type ForzarCierreRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegistrarUsuarioRequest struct {
	Username   string  `json:"username"    validate:"required,min=3,max=150"`
	Nombre     string  `json:"nombre"      validate:"required,min=2,max=100"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Password   string  `json:"password"    validate:"required,min=8"`
	RolID      string  `json:"rol_id"      validate:"required,uuid"`
	SucursalID string  `json:"sucursal_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID         string          `json:"id"`
	Username   string          `json:"username"`
	Nombre     string          `json:"nombre"`
	Email      *string         `json:"email,omitempty"`
	RolID      string          `json:"rol_id"`
	SucursalID string          `json:"sucursal_id"`
	Permisos   map[string]bool `json:"permisos,omitempty"`
	Activo     bool            `json:"activo"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}
