package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc       service.AuthService
	licencias service.LicenciaService
}

func NewAuthHandler(svc service.AuthService, licencias service.LicenciaService) *AuthHandler {
	return &AuthHandler{svc: svc, licencias: licencias}
}

// Login godoc
// @Summary      Login de usuario
// @Description  Abre la sesion exclusiva del usuario en este equipo. X-Device-ID (o hardware_id) identifica el equipo; sin ninguno se usa la huella del servidor.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Device-ID header string false "Huella del equipo"
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200 {object} dto.LoginResponse
// @Failure      401 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError "SESSION_OPEN_ELSEWHERE"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	explicito := c.GetHeader(middleware.DeviceIDHeader)
	if explicito == "" {
		explicito = req.HardwareID
	}
	hwid, err := h.licencias.HardwareID(explicito)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req, hwid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForzarCierre godoc
// @Summary      Cerrar una sesion abierta en otro equipo
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.ForzarCierreRequest true "Credenciales"
// @Success      200 {object} dto.MensajeResponse
// @Failure      401 {object} apierror.APIError
// @Router       /auth/forzar-cierre [post]
func (h *AuthHandler) ForzarCierre(c *gin.Context) {
	var req dto.ForzarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ForzarCierre(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Message: "Sesion cerrada"})
}

// Logout godoc
// @Summary      Cerrar la sesion propia
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MensajeResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.GetUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Message: "Sesion cerrada"})
}

// Register godoc
// @Summary      Crear usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarUsuarioRequest true "Usuario"
// @Success      201 {object} dto.UsuarioResponse
// @Failure      403 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegistrarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarUsuarios godoc
// @Summary      Listar usuarios
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.UsuarioResponse
// @Router       /usuarios [get]
func (h *AuthHandler) ListarUsuarios(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
