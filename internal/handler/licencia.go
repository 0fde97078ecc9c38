package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type LicenciaHandler struct{ svc service.LicenciaService }

func NewLicenciaHandler(svc service.LicenciaService) *LicenciaHandler {
	return &LicenciaHandler{svc: svc}
}

// MiHardwareID godoc
// @Summary      Huella de este equipo
// @Tags         licencia
// @Produce      json
// @Success      200 {object} dto.HardwareIDResponse
// @Router       /licencia/mi-hardware-id [get]
func (h *LicenciaHandler) MiHardwareID(c *gin.Context) {
	resp, err := h.svc.MiHardwareID(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activar godoc
// @Summary      Activar licencia con clave
// @Tags         licencia
// @Accept       json
// @Produce      json
// @Param        body body dto.ActivarLicenciaRequest true "Datos de activacion"
// @Success      200 {object} dto.EstadoLicenciaResponse
// @Failure      403 {object} apierror.APIError
// @Router       /licencia/activar [post]
func (h *LicenciaHandler) Activar(c *gin.Context) {
	var req dto.ActivarLicenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.HardwareID == "" {
		req.HardwareID = c.GetHeader(middleware.DeviceIDHeader)
	}
	resp, err := h.svc.Activar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AutoActivar godoc
// @Summary      Registrar este equipo en la licencia existente
// @Tags         licencia
// @Accept       json
// @Produce      json
// @Param        body body dto.AutoActivarRequest true "Equipo"
// @Success      200 {object} dto.EstadoLicenciaResponse
// @Router       /licencia/auto-activar [post]
func (h *LicenciaHandler) AutoActivar(c *gin.Context) {
	var req dto.AutoActivarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.HardwareID == "" {
		req.HardwareID = c.GetHeader(middleware.DeviceIDHeader)
	}
	resp, err := h.svc.AutoActivar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ValidarEstado godoc
// @Summary      Estado de la licencia para un equipo
// @Tags         licencia
// @Produce      json
// @Param        ruc         query string false "RUC (opcional si hay una sola licencia)"
// @Param        hardware_id query string false "Huella (por defecto X-Device-ID o la del servidor)"
// @Success      200 {object} dto.EstadoLicenciaResponse
// @Router       /licencia/validar-estado [get]
func (h *LicenciaHandler) ValidarEstado(c *gin.Context) {
	explicito := c.Query("hardware_id")
	if explicito == "" {
		explicito = c.GetHeader(middleware.DeviceIDHeader)
	}
	hwid, err := h.svc.HardwareID(explicito)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.svc.ValidarEstado(c.Request.Context(), c.Query("ruc"), hwid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
