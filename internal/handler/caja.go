package handler

import (
	"net/http"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre una nueva sesion de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.SesionCajaResponse
// @Failure 409 {object} apierror.APIError "Ya hay una caja abierta"
// @Router /caja/Abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Movimiento godoc
// @Summary Ingreso o egreso manual de efectivo
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoCajaRequest true "Movimiento"
// @Success 201 {object} dto.SesionCajaResponse
// @Router /caja/Movimiento [post]
func (h *CajaHandler) Movimiento(c *gin.Context) {
	var req dto.MovimientoCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Arqueo y cierre de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Monto contado"
// @Success 200 {object} dto.SesionCajaResponse
// @Router /caja/Cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Sesiones de caja anteriores
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param page  query int false "Pagina"
// @Param limit query int false "Registros por pagina"
// @Success 200 {object} dto.Pagina[dto.SesionCajaResponse]
// @Router /caja/Historial [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	var filter dto.PaginaFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, total, err := h.svc.Historial(c.Request.Context(), middleware.GetUser(c), filter.Page, filter.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Pagina[dto.SesionCajaResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// Activa godoc
// @Summary Sesion abierta de la sucursal
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param sucursal_id query string false "UUID de la sucursal; por defecto la del usuario"
// @Success 200 {object} dto.SesionCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /caja/Activa [get]
func (h *CajaHandler) Activa(c *gin.Context) {
	u := middleware.GetUser(c)
	sucursalID := u.SucursalID
	if raw := c.Query("sucursal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apierror.BadRequest("sucursal_id invalido"))
			return
		}
		sucursalID = id
	}
	resp, err := h.svc.Activa(c.Request.Context(), u, sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
