package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct{ svc service.CompraService }

func NewComprasHandler(svc service.CompraService) *ComprasHandler { return &ComprasHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar compra
// @Description  Ingresa stock, actualiza el costo (con historial) y crea la cuenta por pagar si es a credito.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCompraRequest true "Compra"
// @Success      201 {object} dto.CompraResponse
// @Failure      403 {object} apierror.APIError
// @Router       /compras [post]
func (h *ComprasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCompraRequest
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

// Pagar godoc
// @Summary      Pagar una cuenta por pagar
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PagarCuentaRequest true "Pago"
// @Success      200 {object} dto.PagoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /compras/pagar [post]
func (h *ComprasHandler) Pagar(c *gin.Context) {
	var req dto.PagarCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pagar(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular compra
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la compra"
// @Success      200 {object} dto.CompraResponse
// @Failure      409 {object} apierror.APIError
// @Router       /compras/{id} [delete]
func (h *ComprasHandler) Anular(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), middleware.GetUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarCxP godoc
// @Summary      Cuentas por pagar
// @Tags         cuentas
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | pagada | anulada"
// @Success      200 {object} dto.CuentaListResponse
// @Router       /cxp [get]
func (h *ComprasHandler) ListarCxP(c *gin.Context) {
	var filter dto.CuentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarCuentas(c.Request.Context(), middleware.GetUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
