package handler

import (
	"bytes"
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type ProformasHandler struct{ svc service.ProformaService }

func NewProformasHandler(svc service.ProformaService) *ProformasHandler {
	return &ProformasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear proforma
// @Description  Cotizacion sin efecto en stock ni saldos; los totales se calculan en el servidor.
// @Tags         proformas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProformaRequest true "Proforma"
// @Success      201 {object} dto.ProformaResponse
// @Failure      422 {object} apierror.APIError "PARTY_INACTIVE"
// @Router       /proformas [post]
func (h *ProformasHandler) Crear(c *gin.Context) {
	var req dto.CrearProformaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar proformas
// @Tags         proformas
// @Produce      json
// @Security     BearerAuth
// @Param        estado    query string false "pendiente | facturada | anulada"
// @Param        clienteId query string false "UUID del cliente"
// @Param        page      query int    false "Pagina"
// @Param        limit     query int    false "Registros por pagina"
// @Success      200 {object} dto.Pagina[dto.ProformaResponse]
// @Router       /proformas [get]
func (h *ProformasHandler) Listar(c *gin.Context) {
	var filter dto.ProformaFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, total, err := h.svc.Listar(c.Request.Context(), middleware.GetUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Pagina[dto.ProformaResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// Obtener godoc
// @Summary      Obtener proforma
// @Tags         proformas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la proforma"
// @Success      200 {object} dto.ProformaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /proformas/{id} [get]
func (h *ProformasHandler) Obtener(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Imprimir godoc
// @Summary      PDF de la proforma
// @Tags         proformas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la proforma"
// @Success      200 {file} binary
// @Router       /proformas/imprimir/{id} [get]
func (h *ProformasHandler) Imprimir(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Imprimir(c.Request.Context(), middleware.GetUser(c), id, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="proforma_`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, mimePDF, buf.Bytes())
}

// Convertir godoc
// @Summary      Facturar una proforma pendiente
// @Description  Ejecuta la transaccion de venta; una proforma ya facturada responde 409.
// @Tags         proformas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "UUID de la proforma"
// @Param        body body dto.ConvertirProformaRequest  true "Condicion de pago"
// @Success      201 {object} dto.VentaResponse
// @Failure      409 {object} apierror.APIError
// @Router       /proformas/{id}/convertir [post]
func (h *ProformasHandler) Convertir(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ConvertirProformaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Convertir(c.Request.Context(), middleware.GetUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
