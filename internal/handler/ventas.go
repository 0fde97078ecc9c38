package handler

import (
	"bytes"
	"net/http"
	"time"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una venta
// @Description  Transaccion unica: bloquea productos, valida stock y credito, numera, descuenta stock y crea la cuenta por cobrar. Si llega cliente_email el PDF se envia en segundo plano.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError "INSUFFICIENT_STOCK"
// @Failure      422  {object} apierror.APIError "CREDIT_LIMIT_EXCEEDED / PARTY_INACTIVE"
// @Router       /ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
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

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Repone stock, anula la cuenta por cobrar y reduce el saldo del cliente.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID de la factura"
// @Param        body body dto.AnularVentaRequest true "Motivo"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /ventas/{id}/anular [post]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), middleware.GetUser(c), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte godoc
// @Summary      Reporte de ventas
// @Description  Filtrado por fechas, cliente, texto y condicion; con formato=xlsx devuelve una hoja de calculo.
// @Tags         ventas
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        desde     query string false "YYYY-MM-DD"
// @Param        hasta     query string false "YYYY-MM-DD"
// @Param        clienteId query string false "UUID del cliente"
// @Param        buscar    query string false "Numero o nombre del cliente"
// @Param        condicion query string false "contado | credito"
// @Param        formato   query string false "json | xlsx"
// @Success      200 {object} dto.ReporteVentasResponse
// @Router       /ventas/reportes [get]
func (h *VentasHandler) Reporte(c *gin.Context) {
	var filter dto.ReporteVentasFilter
	if !bindQuery(c, &filter) {
		return
	}
	u := middleware.GetUser(c)

	if filter.Formato == "xlsx" {
		var buf bytes.Buffer
		if err := h.svc.ExportarReporte(c.Request.Context(), u, filter, &buf); err != nil {
			respondError(c, err)
			return
		}
		nombre := "ventas_" + time.Now().Format("20060102") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
		c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
		return
	}

	resp, err := h.svc.Reporte(c.Request.Context(), u, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Imprimir godoc
// @Summary      PDF de la factura
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la factura"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /ventas/imprimir/{id} [get]
func (h *VentasHandler) Imprimir(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Imprimir(c.Request.Context(), middleware.GetUser(c), id, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="factura_`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, mimePDF, buf.Bytes())
}

// ListarCxC godoc
// @Summary      Cuentas por cobrar
// @Tags         cuentas
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | pagada | anulada"
// @Param        page   query int    false "Pagina"
// @Param        limit  query int    false "Registros por pagina"
// @Success      200 {object} dto.CuentaListResponse
// @Router       /cxc [get]
func (h *VentasHandler) ListarCxC(c *gin.Context) {
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

// PagarCxC godoc
// @Summary      Abonar a una cuenta por cobrar
// @Tags         cuentas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PagarCuentaRequest true "Pago"
// @Success      200 {object} dto.PagoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /cxc/pagar [post]
func (h *VentasHandler) PagarCxC(c *gin.Context) {
	var req dto.PagarCuentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PagarCuenta(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
