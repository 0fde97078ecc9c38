package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Movimiento godoc
// @Summary      Movimiento manual de inventario
// @Description  Entrada o salida de stock fuera de ventas y compras; queda en el kardex.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovimientoManualRequest true "Movimiento"
// @Success      201 {object} dto.MovimientoResponse
// @Failure      409 {object} apierror.APIError "INSUFFICIENT_STOCK"
// @Router       /inventario [post]
func (h *InventarioHandler) Movimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MovimientoManual(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Kardex godoc
// @Summary      Kardex
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "UUID del producto"
// @Param        desde       query string false "YYYY-MM-DD"
// @Param        hasta       query string false "YYYY-MM-DD"
// @Param        page        query int    false "Pagina"
// @Param        limit       query int    false "Registros por pagina"
// @Success      200 {object} dto.KardexResponse
// @Router       /inventario/kardex [get]
func (h *InventarioHandler) Kardex(c *gin.Context) {
	var filter dto.KardexFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Kardex(c.Request.Context(), middleware.GetUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Producir godoc
// @Summary      Produccion por receta
// @Description  Consume los componentes de la receta y suma el producto terminado, todo o nada.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProduccionRequest true "Produccion"
// @Success      201 {object} dto.ProduccionResponse
// @Failure      409 {object} apierror.APIError "INSUFFICIENT_STOCK"
// @Failure      422 {object} apierror.APIError
// @Router       /inventario/produccion [post]
func (h *InventarioHandler) Producir(c *gin.Context) {
	var req dto.ProduccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Producir(c.Request.Context(), middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
