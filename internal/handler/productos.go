package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Datos del producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      409  {object} apierror.APIError "Codigo duplicado"
// @Router       /productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        buscar       query string false "Nombre, codigo o codigo de barras"
// @Param        categoria_id query string false "UUID de categoria"
// @Param        sucursal_id  query string false "UUID de sucursal"
// @Param        activo       query string false "true | false | all"
// @Param        page         query int    false "Pagina"
// @Param        limit        query int    false "Registros por pagina"
// @Success      200 {object} dto.ProductoListResponse
// @Router       /productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener producto con su receta
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ProductoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /productos/{id} [get]
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), middleware.GetUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar producto
// @Description  El stock no se edita aqui; solo cambia con movimientos de inventario.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                         true "UUID del producto"
// @Param        body body dto.ActualizarProductoRequest  true "Campos a modificar"
// @Success      200 {object} dto.ProductoResponse
// @Router       /productos/{id} [put]
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DefinirReceta godoc
// @Summary      Reemplazar la receta (BOM)
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "UUID del producto terminado"
// @Param        body body dto.RecetaRequest true "Componentes"
// @Success      200 {object} dto.ProductoResponse
// @Failure      422 {object} apierror.APIError
// @Router       /productos/{id}/receta [put]
func (h *ProductosHandler) DefinirReceta(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DefinirReceta(c.Request.Context(), middleware.GetUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistorialCostos godoc
// @Summary      Historial de costos del producto
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "UUID del producto"
// @Param        page  query int    false "Pagina"
// @Param        limit query int    false "Registros por pagina"
// @Success      200 {object} dto.Pagina[dto.HistorialCostoResponse]
// @Router       /productos/{id}/historial-costos [get]
func (h *ProductosHandler) HistorialCostos(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var filter dto.PaginaFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, total, err := h.svc.HistorialCostos(c.Request.Context(), middleware.GetUser(c), id, filter.Page, filter.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Pagina[dto.HistorialCostoResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}
