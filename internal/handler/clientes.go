package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Crear godoc
// @Summary  Crear cliente
// @Tags     clientes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.CrearClienteRequest true "Cliente"
// @Success  201 {object} dto.ClienteResponse
// @Failure  409 {object} apierror.APIError "Identificacion duplicada"
// @Router   /clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
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
// @Summary  Listar clientes
// @Tags     clientes
// @Produce  json
// @Security BearerAuth
// @Param    buscar query string false "Nombre o identificacion"
// @Param    page   query int    false "Pagina"
// @Param    limit  query int    false "Registros por pagina"
// @Success  200 {object} dto.Pagina[dto.ClienteResponse]
// @Router   /clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.PaginaFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, total, err := h.svc.Listar(c.Request.Context(), middleware.GetUser(c), filter.Buscar, filter.Page, filter.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Pagina[dto.ClienteResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// Actualizar godoc
// @Summary  Actualizar cliente
// @Tags     clientes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                        true "UUID del cliente"
// @Param    body body dto.ActualizarClienteRequest  true "Campos a modificar"
// @Success  200 {object} dto.ClienteResponse
// @Router   /clientes/{id} [put]
func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
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
