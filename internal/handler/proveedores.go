package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

// Crear godoc
// @Summary  Crear proveedor
// @Tags     proveedores
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.CrearProveedorRequest true "Proveedor"
// @Success  201 {object} dto.ProveedorResponse
// @Failure  409 {object} apierror.APIError "RUC duplicado"
// @Router   /proveedores [post]
func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearProveedorRequest
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
// @Summary  Listar proveedores
// @Tags     proveedores
// @Produce  json
// @Security BearerAuth
// @Param    buscar query string false "Razon social o RUC"
// @Success  200 {array} dto.ProveedorResponse
// @Router   /proveedores [get]
func (h *ProveedoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetUser(c), c.Query("buscar"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary  Obtener proveedor
// @Tags     proveedores
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "UUID del proveedor"
// @Success  200 {object} dto.ProveedorResponse
// @Failure  404 {object} apierror.APIError
// @Router   /proveedores/{id} [get]
func (h *ProveedoresHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary  Actualizar proveedor
// @Tags     proveedores
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                          true "UUID del proveedor"
// @Param    body body dto.ActualizarProveedorRequest  true "Campos a modificar"
// @Success  200 {object} dto.ProveedorResponse
// @Router   /proveedores/{id} [put]
func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProveedorRequest
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
