package handler

import (
	"net/http"

	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear godoc
// @Summary  Crear categoria
// @Tags     categorias
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body dto.CrearCategoriaRequest true "Categoria"
// @Success  201 {object} dto.CategoriaResponse
// @Failure  409 {object} apierror.APIError
// @Router   /categorias [post]
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
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
// @Summary  Listar categorias
// @Tags     categorias
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} dto.CategoriaResponse
// @Router   /categorias [get]
func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
