package handler

import (
	"io"
	"net/http"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/service"

	"github.com/gin-gonic/gin"
)

const maxXMLBytes = 5 << 20

type XMLHandler struct{ svc service.XMLService }

func NewXMLHandler(svc service.XMLService) *XMLHandler { return &XMLHandler{svc: svc} }

// Preprocesar godoc
// @Summary      Leer una factura electronica de proveedor
// @Description  Devuelve un borrador de compra con las lineas emparejadas; no guarda nada.
// @Tags         xml
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo formData file true "XML autorizado"
// @Success      200 {object} dto.PreprocesarXMLResponse
// @Failure      400 {object} apierror.APIError
// @Router       /xml/preprocesar [post]
func (h *XMLHandler) Preprocesar(c *gin.Context) {
	fh, err := c.FormFile("archivo")
	if err != nil {
		respondError(c, apierror.BadRequest("Falta el archivo XML (campo archivo)"))
		return
	}
	if fh.Size > maxXMLBytes {
		respondError(c, apierror.BadRequest("El archivo supera 5 MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apierror.BadRequest("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxXMLBytes))
	if err != nil {
		respondError(c, apierror.BadRequest("No se pudo leer el archivo"))
		return
	}
	resp, err := h.svc.Preprocesar(c.Request.Context(), middleware.GetUser(c), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GuardarEquivalencia godoc
// @Summary      Recordar codigo de proveedor
// @Tags         xml
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EquivalenciaRequest true "Equivalencia"
// @Success      201 {object} dto.MensajeResponse
// @Router       /xml/equivalencias [post]
func (h *XMLHandler) GuardarEquivalencia(c *gin.Context) {
	var req dto.EquivalenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.GuardarEquivalencia(c.Request.Context(), middleware.GetUser(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MensajeResponse{Message: "Equivalencia guardada"})
}
