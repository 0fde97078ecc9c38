package service

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"time"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/comprobante"
	"integrafacturacion/internal/dto"
	"integrafacturacion/internal/model"
	"integrafacturacion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// XMLService turns a supplier's electronic invoice into a purchase draft.
type XMLService interface {
	Preprocesar(ctx context.Context, u auth.ActingUser, data []byte) (*dto.PreprocesarXMLResponse, error)
	GuardarEquivalencia(ctx context.Context, u auth.ActingUser, req dto.EquivalenciaRequest) error
}

type xmlService struct {
	proveedorRepo    repository.ProveedorRepository
	productoRepo     repository.ProductoRepository
	equivalenciaRepo repository.EquivalenciaRepository
}

func NewXMLService(proveedorRepo repository.ProveedorRepository, productoRepo repository.ProductoRepository, equivalenciaRepo repository.EquivalenciaRepository) XMLService {
	return &xmlService{proveedorRepo: proveedorRepo, productoRepo: productoRepo, equivalenciaRepo: equivalenciaRepo}
}

// ── XML shapes ───────────────────────────────────────────────────────────────

type facturaXML struct {
	XMLName        xml.Name `xml:"factura"`
	InfoTributaria struct {
		RazonSocial string `xml:"razonSocial"`
		RUC         string `xml:"ruc"`
		ClaveAcceso string `xml:"claveAcceso"`
		Estab       string `xml:"estab"`
		PtoEmi      string `xml:"ptoEmi"`
		Secuencial  string `xml:"secuencial"`
	} `xml:"infoTributaria"`
	InfoFactura struct {
		FechaEmision string `xml:"fechaEmision"`
		ImporteTotal string `xml:"importeTotal"`
	} `xml:"infoFactura"`
	Detalles []detalleXML `xml:"detalles>detalle"`
}

type detalleXML struct {
	CodigoPrincipal string `xml:"codigoPrincipal"`
	Descripcion     string `xml:"descripcion"`
	Cantidad        string `xml:"cantidad"`
	PrecioUnitario  string `xml:"precioUnitario"`
	Descuento       string `xml:"descuento"`
	Impuestos       []struct {
		Tarifa string `xml:"tarifa"`
	} `xml:"impuestos>impuesto"`
}

// extraerFactura accepts a bare <factura> or any authorization envelope whose
// <comprobante> element carries the invoice as (usually CDATA) text.
func extraerFactura(data []byte) (*facturaXML, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("documento sin factura")
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "factura":
			var f facturaXML
			if err := dec.DecodeElement(&f, &se); err != nil {
				return nil, err
			}
			return &f, nil
		case "comprobante":
			var inner string
			if err := dec.DecodeElement(&inner, &se); err != nil {
				return nil, err
			}
			return extraerFactura([]byte(strings.TrimSpace(inner)))
		}
	}
}

func decimalXML(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ── Operations ───────────────────────────────────────────────────────────────

func (s *xmlService) Preprocesar(ctx context.Context, u auth.ActingUser, data []byte) (*dto.PreprocesarXMLResponse, error) {
	if err := u.RequireAccess(auth.PermCompras); err != nil {
		return nil, err
	}
	f, err := extraerFactura(data)
	if err != nil {
		return nil, apierror.BadRequest("XML de factura invalido").WithCause(err)
	}
	it := f.InfoTributaria
	if it.RUC == "" {
		return nil, apierror.Validation("El XML no contiene el RUC del proveedor")
	}

	resp := &dto.PreprocesarXMLResponse{
		ProveedorRUC:    it.RUC,
		ProveedorNombre: it.RazonSocial,
		ClaveAcceso:     it.ClaveAcceso,
		Total:           decimalXML(f.InfoFactura.ImporteTotal),
		FechaEmision:    f.InfoFactura.FechaEmision,
		Lineas:          make([]dto.LineaXMLResponse, 0, len(f.Detalles)),
	}
	if sec := decimalXML(it.Secuencial); sec.IsPositive() {
		resp.NumeroDocumento = comprobante.NumeroDocumento(it.Estab, it.PtoEmi, sec.IntPart())
	}
	if t, err := time.Parse("02/01/2006", strings.TrimSpace(f.InfoFactura.FechaEmision)); err == nil {
		resp.FechaEmision = t.Format("2006-01-02")
	}
	if it.ClaveAcceso != "" && !comprobante.ValidarClaveAcceso(it.ClaveAcceso) {
		log.Warn().Str("ruc", it.RUC).Str("clave_acceso", it.ClaveAcceso).Msg("xml: clave de acceso con digito verificador invalido")
	}

	equivalencias := map[string]uuid.UUID{}
	prov, err := s.proveedorRepo.FindByRUC(ctx, it.RUC)
	switch {
	case err == nil:
		resp.ProveedorID = idString(&prov.ID)
		if equivalencias, err = s.equivalenciaRepo.MapaPorProveedor(ctx, prov.ID); err != nil {
			return nil, apierror.Internal(err)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apierror.Internal(err)
	}

	for _, d := range f.Detalles {
		l := dto.LineaXMLResponse{
			CodigoProveedor: strings.TrimSpace(d.CodigoPrincipal),
			Descripcion:     strings.TrimSpace(d.Descripcion),
			Cantidad:        decimalXML(d.Cantidad),
			CostoUnitario:   decimalXML(d.PrecioUnitario),
			Descuento:       decimalXML(d.Descuento),
			TarifaIVA:       decimal.Zero,
		}
		if len(d.Impuestos) > 0 {
			l.TarifaIVA = decimalXML(d.Impuestos[0].Tarifa)
		}
		if pid, ok := equivalencias[l.CodigoProveedor]; ok {
			// A mapping to a product the caller cannot see counts as unmatched.
			if p, err := s.productoRepo.FindByID(ctx, u, pid); err == nil {
				l.ProductoID = idString(&p.ID)
				l.Producto = p.Nombre
				l.Emparejado = true
			}
		}
		if !l.Emparejado {
			resp.SinEmparejar++
		}
		resp.Lineas = append(resp.Lineas, l)
	}
	return resp, nil
}

func (s *xmlService) GuardarEquivalencia(ctx context.Context, u auth.ActingUser, req dto.EquivalenciaRequest) error {
	if err := u.AuthorizeWrite(auth.PermCompras); err != nil {
		return err
	}
	provID, err := parseID("proveedor_id", req.ProveedorID)
	if err != nil {
		return err
	}
	prodID, err := parseID("producto_id", req.ProductoID)
	if err != nil {
		return err
	}
	if _, err := s.proveedorRepo.FindByID(ctx, provID); err != nil {
		return buscarErr(err, "Proveedor")
	}
	if _, err := s.productoRepo.FindByID(ctx, u, prodID); err != nil {
		return buscarErr(err, "Producto")
	}
	e := &model.EquivalenciaProducto{
		ProveedorID:     provID,
		CodigoProveedor: strings.TrimSpace(req.CodigoProveedor),
		ProductoID:      prodID,
	}
	if err := s.equivalenciaRepo.Guardar(ctx, u, e); err != nil {
		return txErr(err)
	}
	return nil
}
