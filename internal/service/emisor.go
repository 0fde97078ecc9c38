package service

import (
	"integrafacturacion/internal/config"
	"integrafacturacion/internal/infra"
)

// Emisor is the issuing company printed on every document and encoded in the
// access key.
type Emisor struct {
	RUC             string
	RazonSocial     string
	Establecimiento string
	PuntoEmision    string
	Ambiente        string
	PDFPath         string
}

func EmisorDesdeConfig(cfg *config.Config) Emisor {
	return Emisor{
		RUC:             cfg.EmisorRUC,
		RazonSocial:     cfg.EmisorRazonSocial,
		Establecimiento: cfg.EmisorEstablecimiento,
		PuntoEmision:    cfg.EmisorPuntoEmision,
		Ambiente:        cfg.SRIAmbiente,
		PDFPath:         cfg.PDFStoragePath,
	}
}

func (e Emisor) pdf() infra.EmisorPDF {
	return infra.EmisorPDF{RUC: e.RUC, RazonSocial: e.RazonSocial}
}
