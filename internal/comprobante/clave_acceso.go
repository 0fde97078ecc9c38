// Package comprobante builds document numbers and the 49-digit access key
// printed on every electronic invoice.
//
// Access key layout (positions are 1-based):
//
//	 1-8   fecha de emision ddmmaaaa
//	 9-10  tipo de comprobante (01 = factura)
//	11-23  RUC del emisor
//	24     ambiente (1 = pruebas, 2 = produccion)
//	25-30  serie: establecimiento + punto de emision
//	31-39  secuencial
//	40-47  codigo numerico
//	48     tipo de emision (1 = normal)
//	49     digito verificador modulo 11
package comprobante

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"time"
)

const (
	TipoFactura       = "01"
	TipoEmisionNormal = "1"
	AmbientePruebas   = "1"
	AmbienteProd      = "2"
)

var (
	reRUC   = regexp.MustCompile(`^\d{13}$`)
	reSerie = regexp.MustCompile(`^\d{3}$`)
	reClave = regexp.MustCompile(`^\d{49}$`)
)

// DatosClave are the inputs of an access key.
type DatosClave struct {
	Fecha           time.Time
	TipoComprobante string
	RUC             string
	Ambiente        string
	Establecimiento string
	PuntoEmision    string
	Secuencial      int64
}

// NumeroDocumento formats the printed document number, e.g. 001-001-000000123.
func NumeroDocumento(establecimiento, puntoEmision string, secuencial int64) string {
	return fmt.Sprintf("%s-%s-%09d", establecimiento, puntoEmision, secuencial)
}

// GenerarClaveAcceso assembles and check-digits the 49-digit key.
func GenerarClaveAcceso(d DatosClave) (string, error) {
	if !reRUC.MatchString(d.RUC) {
		return "", fmt.Errorf("comprobante: RUC %q debe tener 13 digitos", d.RUC)
	}
	if !reSerie.MatchString(d.Establecimiento) || !reSerie.MatchString(d.PuntoEmision) {
		return "", fmt.Errorf("comprobante: serie %s-%s invalida", d.Establecimiento, d.PuntoEmision)
	}
	if d.Secuencial <= 0 || d.Secuencial > 999_999_999 {
		return "", fmt.Errorf("comprobante: secuencial %d fuera de rango", d.Secuencial)
	}
	tipo := d.TipoComprobante
	if tipo == "" {
		tipo = TipoFactura
	}
	ambiente := d.Ambiente
	if ambiente == "" {
		ambiente = AmbientePruebas
	}
	serie := d.Establecimiento + d.PuntoEmision

	base := d.Fecha.Format("02012006") +
		tipo +
		d.RUC +
		ambiente +
		serie +
		fmt.Sprintf("%09d", d.Secuencial) +
		CodigoNumerico(d.RUC, serie, d.Secuencial) +
		TipoEmisionNormal
	return base + fmt.Sprint(DigitoVerificador(base)), nil
}

// CodigoNumerico derives the 8-digit code from the emitter and sequence so the
// same document always gets the same key.
func CodigoNumerico(ruc, serie string, secuencial int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", ruc, serie, secuencial)))
	n := binary.BigEndian.Uint64(sum[:8]) % 100_000_000
	return fmt.Sprintf("%08d", n)
}

// DigitoVerificador computes the modulo-11 check digit with weights 2..7
// applied from the rightmost digit. 11 maps to 0 and 10 maps to 1.
func DigitoVerificador(digits string) int {
	sum := 0
	peso := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * peso
		peso++
		if peso > 7 {
			peso = 2
		}
	}
	dv := 11 - sum%11
	switch dv {
	case 11:
		return 0
	case 10:
		return 1
	}
	return dv
}

// ValidarClaveAcceso checks length and check digit of a received key.
func ValidarClaveAcceso(clave string) bool {
	if !reClave.MatchString(clave) {
		return false
	}
	return DigitoVerificador(clave[:48]) == int(clave[48]-'0')
}
