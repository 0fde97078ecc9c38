package licencia

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"strconv"
	"strings"
)

// Estado is the outcome of validating a machine against the license store.
type Estado string

const (
	EstadoAutorizado       Estado = "AUTHORIZED"
	EstadoNuevoDispositivo Estado = "NEW_DEVICE_REGISTERED"
	EstadoLimiteAlcanzado  Estado = "LIMIT_REACHED"
	EstadoNoActivada       Estado = "NOT_ACTIVATED"
	EstadoDenegado         Estado = "DENIED"
)

// Permitido reports whether the outcome lets the machine operate.
func (e Estado) Permitido() bool {
	return e == EstadoAutorizado || e == EstadoNuevoDispositivo
}

var claveEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// DerivarClave computes the activation key for a company RUC, the activating
// machine and the device limit. Format: XXXXX-XXXXX-XXXXX-XXXXX.
func DerivarClave(ruc, hwid string, maxDispositivos int, secreto string) string {
	mac := hmac.New(sha256.New, []byte(secreto))
	mac.Write([]byte(materialClave(ruc, hwid, maxDispositivos)))
	enc := claveEncoding.EncodeToString(mac.Sum(nil))[:20]
	return enc[0:5] + "-" + enc[5:10] + "-" + enc[10:15] + "-" + enc[15:20]
}

// materialClave is the HMAC message: RUC|HWID|max, the fingerprint upper-cased.
func materialClave(ruc, hwid string, maxDispositivos int) string {
	return strings.Join([]string{
		strings.TrimSpace(ruc),
		strings.ToUpper(strings.TrimSpace(hwid)),
		strconv.Itoa(maxDispositivos),
	}, "|")
}

// ClaveValida compares a user-typed key against the derived one. Only an
// exact match (ignoring case and surrounding spaces) is accepted.
func ClaveValida(clave, ruc, hwid string, maxDispositivos int, secreto string) bool {
	want := DerivarClave(ruc, hwid, maxDispositivos, secreto)
	got := strings.ToUpper(strings.TrimSpace(clave))
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
