// Package licencia implements machine identity and license keys.
//
// A machine is identified by the first trustworthy platform identifier found
// on the host. The raw value never leaves the process: it is normalised to a
// short hex fingerprint that is stored against licenses and sessions.
package licencia

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
)

// IdentityProvider resolves the fingerprint of the machine running the server.
type IdentityProvider interface {
	MachineID() (string, error)
}

// fuente reads one raw platform identifier.
type fuente struct {
	name string
	read func() (string, error)
}

// SystemIdentity reads platform identifiers in priority order.
type SystemIdentity struct {
	fuentes  []fuente
	hostname func() (string, error)
}

func fuenteArchivo(name, path string) fuente {
	return fuente{name: name, read: func() (string, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}}
}

// NewSystemIdentity returns the provider used in production.
func NewSystemIdentity() *SystemIdentity {
	return &SystemIdentity{
		fuentes: []fuente{
			fuenteArchivo("dmi_product_uuid", "/sys/class/dmi/id/product_uuid"),
			fuenteArchivo("dmi_board_serial", "/sys/class/dmi/id/board_serial"),
			fuenteArchivo("machine_id", "/etc/machine-id"),
			fuenteArchivo("dbus_machine_id", "/var/lib/dbus/machine-id"),
		},
		hostname: os.Hostname,
	}
}

var ErrSinIdentidad = errors.New("licencia: no se pudo determinar la identidad del equipo")

// MachineID returns the normalised fingerprint of the first valid identifier,
// falling back to a hostname-derived pseudo id.
func (s *SystemIdentity) MachineID() (string, error) {
	for _, p := range s.fuentes {
		raw, err := p.read()
		if err != nil {
			continue
		}
		if identificadorValido(raw) {
			return Normalizar(p.name + ":" + strings.TrimSpace(raw)), nil
		}
	}
	if s.hostname != nil {
		if h, err := s.hostname(); err == nil && strings.TrimSpace(h) != "" {
			return Normalizar("hostname:" + strings.ToLower(strings.TrimSpace(h))), nil
		}
	}
	return "", ErrSinIdentidad
}

// Normalizar reduces any identifier to 16 upper-case hex characters.
func Normalizar(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:16]
}

var placeholders = []string{
	"to be filled by o.e.m.",
	"to be filled by oem",
	"default string",
	"not applicable",
	"not specified",
	"system serial number",
	"none",
	"n/a",
	"unknown",
	"123456789",
}

// identificadorValido rejects empty values, firmware placeholders and values
// made of a single repeated character such as all zeros or all Fs.
func identificadorValido(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return false
	}
	for _, p := range placeholders {
		if v == p {
			return false
		}
	}

	significativos := strings.NewReplacer("-", "", ":", "", " ", "", ".", "").Replace(v)
	if len(significativos) < 8 {
		return false
	}
	first := significativos[0]
	for i := 1; i < len(significativos); i++ {
		if significativos[i] != first {
			return true
		}
	}
	return false
}
