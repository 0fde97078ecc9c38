// Package auth holds the identity model of a request: the closed permission
// set attached to a role, the ActingUser built from a verified token, the
// password KDF and the token issuer.
package auth

import (
	"encoding/json"
	"sort"

	"integrafacturacion/internal/apierror"

	"github.com/google/uuid"
)

// Permiso is one flag of the closed permission enumeration.
type Permiso uint64

const (
	PermVentas Permiso = 1 << iota
	PermCompras
	PermInventario
	PermProductos
	PermClientes
	PermProveedores
	PermCaja
	PermReportes
	PermUsuarios
	PermProformas
	PermCuentas
	PermConfiguracion

	// Special flags.
	PermAll
	PermSoloLectura
	PermSucursalLimit
)

var permisoNombres = map[Permiso]string{
	PermVentas:        "ventas",
	PermCompras:       "compras",
	PermInventario:    "inventario",
	PermProductos:     "productos",
	PermClientes:      "clientes",
	PermProveedores:   "proveedores",
	PermCaja:          "caja",
	PermReportes:      "reportes",
	PermUsuarios:      "usuarios",
	PermProformas:     "proformas",
	PermCuentas:       "cuentas",
	PermConfiguracion: "configuracion",
	PermAll:           "all",
	PermSoloLectura:   "solo_lectura",
	PermSucursalLimit: "sucursal_limit",
}

var permisoPorNombre = func() map[string]Permiso {
	m := make(map[string]Permiso, len(permisoNombres))
	for p, n := range permisoNombres {
		m[n] = p
	}
	return m
}()

func (p Permiso) String() string {
	if n, ok := permisoNombres[p]; ok {
		return n
	}
	return "desconocido"
}

// ParsePermiso resolves a stored key. Unknown keys are reported with ok=false.
func ParsePermiso(nombre string) (Permiso, bool) {
	p, ok := permisoPorNombre[nombre]
	return p, ok
}

// PermissionSet is the immutable set of flags granted to a role.
type PermissionSet struct {
	bits Permiso
}

func NewPermissionSet(perms ...Permiso) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s.bits |= p
	}
	return s
}

// ParsePermisos parses the JSON document stored on the role, e.g.
// {"ventas":true,"solo_lectura":false}. A malformed document yields the
// empty set; unknown keys are ignored.
func ParsePermisos(raw string) PermissionSet {
	if raw == "" {
		return PermissionSet{}
	}
	var doc map[string]bool
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return PermissionSet{}
	}
	var s PermissionSet
	for k, v := range doc {
		if p, ok := permisoPorNombre[k]; ok && v {
			s.bits |= p
		}
	}
	return s
}

// Has reports whether the set grants p.
// solo_lectura is a deny signal and is answered with its raw value, so "all"
// can never turn a role read-only by accident.
func (s PermissionSet) Has(p Permiso) bool {
	if p == PermSoloLectura {
		return s.bits&PermSoloLectura != 0
	}
	if s.bits&PermAll != 0 {
		return true
	}
	return s.bits&p != 0
}

func (s PermissionSet) IsEmpty() bool { return s.bits == 0 }

// Names lists the granted keys in stable order.
func (s PermissionSet) Names() []string {
	out := make([]string, 0, len(permisoNombres))
	for p, n := range permisoNombres {
		if s.bits&p != 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// JSON serialises the set into the stored document format.
func (s PermissionSet) JSON() string {
	doc := make(map[string]bool)
	for _, n := range s.Names() {
		doc[n] = true
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return []byte(s.JSON()), nil
}

// ── ActingUser ───────────────────────────────────────────────────────────────

// ActingUser is the identity every operation runs as. It is built once per
// request from a verified token and never mutated afterwards.
type ActingUser struct {
	ID         uuid.UUID
	Username   string
	RolID      uuid.UUID
	SucursalID uuid.UUID
	Permisos   PermissionSet
}

// RequireAccess fails with Unauthorized when the user lacks p.
func (u ActingUser) RequireAccess(p Permiso) error {
	if !u.Permisos.Has(p) {
		return apierror.Unauthorized(p.String())
	}
	return nil
}

// RequireWrite fails with ReadOnlyRole for solo_lectura roles.
func (u ActingUser) RequireWrite() error {
	if u.Permisos.Has(PermSoloLectura) {
		return apierror.ReadOnlyRole()
	}
	return nil
}

// AuthorizeWrite runs the write check in order: the solo_lectura veto first,
// then all, then the specific module key.
func (u ActingUser) AuthorizeWrite(p Permiso) error {
	if err := u.RequireWrite(); err != nil {
		return err
	}
	return u.RequireAccess(p)
}

// BranchFilter returns the branch reads must be restricted to, if any.
func (u ActingUser) BranchFilter() (uuid.UUID, bool) {
	if u.Permisos.Has(PermSucursalLimit) && u.Permisos.bits&PermAll == 0 {
		return u.SucursalID, true
	}
	return uuid.Nil, false
}

// ScopedBranch resolves the branch a write must land on. Branch-limited users
// always write to their own branch regardless of what the request says.
func (u ActingUser) ScopedBranch(requested uuid.UUID) uuid.UUID {
	if b, limited := u.BranchFilter(); limited {
		return b
	}
	if requested == uuid.Nil {
		return u.SucursalID
	}
	return requested
}
