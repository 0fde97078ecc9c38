package auth

import (
	"strings"
	"testing"
	"time"

	"integrafacturacion/internal/apierror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ── PermissionSet ────────────────────────────────────────────────────────────

func TestParsePermisos(t *testing.T) {
	s := ParsePermisos(`{"ventas":true,"compras":false,"desconocido":true}`)
	assert.True(t, s.Has(PermVentas))
	assert.False(t, s.Has(PermCompras))
	assert.Equal(t, []string{"ventas"}, s.Names())
}

func TestParsePermisos_MalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{"", "{", "[]", `{"ventas":"si"}`, "null"} {
		s := ParsePermisos(raw)
		assert.True(t, s.IsEmpty(), raw)
		assert.False(t, s.Has(PermVentas), raw)
	}
}

func TestHas_AllGrantsEverythingButReadOnly(t *testing.T) {
	s := NewPermissionSet(PermAll)
	for _, p := range []Permiso{PermVentas, PermCompras, PermUsuarios, PermSucursalLimit} {
		assert.True(t, s.Has(p), p.String())
	}
	assert.False(t, s.Has(PermSoloLectura))
}

func TestPermissionSet_JSONRoundTrip(t *testing.T) {
	s := NewPermissionSet(PermCaja, PermReportes, PermSucursalLimit)
	back := ParsePermisos(s.JSON())
	assert.Equal(t, s.Names(), back.Names())
}

// ── ActingUser ───────────────────────────────────────────────────────────────

func TestAuthorizeWrite_ReadOnlyVetoesEvenWithAll(t *testing.T) {
	u := ActingUser{ID: uuid.New(), Permisos: NewPermissionSet(PermAll, PermSoloLectura)}

	err := u.AuthorizeWrite(PermVentas)
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.CodeReadOnlyRole))

	// Reads are still allowed.
	assert.NoError(t, u.RequireAccess(PermVentas))
}

func TestAuthorizeWrite_ReadOnlyCheckedBeforeModule(t *testing.T) {
	u := ActingUser{Permisos: NewPermissionSet(PermSoloLectura)}
	err := u.AuthorizeWrite(PermCompras)
	assert.True(t, apierror.IsCode(err, apierror.CodeReadOnlyRole))
}

func TestAuthorizeWrite_MissingModule(t *testing.T) {
	u := ActingUser{Permisos: NewPermissionSet(PermVentas)}
	err := u.AuthorizeWrite(PermCompras)
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthorized))
	assert.NoError(t, u.AuthorizeWrite(PermVentas))
}

func TestScopedBranch(t *testing.T) {
	propia := uuid.New()
	otra := uuid.New()

	limitado := ActingUser{SucursalID: propia, Permisos: NewPermissionSet(PermProductos, PermSucursalLimit)}
	assert.Equal(t, propia, limitado.ScopedBranch(otra))
	b, ok := limitado.BranchFilter()
	assert.True(t, ok)
	assert.Equal(t, propia, b)

	libre := ActingUser{SucursalID: propia, Permisos: NewPermissionSet(PermProductos)}
	assert.Equal(t, otra, libre.ScopedBranch(otra))
	assert.Equal(t, propia, libre.ScopedBranch(uuid.Nil))
	_, ok = libre.BranchFilter()
	assert.False(t, ok)

	admin := ActingUser{SucursalID: propia, Permisos: NewPermissionSet(PermAll, PermSucursalLimit)}
	assert.Equal(t, otra, admin.ScopedBranch(otra))
}

// ── Passwords ────────────────────────────────────────────────────────────────

func TestHashPassword_Verify(t *testing.T) {
	h, err := HashPassword("s3creta")
	require.NoError(t, err)

	parts := strings.Split(h, ".")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], saltLen*2)
	assert.Len(t, parts[1], keyLen*2)

	assert.True(t, VerifyPassword("s3creta", h))
	assert.False(t, VerifyPassword("s3cretA", h))
}

func TestHashPassword_SaltIsRandom(t *testing.T) {
	a, err := HashPassword("igual")
	require.NoError(t, err)
	b, err := HashPassword("igual")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_FailsClosedOnGarbage(t *testing.T) {
	for _, stored := range []string{"", "sinpunto", "zz.zz", ".abcd", "abcd.", "$2a$invalid"} {
		assert.False(t, VerifyPassword("x", stored), stored)
	}
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("antigua"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword("antigua", string(h)))
	assert.False(t, VerifyPassword("nueva", string(h)))
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestTokenIssuer_RoundTrip(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	u := ActingUser{
		ID:         uuid.New(),
		Username:   "caja1",
		RolID:      uuid.New(),
		SucursalID: uuid.New(),
		Permisos:   NewPermissionSet(PermVentas, PermCaja),
	}

	tok, exp, err := iss.Issue(u, "ABCDEF0123456789")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.SucursalID, got.SucursalID)
	assert.True(t, got.Permisos.Has(PermCaja))
	assert.False(t, got.Permisos.Has(PermCompras))
	assert.Equal(t, "ABCDEF0123456789", claims.HWID)
}

func TestTokenIssuer_RejectsWrongSecretAndExpired(t *testing.T) {
	u := ActingUser{ID: uuid.New()}

	tok, _, err := NewTokenIssuer("otro", time.Hour).Issue(u, "")
	require.NoError(t, err)
	_, _, err = NewTokenIssuer("secret", time.Hour).Verify(tok)
	assert.True(t, apierror.IsCode(err, apierror.CodeUnauthenticated))

	old := NewTokenIssuer("secret", time.Hour)
	old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err = old.Issue(u, "")
	require.NoError(t, err)
	_, _, err = old.Verify(tok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expirado")
}

func TestTokenIssuer_MalformedPermisosBecomeEmpty(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	u := ActingUser{ID: uuid.New()}
	tok, _, err := iss.Issue(u, "")
	require.NoError(t, err)

	// Re-sign the same claims with a broken permission document.
	_, claims, err := iss.Verify(tok)
	require.NoError(t, err)
	claims.Permisos = "{not json"
	broken, err := signClaims(iss, claims)
	require.NoError(t, err)

	got, _, err := iss.Verify(broken)
	require.NoError(t, err)
	assert.True(t, got.Permisos.IsEmpty())
}

func signClaims(iss *TokenIssuer, c *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(iss.secret)
}
