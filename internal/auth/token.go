package auth

import (
	"errors"
	"time"

	"integrafacturacion/internal/apierror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the custom claims embedded in every access token.
// Permisos is the role's permission document serialised as a JSON string.
type Claims struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	RolID      string `json:"rol_id"`
	SucursalID string `json:"sucursal_id"`
	Permisos   string `json:"permisos"`
	HWID       string `json:"hwid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for u bound to the device fingerprint hwid.
func (t *TokenIssuer) Issue(u ActingUser, hwid string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		UserID:     u.ID.String(),
		Username:   u.Username,
		RolID:      u.RolID.String(),
		SucursalID: u.SucursalID.String(),
		Permisos:   u.Permisos.JSON(),
		HWID:       hwid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify validates signature and expiry and rebuilds the ActingUser.
// A malformed permission document degrades to the empty set.
func (t *TokenIssuer) Verify(tokenStr string) (ActingUser, *Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ActingUser{}, nil, apierror.Unauthenticated("Token expirado")
		}
		return ActingUser{}, nil, apierror.Unauthenticated("Token invalido")
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ActingUser{}, nil, apierror.Unauthenticated("Token mal formado")
	}
	// Role and branch ids are optional: a user without a branch is simply unscoped.
	rolID, _ := uuid.Parse(claims.RolID)
	sucursalID, _ := uuid.Parse(claims.SucursalID)

	u := ActingUser{
		ID:         uid,
		Username:   claims.Username,
		RolID:      rolID,
		SucursalID: sucursalID,
		Permisos:   ParsePermisos(claims.Permisos),
	}
	return u, claims, nil
}
