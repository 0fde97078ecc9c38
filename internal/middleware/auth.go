package middleware

import (
	"context"
	"strings"

	"integrafacturacion/internal/apierror"
	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/metrics"

	"github.com/gin-gonic/gin"
)

const (
	userKey = "acting_user"
	hwidKey = "hwid"

	DeviceIDHeader = "X-Device-ID"
)

// JWTAuth validates the Bearer token and stores the ActingUser and the
// token's device fingerprint. There is no anonymous fallback.
func JWTAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abort(c, apierror.Unauthenticated("Autenticacion requerida"))
			return
		}

		u, claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(userKey, u)
		c.Set(hwidKey, claims.HWID)
		c.Next()
	}
}

// SessionValidator is satisfied by service.AuthService.
type SessionValidator interface {
	ValidarSesion(ctx context.Context, u auth.ActingUser, hwid string) error
}

// SessionGuard runs after JWTAuth. The device header, when sent, must match
// the fingerprint the token was issued for; the validator then checks the
// licence and that the session is still the one recorded for the user.
func SessionGuard(v SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		hwid := GetHWID(c)
		if dev := strings.ToUpper(strings.TrimSpace(c.GetHeader(DeviceIDHeader))); dev != "" && hwid != "" && dev != hwid {
			metrics.SessionRejectionsTotal.WithLabelValues(string(apierror.CodeSessionConflict)).Inc()
			abort(c, apierror.SessionConflict())
			return
		}
		if err := v.ValidarSesion(c.Request.Context(), GetUser(c), hwid); err != nil {
			if e, ok := apierror.As(err); ok {
				metrics.SessionRejectionsTotal.WithLabelValues(string(e.Code)).Inc()
			}
			abort(c, err)
			return
		}
		c.Next()
	}
}

// GetUser returns the request's ActingUser; the zero value (no permissions)
// when JWTAuth did not run.
func GetUser(c *gin.Context) auth.ActingUser {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(auth.ActingUser); ok {
			return u
		}
	}
	return auth.ActingUser{}
}

func GetHWID(c *gin.Context) string {
	return c.GetString(hwidKey)
}

func abort(c *gin.Context, err error) {
	status, env := apierror.FromError(err)
	c.AbortWithStatusJSON(status, env)
}
