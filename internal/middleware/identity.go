package middleware

// identity.go holds claim-extraction helpers shared across middleware
// files.  The guest reference is whatever subject the external
// identity provider put in the token; "guest" is the anonymous
// fallback used by the cache and rate-limit key builders.

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// guestRefFromClaims pulls the subject (sub) or guest_ref claim out of
// a parsed token.  Returns "" when neither is present.
func guestRefFromClaims(claims jwt.MapClaims) string {
	if v, ok := claims["sub"].(string); ok && v != "" {
		return v
	}
	if v, ok := claims["guest_ref"].(string); ok && v != "" {
		return v
	}
	return ""
}

// callerID returns the guest reference stored in context, or "guest"
// when the request is unauthenticated.  Used for cache and rate-limit
// key strategies that partition by caller.
func callerID(c echo.Context) string {
	if v, ok := c.Get("guest_ref").(string); ok && v != "" {
		return v
	}
	return "guest"
}
