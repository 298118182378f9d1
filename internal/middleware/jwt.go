package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// GuestIdentity returns an Echo middleware that validates a Bearer
// token issued by the external identity collaborator and injects the
// token's subject into the request context as the opaque guest
// reference.  This service only verifies and reads tokens; it never
// issues them.  Handlers access the identity via c.Get("guest_ref").
func GuestIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 and the shared secret; reject any other
			// signing method so an attacker cannot downgrade to "none".
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			ref := guestRefFromClaims(claims)
			if ref == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token carries no subject"})
			}
			c.Set("guest_ref", ref)
			return next(c)
		}
	}
}
