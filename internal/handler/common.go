package handler

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

// getGuestRef extracts the opaque guest reference that the identity
// middleware stored in the context.  The reference is owned by the
// external identity collaborator; this service never interprets it.
func getGuestRef(c echo.Context) (string, error) {
	v := c.Get("guest_ref")
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
	}
	return "", errors.New("missing guest_ref in context")
}
