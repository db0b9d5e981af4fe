package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const clientIDHeader = "X-Client-ID"

// ClientID extracts the caller's self-assigned anonymous id into the request
// context. The id is declared, not verified: clients are distinguished, never
// authenticated.
func ClientID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := strings.TrimSpace(c.Request().Header.Get(clientIDHeader)); id != "" {
				c.Set("clientID", id)
			}
			return next(c)
		}
	}
}

// ClientIDFrom returns the id set by ClientID, or "" when the header was
// absent.
func ClientIDFrom(c echo.Context) string {
	id, _ := c.Get("clientID").(string)
	return id
}
