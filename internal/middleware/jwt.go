package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/security"
)

// JWTAuth returns an Echo middleware that validates the bearer token the
// staff login endpoint issued and stores its role in the request context.
// The railway domain has no passenger accounts (see
// internal/security.StaffClaims) — there is exactly one authenticated
// identity, so unlike a customer/owner system there is nothing else in the
// claims worth lifting into context beyond that role.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := security.ParseStaffToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
