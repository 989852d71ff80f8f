package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/security"
)

// RequireStaff gates a route behind the "role" JWTAuth stores in context.
// The coach has exactly one authenticated identity (internal/security's
// single staff role), so this checks a fixed constant rather than testing
// membership in a caller-supplied role set the way a multi-role system
// would need to.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != security.StaffRole {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
