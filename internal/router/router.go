// Package router wires the HTTP surface of spec.md §6 onto the shared
// Echo instance, grouping routes and middleware the way the teacher's
// router.go does.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
)

// Handlers bundles every handler the router needs to register routes.
type Handlers struct {
	Health      *handler.HealthHandler
	Reservation *handler.ReservationHandler
	Staff       *handler.StaffHandler
	Slip        *handler.SlipHandler
}

// Register wires every route from spec.md §6's external interfaces
// table. rateLimitMW is applied to the booking, cancellation and read
// endpoints and to the staff audit route; cacheMW only to the two read
// endpoints. The staff surface is also gated by jwtSecret and the "staff"
// role.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheMW, rateLimitMW echo.MiddlewareFunc) {
	e.GET("/v1/health", h.Health.Health)

	public := e.Group("/v1")
	public.Use(rateLimitMW)

	public.POST("/tickets", h.Reservation.Book)
	public.DELETE("/tickets/:id", h.Reservation.Cancel)

	reads := public.Group("")
	reads.Use(cacheMW)
	reads.GET("/availability", h.Reservation.Available)
	reads.GET("/tickets", h.Reservation.Booked)

	e.POST("/v1/staff/login", h.Staff.Login)

	staff := e.Group("/v1/staff")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireStaff())
	staff.Use(rateLimitMW)
	staff.GET("/audit", h.Staff.Audit)

	e.GET("/v1/tickets/:id/slip.pdf", h.Slip.Slip, middleware.JWTAuth(jwtSecret), middleware.RequireStaff())
}
