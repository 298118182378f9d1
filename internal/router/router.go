package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the public browse endpoints: the room
// category catalog and the availability check.  cacheMW may be a
// pass-through when Redis is unavailable; availability responses are
// snapshots, so short-TTL caching is acceptable here (commit re-checks
// transactionally).
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cacheMW echo.MiddlewareFunc) {
	g := e.Group("/v1/categories")
	if cacheMW != nil {
		g.Use(cacheMW)
	}
	g.GET("", h.ListCategories)
	g.GET("/:id", h.GetCategory)
	g.GET("/:id/availability", h.CheckAvailability)
}

// RegisterBooking registers the reservation-lifecycle endpoints under
// the guest-identity middleware.  rateMW guards the quote and commit
// paths against abusive callers; it may be a pass-through when Redis
// is unavailable.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rateMW echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.GuestIdentity(jwtSecret))
	if rateMW != nil {
		g.Use(rateMW)
	}

	g.POST("/quotes", h.Quote)
	g.GET("/quotes/pending", h.PendingIntent)
	g.DELETE("/quotes/pending", h.DiscardIntent)

	g.POST("/reservations", h.Commit)
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.POST("/reservations/:id/cancel", h.Cancel)
}
