package router // registers the HTTP routes for the reservation API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth
// and the protected /v1/me endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("GUEST", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public browse endpoints. They carry no
// auth so prospective guests can inspect categories, rooms and
// availability before registering. The cache middleware (a pass-through
// when disabled) keeps repeat browse traffic off MySQL.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/categories", h.ListCategories, cache)
	e.GET("/v1/categories/:name/rooms", h.ListRooms, cache)
	e.GET("/v1/availability", h.CheckAvailability, cache)
}

// RegisterBooking registers the reservation endpoints. All of them
// require a valid access token; the rate limiter additionally throttles
// reservation creation so a single client cannot hammer the allocator.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("GUEST", "ADMIN"))

	g.POST("/reservations", h.CreateReservation, limiter)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.DELETE("/reservations/:id", h.CancelReservation)
}

// RegisterAdmin registers the catalog provisioning endpoints. Only
// admins may create categories and rooms or retire rooms.
func RegisterAdmin(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/categories", h.CreateCategory)
	g.POST("/rooms", h.CreateRoom)
	g.DELETE("/rooms/:number", h.RetireRoom)
}
