// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
)

// Handlers bundles everything the router needs to wire up the API.
type Handlers struct {
	Events    *handler.EventHandler
	Bookings  *handler.BookingHandler
	Tickets   *handler.TicketHandler
	Analytics *handler.AnalyticsHandler
}

// Register wires all routes onto the provided Echo instance. Public
// browse endpoints sit behind the response cache, everything sits
// behind the rate limiter, and the booking/ticket/admin groups sit
// behind the JWT identity gate. Admin-only groups additionally require
// the ADMIN role claim.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	// Health check for load balancers and monitoring; not rate limited.
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Public catalog browsing. Guests can inspect events before logging
	// in, so no JWT is applied; responses are cacheable.
	pub := e.Group("/v1/events", limiter, cache)
	pub.GET("", h.Events.ListEvents)
	pub.GET("/:id", h.Events.GetEvent)

	// Customer endpoints: any authenticated caller.
	auth := e.Group("/v1/bookings", limiter, middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.POST("", h.Bookings.CreateBooking)
	auth.GET("/my", h.Bookings.MyBookings)
	auth.PUT("/:id/cancel", h.Bookings.CancelBooking)
	auth.GET("/:id/ticket", h.Bookings.DownloadTicket)

	// Gate-staff scanning.
	tickets := e.Group("/v1/tickets", limiter, middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"))
	tickets.POST("/verify", h.Tickets.VerifyTicket)

	// Admin catalog management and dashboards.
	admin := e.Group("/v1/admin", limiter, middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"))
	admin.POST("/events", h.Events.CreateEvent)
	admin.PUT("/events/:id", h.Events.UpdateEvent)
	admin.DELETE("/events/:id", h.Events.DeleteEvent)
	admin.GET("/analytics", h.Analytics.Overview)
	admin.GET("/events/:id/analytics", h.Analytics.EventReport)
}
