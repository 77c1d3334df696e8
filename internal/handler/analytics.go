package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/repository"
)

// AnalyticsHandler exposes the admin dashboards. Both endpoints are
// read-only rollups recomputed on demand; registration behind the
// ADMIN role middleware is the only access control they need.
type AnalyticsHandler struct {
	Stats *repository.AnalyticsRepo
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(stats *repository.AnalyticsRepo) *AnalyticsHandler {
	if stats == nil {
		panic("nil repository passed to NewAnalyticsHandler")
	}
	return &AnalyticsHandler{Stats: stats}
}

// Overview handles GET /v1/admin/analytics: confirmed revenue, tickets
// sold, cancelled bookings and scanned bookings across all events.
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	s, err := h.Stats.Overview(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, s)
}

// EventReport handles GET /v1/admin/events/:id/analytics: capacity,
// sold, remaining, cancellation and scan counts for one event plus the
// attendee roster for the gate staff.
func (h *AnalyticsHandler) EventReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	s, err := h.Stats.EventReport(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, s)
}
