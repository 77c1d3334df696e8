package handler

// This file defines the event catalog endpoints. Browsing is public;
// creating, editing and deleting events is reserved for admins via the
// role middleware. Deleting an event is always a soft delete and
// cancels every booking on it in the same transaction, without
// restoring inventory, so no new booking can slip in mid-cascade.

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// EventHandler translates catalog requests into CatalogService calls.
type EventHandler struct {
	Catalog *service.CatalogService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(catalog *service.CatalogService) *EventHandler {
	if catalog == nil {
		panic("nil service passed to NewEventHandler")
	}
	return &EventHandler{Catalog: catalog}
}

// eventResponse is the JSON shape of a catalog entry.
type eventResponse struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	District         string    `json:"district"`
	Date             string    `json:"date"`
	Venue            string    `json:"venue"`
	PriceCents       uint32    `json:"price_cents"`
	TotalTickets     uint32    `json:"total_tickets"`
	AvailableTickets uint32    `json:"available_tickets"`
	Description      string    `json:"description"`
	ImageURL         string    `json:"image_url"`
	CreatedAt        time.Time `json:"created_at"`
}

func toEventResponse(ev *model.Event) eventResponse {
	return eventResponse{
		ID:               ev.ID,
		Name:             ev.Name,
		District:         ev.District,
		Date:             ev.Date,
		Venue:            ev.Venue,
		PriceCents:       ev.PriceCents,
		TotalTickets:     ev.TotalTickets,
		AvailableTickets: ev.AvailableTickets,
		Description:      ev.Description,
		ImageURL:         ev.ImageURL,
		CreatedAt:        ev.CreatedAt,
	}
}

// ListEvents handles GET /v1/events and returns all events that have
// not been soft-deleted.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Catalog.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]eventResponse, 0, len(events))
	for i := range events {
		items = append(items, toEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

// GetEvent handles GET /v1/events/:id. A soft-deleted event is
// indistinguishable from a missing one here.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Catalog.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toEventResponse(ev))
}

// eventBody is the write payload shared by create and update.
type eventBody struct {
	Name         string `json:"name"`
	District     string `json:"district"`
	Date         string `json:"date"`
	Venue        string `json:"venue"`
	PriceCents   uint32 `json:"price_cents"`
	TotalTickets uint32 `json:"total_tickets"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
}

// CreateEvent handles POST /v1/admin/events. The available pool starts
// equal to the total capacity; the ceiling cannot be changed later.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.TotalTickets < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_tickets must be at least 1"})
	}
	ev := &model.Event{
		Name:         body.Name,
		District:     strings.TrimSpace(body.District),
		Date:         strings.TrimSpace(body.Date),
		Venue:        strings.TrimSpace(body.Venue),
		PriceCents:   body.PriceCents,
		TotalTickets: body.TotalTickets,
		Description:  body.Description,
		ImageURL:     strings.TrimSpace(body.ImageURL),
	}
	if err := h.Catalog.Create(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create event"})
	}
	return c.JSON(http.StatusCreated, toEventResponse(ev))
}

// UpdateEvent handles PUT /v1/admin/events/:id. Catalog fields only:
// the capacity counters are owned by the inventory ledger and are not
// editable here, and past bookings keep their frozen totals even when
// the price changes.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	ev, err := h.Catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		ev.Name = name
	}
	if district := strings.TrimSpace(body.District); district != "" {
		ev.District = district
	}
	if date := strings.TrimSpace(body.Date); date != "" {
		ev.Date = date
	}
	if venue := strings.TrimSpace(body.Venue); venue != "" {
		ev.Venue = venue
	}
	if body.PriceCents > 0 {
		ev.PriceCents = body.PriceCents
	}
	if body.Description != "" {
		ev.Description = body.Description
	}
	if img := strings.TrimSpace(body.ImageURL); img != "" {
		ev.ImageURL = img
	}
	if err := h.Catalog.Update(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Catalog.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toEventResponse(updated))
}

// DeleteEvent handles DELETE /v1/admin/events/:id.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	cancelled, err := h.Catalog.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":            "event deleted and bookings cancelled",
		"bookings_cancelled": cancelled,
	})
}
