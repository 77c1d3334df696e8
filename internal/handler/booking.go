package handler

// This file defines the customer-facing booking endpoints: creating a
// booking, listing the caller's bookings, cancelling a booking and
// downloading the ticket document payload. JWT authentication has
// already run by the time these handlers execute; ownership checks
// happen in the service layer.

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// BookingHandler groups the services required for the booking
// lifecycle endpoints.
type BookingHandler struct {
	Bookings *service.BookingService
	Tickets  *service.TicketService
}

// NewBookingHandler constructs a BookingHandler. All dependencies must
// be non-nil.
func NewBookingHandler(bookings *service.BookingService, tickets *service.TicketService) *BookingHandler {
	if bookings == nil || tickets == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Tickets: tickets}
}

// bookingResponse is the JSON shape returned for a single booking.
// The model types carry no tags, so handlers own the wire format.
type bookingResponse struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	BookedBy       uint64    `json:"booked_by"`
	EventID        uint64    `json:"event_id"`
	TicketCode     string    `json:"ticket_code"`
	AttendeeName   string    `json:"attendee_name"`
	AttendeeMobile string    `json:"attendee_mobile"`
	Quantity       uint32    `json:"quantity"`
	AmountCents    uint32    `json:"amount_cents"`
	Status         string    `json:"status"`
	IsUsed         bool      `json:"is_used"`
	BookedAt       time.Time `json:"booked_at"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		BookedBy:       b.BookedBy,
		EventID:        b.EventID,
		TicketCode:     b.TicketCode,
		AttendeeName:   b.AttendeeName,
		AttendeeMobile: b.AttendeeMobile,
		Quantity:       b.Quantity,
		AmountCents:    b.AmountCents,
		Status:         b.Status,
		IsUsed:         b.IsUsed,
		BookedAt:       b.BookedAt,
	}
}

// CreateBooking handles POST /v1/bookings. The body carries the event
// id, quantity and optional attendee details; when no attendee name is
// given the booking is made in the caller's own name.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		EventID        uint64 `json:"event_id"`
		Quantity       uint32 `json:"quantity"`
		AttendeeName   string `json:"attendee_name"`
		AttendeeMobile string `json:"attendee_mobile"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}

	b, err := h.Bookings.Create(c.Request().Context(), service.CreateBookingInput{
		CallerID:       callerID,
		CallerName:     getUserName(c),
		EventID:        body.EventID,
		Quantity:       body.Quantity,
		AttendeeName:   body.AttendeeName,
		AttendeeMobile: body.AttendeeMobile,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound), errors.Is(err, repository.ErrEventDeleted):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not available"})
		case errors.Is(err, repository.ErrInvalidQuantity):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
		case errors.Is(err, repository.ErrInsufficientCapacity):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not enough tickets available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// MyBookings handles GET /v1/bookings/my. It returns the caller's
// bookings joined with event details, active bookings first, newest
// first. Bookings on deleted events are not included.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListForUser(c.Request().Context(), callerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

// CancelBooking handles PUT /v1/bookings/:id/cancel. Only the
// booking's owner may cancel, and a booking can only be cancelled
// once; the second attempt is rejected so inventory is never restored
// twice.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if _, err := h.Bookings.Cancel(c.Request().Context(), callerID, bookingID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrNotOwner):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, repository.ErrAlreadyCancelled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled successfully"})
}

// DownloadTicket handles GET /v1/bookings/:id/ticket. It returns the
// ticket document payload, including the QR credential, for the
// external renderer. The gate is strict: owner only, booking still
// CONFIRMED, ticket not yet scanned.
func (h *BookingHandler) DownloadTicket(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	doc, err := h.Tickets.PrepareDownload(c.Request().Context(), callerID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrNotOwner):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, repository.ErrTicketNotValid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket not valid"})
		case errors.Is(err, repository.ErrTicketAlreadyUsed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, doc)
}
