package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// TicketHandler exposes the gate-staff verification endpoint. The
// route is registered behind the ADMIN role middleware; by the time
// Verify runs, the caller is known to be staff.
type TicketHandler struct {
	Tickets *service.TicketService
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	if tickets == nil {
		panic("nil service passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets}
}

// VerifyTicket handles POST /v1/tickets/verify. The body is the
// scanned QR payload, of which only the booking id matters; the
// redemption engine re-checks booking state in the database and flips
// the one-way used latch. Two simultaneous scans of the same ticket
// yield exactly one success.
func (h *TicketHandler) VerifyTicket(c echo.Context) error {
	var body struct {
		BookingID uint64 `json:"booking_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}
	res, err := h.Tickets.Verify(c.Request().Context(), body.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid ticket"})
		case errors.Is(err, repository.ErrTicketNotValid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket not valid"})
		case errors.Is(err, repository.ErrTicketAlreadyUsed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket already used"})
		case errors.Is(err, repository.ErrEventNoLongerValid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "event no longer valid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "ticket verified successfully",
		"event":    res.Event,
		"attendee": res.Attendee,
		"quantity": res.Quantity,
	})
}
