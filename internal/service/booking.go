package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// BookingStore is the slice of booking persistence the core depends
// on. MarkCancelled and MarkUsed report whether the row actually
// transitioned; they are conditional updates, so under concurrent
// calls exactly one caller observes true.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
	MarkCancelled(ctx context.Context, id uint64) (bool, error)
	MarkUsed(ctx context.Context, id uint64) (bool, error)
}

// BookingService owns the booking lifecycle: creation against the
// inventory ledger and cancellation back into it. A booking has
// exactly two states, CONFIRMED on creation and CANCELLED as the
// terminal state; every transition is validated against current state
// before being applied.
type BookingService struct {
	ledger   *Ledger
	events   EventStore
	bookings BookingStore
	notify   Notifier
}

// NewBookingService constructs a BookingService. The notifier may be
// nil when no broker is configured; all other dependencies must be
// non-nil.
func NewBookingService(ledger *Ledger, events EventStore, bookings BookingStore, notify Notifier) *BookingService {
	if ledger == nil || events == nil || bookings == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{ledger: ledger, events: events, bookings: bookings, notify: notify}
}

// CreateBookingInput carries everything needed to book tickets. The
// caller identity and display name come from the identity gate; the
// attendee fields are optional and default to the caller booking for
// themselves.
type CreateBookingInput struct {
	CallerID       uint64
	CallerName     string
	EventID        uint64
	Quantity       uint32
	AttendeeName   string
	AttendeeMobile string
}

// Create books tickets for an event. The flow is reserve-then-insert:
// the ledger decrement is the atomic capacity gate, and if the booking
// row cannot be written afterwards the reservation is compensated with
// a release, so no partial outcome survives. The total amount is
// computed from the event price at booking time and frozen.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if in.Quantity < 1 {
		return nil, repository.ErrInvalidQuantity
	}
	ev, err := s.events.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if ev.IsDeleted {
		return nil, repository.ErrEventDeleted
	}

	name := strings.TrimSpace(in.AttendeeName)
	if name == "" {
		name = strings.TrimSpace(in.CallerName)
	}

	if err := s.ledger.Reserve(ctx, in.EventID, in.Quantity); err != nil {
		return nil, err
	}

	b := &model.Booking{
		UserID:         in.CallerID,
		BookedBy:       in.CallerID,
		EventID:        in.EventID,
		TicketCode:     uuid.NewString(),
		AttendeeName:   name,
		AttendeeMobile: strings.TrimSpace(in.AttendeeMobile),
		Quantity:       in.Quantity,
		AmountCents:    in.Quantity * ev.PriceCents,
		Status:         model.BookingConfirmed,
		IsUsed:         false,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		// Hand the reserved tickets back; the reservation must not
		// outlive a booking that was never recorded.
		if relErr := s.ledger.Release(ctx, in.EventID, in.Quantity); relErr != nil {
			log.Printf("booking: failed to compensate reservation of %d tickets on event %d: %v",
				in.Quantity, in.EventID, relErr)
		}
		return nil, err
	}
	if s.notify != nil {
		s.notify.BookingConfirmed(ctx, queue.BookingConfirmedEvent{
			BookingID:    b.ID,
			UserID:       b.UserID,
			EventID:      b.EventID,
			EventName:    ev.Name,
			AttendeeName: b.AttendeeName,
			Quantity:     b.Quantity,
			AmountCents:  b.AmountCents,
			BookedAt:     b.BookedAt.UTC().Format(time.RFC3339),
		})
	}
	return b, nil
}

// Cancel moves a booking to its terminal CANCELLED state and returns
// its tickets to the event. Only the booking's owner may cancel; there
// is no admin bypass. The status flip is the atomic guard: when it
// reports no transition the booking was already cancelled, and the
// inventory release is skipped so a double cancel can never restore
// tickets twice. The release itself is best-effort: once the booking
// is marked cancelled the cancellation stands even if the event row
// cannot be adjusted.
func (s *BookingService) Cancel(ctx context.Context, callerID, bookingID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != callerID {
		return nil, repository.ErrNotOwner
	}
	flipped, err := s.bookings.MarkCancelled(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, repository.ErrAlreadyCancelled
	}
	if err := s.ledger.Release(ctx, b.EventID, b.Quantity); err != nil {
		log.Printf("booking: cancelled booking %d but could not release %d tickets on event %d: %v",
			bookingID, b.Quantity, b.EventID, err)
	}
	b.Status = model.BookingCancelled
	b.IsUsed = false
	return b, nil
}

// ListForUser returns the caller's bookings joined with their events.
// Bookings whose event has been soft-deleted are omitted; the cascade
// already guarantees those are cancelled, and their catalog data is no
// longer visible.
func (s *BookingService) ListForUser(ctx context.Context, callerID uint64) ([]repository.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, callerID)
}
