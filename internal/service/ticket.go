package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// TicketService enforces the single-use guarantee on ticket
// credentials. A credential is honored at most once: the is_used latch
// only ever moves from false to true, and both redemption and document
// download re-check authoritative booking state rather than trusting
// anything carried inside the QR payload.
type TicketService struct {
	bookings BookingStore
	notify   Notifier
}

// NewTicketService constructs a TicketService over the given booking
// store. The notifier may be nil when no broker is configured.
func NewTicketService(bookings BookingStore, notify Notifier) *TicketService {
	if bookings == nil {
		panic("nil booking store passed to NewTicketService")
	}
	return &TicketService{bookings: bookings, notify: notify}
}

// Credential is the QR payload printed on a ticket. It is a plain
// correlation payload, not a secret: verification ignores everything
// except the booking id and re-reads the source of truth, so a forged
// payload buys nothing beyond what the booking id already grants.
type Credential struct {
	BookingID  uint64 `json:"booking_id"`
	TicketCode string `json:"ticket_code"`
	Event      string `json:"event"`
	Attendee   string `json:"attendee"`
}

// IssueCredential builds the QR payload string for a booking. The
// output is deterministic for a given booking.
func IssueCredential(d *repository.BookingDetail) (string, error) {
	raw, err := json.Marshal(Credential{
		BookingID:  d.ID,
		TicketCode: d.TicketCode,
		Event:      d.EventName,
		Attendee:   d.AttendeeName,
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// VerificationResult is what the scanning operator sees after a
// successful redemption.
type VerificationResult struct {
	BookingID uint64 `json:"booking_id"`
	Event     string `json:"event"`
	Attendee  string `json:"attendee"`
	Quantity  uint32 `json:"quantity"`
}

// Verify redeems a ticket at the venue gate. The pre-checks order the
// failure modes (missing booking, non-confirmed state, already used,
// deleted event) so the operator gets a precise message, and the final
// conditional latch makes the redemption race-safe: when two scans of
// the same ticket arrive together, the store transitions the row for
// exactly one of them; the loser re-reads the booking and reports the
// ticket as used, or as invalid when it was cancelled mid-scan.
func (s *TicketService) Verify(ctx context.Context, bookingID uint64) (*VerificationResult, error) {
	d, err := s.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.BookingConfirmed {
		return nil, repository.ErrTicketNotValid
	}
	if d.IsUsed {
		return nil, repository.ErrTicketAlreadyUsed
	}
	if d.EventDeleted {
		return nil, repository.ErrEventNoLongerValid
	}
	latched, err := s.bookings.MarkUsed(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !latched {
		// The booking changed between the pre-checks and the latch.
		// Re-read to tell a lost scan race from a concurrent
		// cancellation, which must be reported as an invalid ticket
		// rather than a used one.
		cur, err := s.bookings.GetDetail(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if cur.Status != model.BookingConfirmed {
			return nil, repository.ErrTicketNotValid
		}
		return nil, repository.ErrTicketAlreadyUsed
	}
	if s.notify != nil {
		s.notify.TicketRedeemed(ctx, queue.TicketRedeemedEvent{
			BookingID:    d.ID,
			EventID:      d.EventID,
			EventName:    d.EventName,
			AttendeeName: d.AttendeeName,
			Quantity:     d.Quantity,
			RedeemedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return &VerificationResult{
		BookingID: d.ID,
		Event:     d.EventName,
		Attendee:  d.AttendeeName,
		Quantity:  d.Quantity,
	}, nil
}

// TicketDocument is the payload handed to the document renderer. The
// renderer turns it into a downloadable artifact; this service never
// inspects the rendered bytes.
type TicketDocument struct {
	BookingID      uint64 `json:"booking_id"`
	AttendeeName   string `json:"attendee_name"`
	AttendeeMobile string `json:"attendee_mobile,omitempty"`
	Quantity       uint32 `json:"quantity"`
	AmountCents    uint32 `json:"amount_cents"`
	EventName      string `json:"event_name"`
	EventVenue     string `json:"event_venue"`
	EventDate      string `json:"event_date"`
	QRPayload      string `json:"qr_payload"`
}

// PrepareDownload gates access to the ticket document. It succeeds
// only for the booking's owner while the booking is CONFIRMED and the
// ticket has not been redeemed; once a ticket is scanned, re-download
// is refused so a used ticket's QR cannot be redistributed.
func (s *TicketService) PrepareDownload(ctx context.Context, callerID, bookingID uint64) (*TicketDocument, error) {
	d, err := s.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.UserID != callerID {
		return nil, repository.ErrNotOwner
	}
	if d.Status != model.BookingConfirmed {
		return nil, repository.ErrTicketNotValid
	}
	if d.IsUsed {
		return nil, repository.ErrTicketAlreadyUsed
	}
	payload, err := IssueCredential(d)
	if err != nil {
		return nil, err
	}
	return &TicketDocument{
		BookingID:      d.ID,
		AttendeeName:   d.AttendeeName,
		AttendeeMobile: d.AttendeeMobile,
		Quantity:       d.Quantity,
		AmountCents:    d.AmountCents,
		EventName:      d.EventName,
		EventVenue:     d.EventVenue,
		EventDate:      d.EventDate,
		QRPayload:      payload,
	}, nil
}
