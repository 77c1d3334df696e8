package service

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/queue"
)

// Notifier receives domain events after their state change has been
// durably committed. Implementations must be best-effort: a failing
// broker never fails the request that produced the event.
type Notifier interface {
	BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent)
	TicketRedeemed(ctx context.Context, ev queue.TicketRedeemedEvent)
}
