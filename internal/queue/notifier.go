package queue

import "context"

// AuditNotifier forwards domain events to the message broker. Publish
// errors are already logged inside the publish helpers, so the methods
// simply drop them; the broker is an observer of state, never a
// participant in it.
type AuditNotifier struct{}

// BookingConfirmed publishes ev to the booking.confirmed queue.
func (AuditNotifier) BookingConfirmed(ctx context.Context, ev BookingConfirmedEvent) {
	_ = PublishBookingConfirmed(ctx, ev)
}

// TicketRedeemed publishes ev to the ticket.redeemed queue.
func (AuditNotifier) TicketRedeemed(ctx context.Context, ev TicketRedeemedEvent) {
	_ = PublishTicketRedeemed(ctx, ev)
}
