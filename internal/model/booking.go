package model

import "time"

// Booking statuses.  A booking starts CONFIRMED and may only move to
// CANCELLED, which is terminal.  There is no pending/payment-hold state.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking records one purchase transaction against an event.  The total
// amount is frozen at creation time (quantity × event price) and never
// recomputed, so later price edits do not affect past bookings.  IsUsed
// is the one-way redemption latch flipped by the ticket verifier at the
// venue gate.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – identity that owns the booking (the attendee's account).
//  BookedBy       – identity that performed the booking; differs from
//                   UserID only for staff-assisted bookings.
//  EventID        – event being booked.
//  TicketCode     – opaque code embedded in the QR payload.
//  AttendeeName   – name printed on the ticket.
//  AttendeeMobile – optional contact number, empty when not provided.
//  Quantity       – number of tickets, always ≥ 1.
//  AmountCents    – frozen total price in the smallest currency unit.
//  Status         – CONFIRMED or CANCELLED.
//  IsUsed         – whether the ticket has been scanned at entry.
//  BookedAt       – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	UserID         uint64    // bookings.user_id
	BookedBy       uint64    // bookings.booked_by
	EventID        uint64    // bookings.event_id
	TicketCode     string    // bookings.ticket_code
	AttendeeName   string    // bookings.attendee_name
	AttendeeMobile string    // bookings.attendee_mobile
	Quantity       uint32    // bookings.quantity
	AmountCents    uint32    // bookings.amount_cents
	Status         string    // bookings.status
	IsUsed         bool      // bookings.is_used
	BookedAt       time.Time // bookings.booked_at
	UpdatedAt      time.Time // bookings.updated_at
}
