// Package queue defines message payloads exchanged over the message broker
// and the publish/consume plumbing around them.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// created. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	EventID      uint64 `json:"event_id"`
	EventName    string `json:"event_name"`
	AttendeeName string `json:"attendee_name"`
	Quantity     uint32 `json:"quantity"`
	AmountCents  uint32 `json:"amount_cents"`
	BookedAt     string `json:"booked_at"`
}

// TicketRedeemedEvent is published when a ticket is scanned and
// accepted at the venue gate.
type TicketRedeemedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	EventID      uint64 `json:"event_id"`
	EventName    string `json:"event_name"`
	AttendeeName string `json:"attendee_name"`
	Quantity     uint32 `json:"quantity"`
	RedeemedAt   string `json:"redeemed_at"`
}
