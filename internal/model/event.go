package model

import "time"

// Event represents a ticketed occasion with a finite capacity.  The
// capacity ceiling (TotalTickets) never changes after creation; only
// AvailableTickets moves, and only through the inventory ledger in
// lockstep with booking creation and cancellation.  Events are never
// hard-deleted: IsDeleted marks them removed from the catalog while
// their booking history stays intact.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name of the event.
//  District         – city or district where the event takes place.
//  Date             – event date as stored (YYYY-MM-DD).
//  Venue            – venue description.
//  PriceCents       – price of one ticket in the smallest currency unit.
//  TotalTickets     – immutable capacity ceiling.
//  AvailableTickets – remaining capacity, 0 ≤ value ≤ TotalTickets.
//  Description      – free-form description shown in the catalog.
//  ImageURL         – promotional image reference.
//  IsDeleted        – soft-delete flag.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Event struct {
	ID               uint64    // events.id
	Name             string    // events.name
	District         string    // events.district
	Date             string    // events.event_date
	Venue            string    // events.venue
	PriceCents       uint32    // events.price_cents
	TotalTickets     uint32    // events.total_tickets
	AvailableTickets uint32    // events.available_tickets
	Description      string    // events.description
	ImageURL         string    // events.image_url
	IsDeleted        bool      // events.is_deleted
	CreatedAt        time.Time // events.created_at
	UpdatedAt        time.Time // events.updated_at
}
