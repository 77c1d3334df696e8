package repository

import (
	"context"
	"database/sql"
)

// AnalyticsRepo computes read-only rollups over bookings and events.
// Every figure is recomputed from the base tables on each call; there
// is no cached state to invalidate.
type AnalyticsRepo struct {
	db *sql.DB
}

// NewAnalyticsRepo returns a new AnalyticsRepo bound to the given database.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// OverviewStats aggregates booking activity across all events. Every
// figure is in ticket units: revenue and sold come from CONFIRMED
// bookings only, cancelled and scanned sum the quantities of bookings
// in those states.
type OverviewStats struct {
	TotalRevenueCents uint64 `json:"total_revenue_cents"`
	TicketsSold       uint64 `json:"tickets_sold"`
	CancelledTickets  uint64 `json:"cancelled_tickets"`
	ScannedTickets    uint64 `json:"scanned_tickets"`
}

// Overview computes the global dashboard figures in one aggregate query.
func (r *AnalyticsRepo) Overview(ctx context.Context) (*OverviewStats, error) {
	const q = `SELECT
		COALESCE(SUM(CASE WHEN status = 'CONFIRMED' THEN amount_cents ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'CONFIRMED' THEN quantity ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'CANCELLED' THEN quantity ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN is_used = 1 THEN quantity ELSE 0 END), 0)
		FROM bookings`
	var s OverviewStats
	err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TotalRevenueCents, &s.TicketsSold, &s.CancelledTickets, &s.ScannedTickets)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AttendeeEntry is one row of the per-event attendee roster shown to
// gate staff.
type AttendeeEntry struct {
	BookingID      uint64 `json:"booking_id"`
	AttendeeName   string `json:"attendee_name"`
	AttendeeMobile string `json:"attendee_mobile"`
	Quantity       uint32 `json:"quantity"`
	Status         string `json:"status"`
	IsUsed         bool   `json:"is_used"`
}

// EventStats aggregates booking activity for a single event, plus the
// attendee roster for operational display.
type EventStats struct {
	EventID         uint64          `json:"event_id"`
	EventName       string          `json:"event_name"`
	TotalTickets    uint32          `json:"total_tickets"`
	Sold            uint64          `json:"sold"`
	Remaining       uint32          `json:"remaining"`
	Cancelled       uint64          `json:"cancelled"`
	ScannedTickets  uint64          `json:"scanned_tickets"`
	RemainingToScan uint64          `json:"remaining_to_scan"`
	Attendees       []AttendeeEntry `json:"attendees"`
}

// EventReport computes the per-event rollup in ticket units: sold on
// CONFIRMED bookings, cancelled and scanned on bookings in those
// states. Remaining-to-scan is sold minus scanned floored at zero (a
// redeemed booking can later be cancelled, which would otherwise push
// the figure negative).
func (r *AnalyticsRepo) EventReport(ctx context.Context, eventID uint64) (*EventStats, error) {
	const head = `SELECT e.id, e.name, e.total_tickets, e.available_tickets,
		COALESCE(SUM(CASE WHEN b.status = 'CONFIRMED' THEN b.quantity ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN b.status = 'CANCELLED' THEN b.quantity ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN b.is_used = 1 THEN b.quantity ELSE 0 END), 0)
		FROM events e LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.id = ? GROUP BY e.id`
	var (
		s       EventStats
		scanned uint64
	)
	err := r.db.QueryRowContext(ctx, head, eventID).Scan(
		&s.EventID, &s.EventName, &s.TotalTickets, &s.Remaining,
		&s.Sold, &s.Cancelled, &scanned)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	s.ScannedTickets = scanned
	if s.Sold > scanned {
		s.RemainingToScan = s.Sold - scanned
	}

	const roster = `SELECT id, attendee_name, attendee_mobile, quantity,
		status, is_used FROM bookings WHERE event_id = ? ORDER BY booked_at, id`
	rows, err := r.db.QueryContext(ctx, roster, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	s.Attendees = make([]AttendeeEntry, 0)
	for rows.Next() {
		var a AttendeeEntry
		if err := rows.Scan(&a.BookingID, &a.AttendeeName, &a.AttendeeMobile,
			&a.Quantity, &a.Status, &a.IsUsed); err != nil {
			return nil, err
		}
		s.Attendees = append(s.Attendees, a)
	}
	return &s, rows.Err()
}
