package repository

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo provides persistence for events and is the sole writer of
// the available_tickets counter. Capacity changes go through Reserve
// and Release only; nothing else in the codebase issues an UPDATE
// against that column. All timestamp fields are assumed to be stored
// in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, name, district, event_date, venue, price_cents,
	total_tickets, available_tickets, description, image_url, is_deleted,
	created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var ev model.Event
	err := row.Scan(
		&ev.ID, &ev.Name, &ev.District, &ev.Date, &ev.Venue, &ev.PriceCents,
		&ev.TotalTickets, &ev.AvailableTickets, &ev.Description, &ev.ImageURL,
		&ev.IsDeleted, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create inserts a new event and populates the generated ID and
// timestamps on the provided model. Available capacity starts equal to
// the total capacity; the ceiling is immutable afterwards.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events
		(name, district, event_date, venue, price_cents, total_tickets,
		 available_tickets, description, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		ev.Name, ev.District, ev.Date, ev.Venue, ev.PriceCents,
		ev.TotalTickets, ev.TotalTickets, ev.Description, ev.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	// Query back the full row to populate defaults and timestamps.
	got, err := r.GetByID(ctx, ev.ID)
	if err != nil {
		return err
	}
	*ev = *got
	return nil
}

// GetByID loads an event regardless of its soft-delete flag. Callers
// that must not see deleted events check IsDeleted themselves, because
// several flows (release, cancel, analytics) legitimately need the
// deleted row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ListActive returns all events that have not been soft-deleted,
// newest first. This backs the public catalog listing.
func (r *EventRepo) ListActive(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events
		WHERE is_deleted = 0 ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// Update edits the catalog fields of an event. Capacity counters are
// deliberately not part of this statement: total_tickets is frozen at
// creation and available_tickets belongs to Reserve/Release.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	const q = `UPDATE events SET name = ?, district = ?, event_date = ?,
		venue = ?, price_cents = ?, description = ?, image_url = ?
		WHERE id = ? AND is_deleted = 0`
	res, err := r.db.ExecContext(ctx, q,
		ev.Name, ev.District, ev.Date, ev.Venue, ev.PriceCents,
		ev.Description, ev.ImageURL, ev.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// With clientFoundRows in the DSN, RowsAffected counts matched
		// rows, so zero means the event is missing or deleted rather
		// than merely unchanged.
		return ErrEventNotFound
	}
	return nil
}

// Reserve atomically takes quantity tickets from the event's available
// pool. The read-check-decrement happens in a single conditional
// UPDATE so two concurrent reservations can never both succeed past
// the remaining stock. When the update matches no row, the event is
// re-read once to classify the failure.
func (r *EventRepo) Reserve(ctx context.Context, eventID uint64, quantity uint32) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	const q = `UPDATE events
		SET available_tickets = available_tickets - ?
		WHERE id = ? AND is_deleted = 0 AND available_tickets >= ?`
	res, err := r.db.ExecContext(ctx, q, quantity, eventID, quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ev, err := r.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.IsDeleted {
		return ErrEventDeleted
	}
	return ErrInsufficientCapacity
}

// Release returns quantity tickets to the event's available pool,
// clamped so the counter never exceeds the capacity ceiling. In normal
// operation the clamp never engages because every release mirrors a
// prior successful reserve. Releasing against a soft-deleted event is
// allowed and logged: the ledger's job is correctness of the number,
// not catalog visibility.
func (r *EventRepo) Release(ctx context.Context, eventID uint64, quantity uint32) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	const q = `UPDATE events
		SET available_tickets = LEAST(total_tickets, available_tickets + ?)
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, quantity, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	if ev, err := r.GetByID(ctx, eventID); err == nil && ev.IsDeleted {
		log.Printf("inventory: released %d tickets on deleted event %d", quantity, eventID)
	}
	return nil
}

// SoftDeleteTx marks an event deleted within the scope of an existing
// transaction. The caller pairs it with the booking cascade in the
// same transaction so no new booking can be created against the event
// mid-cascade. Returns ErrEventNotFound when the event is missing or
// already deleted.
func (r *EventRepo) SoftDeleteTx(ctx context.Context, tx *sql.Tx, eventID uint64) error {
	const q = `UPDATE events SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`
	res, err := tx.ExecContext(ctx, q, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
