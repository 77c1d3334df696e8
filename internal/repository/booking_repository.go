package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// BookingRepo provides persistence for bookings. Status and is_used
// transitions are expressed as conditional single-row updates so the
// state checks and the writes cannot be separated by a concurrent
// request. All timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, booked_by, event_id, ticket_code,
	attendee_name, attendee_mobile, quantity, amount_cents, status,
	is_used, booked_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.BookedBy, &b.EventID, &b.TicketCode,
		&b.AttendeeName, &b.AttendeeMobile, &b.Quantity, &b.AmountCents,
		&b.Status, &b.IsUsed, &b.BookedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new booking row and populates the generated ID and
// timestamps on the provided model. The caller has already reserved
// inventory; a failure here is compensated by a release upstream.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(user_id, booked_by, event_id, ticket_code, attendee_name,
		 attendee_mobile, quantity, amount_cents, status, is_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.UserID, b.BookedBy, b.EventID, b.TicketCode, b.AttendeeName,
		b.AttendeeMobile, b.Quantity, b.AmountCents, b.Status, b.IsUsed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(r.db.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByID loads a single booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// BookingDetail is a booking joined with the catalog fields of its
// event. It is what customer-facing listings and the ticket document
// payload are built from, so its fields carry JSON tags; the model
// types stay untagged.
type BookingDetail struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	BookedBy       uint64    `json:"booked_by"`
	EventID        uint64    `json:"event_id"`
	TicketCode     string    `json:"ticket_code"`
	AttendeeName   string    `json:"attendee_name"`
	AttendeeMobile string    `json:"attendee_mobile"`
	Quantity       uint32    `json:"quantity"`
	AmountCents    uint32    `json:"amount_cents"`
	Status         string    `json:"status"`
	IsUsed         bool      `json:"is_used"`
	BookedAt       time.Time `json:"booked_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	EventName      string    `json:"event_name"`
	EventDistrict  string    `json:"event_district"`
	EventDate      string    `json:"event_date"`
	EventVenue     string    `json:"event_venue"`
	EventDeleted   bool      `json:"-"`
}

const bookingDetailQuery = `SELECT b.id, b.user_id, b.booked_by, b.event_id,
	b.ticket_code, b.attendee_name, b.attendee_mobile, b.quantity,
	b.amount_cents, b.status, b.is_used, b.booked_at, b.updated_at,
	e.name, e.district, e.event_date, e.venue, e.is_deleted
	FROM bookings b JOIN events e ON e.id = b.event_id`

func scanBookingDetail(row interface{ Scan(...any) error }) (*BookingDetail, error) {
	var d BookingDetail
	err := row.Scan(
		&d.ID, &d.UserID, &d.BookedBy, &d.EventID, &d.TicketCode,
		&d.AttendeeName, &d.AttendeeMobile, &d.Quantity, &d.AmountCents,
		&d.Status, &d.IsUsed, &d.BookedAt, &d.UpdatedAt,
		&d.EventName, &d.EventDistrict, &d.EventDate, &d.EventVenue,
		&d.EventDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail loads a booking together with its event. Unlike ListByUser
// it does not filter soft-deleted events; redemption needs to see the
// deleted flag to reject the ticket with the right error.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	const q = bookingDetailQuery + ` WHERE b.id = ?`
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByUser returns all bookings owned by a user, each joined with
// its event. Bookings whose event has been soft-deleted are filtered
// out in the query: the cascade already cancelled them and the catalog
// data they reference is gone from the public view. Active bookings
// sort before cancelled ones, newest first within each group.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = bookingDetailQuery + `
		WHERE b.user_id = ? AND e.is_deleted = 0
		ORDER BY (b.status = 'CANCELLED'), b.booked_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// MarkCancelled flips a booking from CONFIRMED to CANCELLED and clears
// the used flag in one conditional UPDATE. It reports whether the row
// actually transitioned: false means the booking was already in its
// terminal state, so the caller must not release inventory.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE bookings SET status = 'CANCELLED', is_used = 0
		WHERE id = ? AND status = 'CONFIRMED'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkUsed latches is_used on a confirmed, unused booking. The
// condition makes the check-and-set a single atomic step: when two
// scans of the same ticket race, exactly one sees a row transition and
// the other reports false.
func (r *BookingRepo) MarkUsed(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE bookings SET is_used = 1
		WHERE id = ? AND status = 'CONFIRMED' AND is_used = 0`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CascadeCancelByEventTx bulk-cancels every confirmed booking of an
// event within the scope of an existing transaction. This is the
// soft-delete code path: it deliberately bypasses the inventory
// ledger, since a deleted event's capacity is moot. Returns the number
// of bookings newly cancelled.
func (r *BookingRepo) CascadeCancelByEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) (int64, error) {
	const q = `UPDATE bookings SET status = 'CANCELLED'
		WHERE event_id = ? AND status = 'CONFIRMED'`
	res, err := tx.ExecContext(ctx, q, eventID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
