package repository

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// Catalog bundles the event and booking repositories behind one store
// for catalog operations. Its reason to exist is DeleteEventCascade,
// which spans both tables in a single transaction; the remaining
// methods delegate to the event repository so the service layer only
// depends on one store.
type Catalog struct {
	events   *EventRepo
	bookings *BookingRepo
}

// NewCatalog returns a Catalog over the given repositories. Both must
// share the same database handle.
func NewCatalog(events *EventRepo, bookings *BookingRepo) *Catalog {
	return &Catalog{events: events, bookings: bookings}
}

func (c *Catalog) Create(ctx context.Context, ev *model.Event) error {
	return c.events.Create(ctx, ev)
}

func (c *Catalog) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return c.events.GetByID(ctx, id)
}

func (c *Catalog) ListActive(ctx context.Context) ([]model.Event, error) {
	return c.events.ListActive(ctx)
}

func (c *Catalog) Update(ctx context.Context, ev *model.Event) error {
	return c.events.Update(ctx, ev)
}

// DeleteEventCascade marks the event deleted and bulk-cancels every
// booking on it in one transaction, so no new booking can be created
// against the event mid-cascade. Inventory is deliberately left
// untouched: a deleted event's capacity is moot and the cascade
// bypasses the ledger. Returns the number of bookings cancelled, or
// ErrEventNotFound when the event is missing or already deleted.
func (c *Catalog) DeleteEventCascade(ctx context.Context, eventID uint64) (int64, error) {
	tx, err := c.events.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := c.events.SoftDeleteTx(ctx, tx, eventID); err != nil {
		return 0, err
	}
	cancelled, err := c.bookings.CascadeCancelByEventTx(ctx, tx, eventID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return cancelled, nil
}
