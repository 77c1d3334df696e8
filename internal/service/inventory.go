// Package service implements the booking core: inventory accounting,
// the booking lifecycle and ticket redemption. Handlers stay thin and
// translate the sentinel errors defined in the repository package into
// HTTP responses.
package service

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// EventStore is the slice of event persistence the core depends on.
// Reserve and Release must be atomic per event: a concurrent pair of
// reserves may never jointly take more tickets than remain. The MySQL
// implementation achieves this with conditional single-row updates;
// test fakes mirror the same semantics under a mutex.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	Reserve(ctx context.Context, eventID uint64, quantity uint32) error
	Release(ctx context.Context, eventID uint64, quantity uint32) error
}

// Ledger is the sole arbiter of an event's available capacity. Every
// capacity movement in the system goes through Reserve or Release; no
// other code path touches the counter.
type Ledger struct {
	events EventStore
}

// NewLedger constructs a Ledger over the given event store.
func NewLedger(events EventStore) *Ledger {
	if events == nil {
		panic("nil event store passed to NewLedger")
	}
	return &Ledger{events: events}
}

// Reserve takes quantity tickets from the event. It validates the
// quantity before touching storage and otherwise defers entirely to
// the store's atomic conditional decrement.
func (l *Ledger) Reserve(ctx context.Context, eventID uint64, quantity uint32) error {
	if quantity < 1 {
		return repository.ErrInvalidQuantity
	}
	return l.events.Reserve(ctx, eventID, quantity)
}

// Release returns quantity tickets to the event. The store clamps the
// counter at the capacity ceiling and restores capacity even on
// soft-deleted events.
func (l *Ledger) Release(ctx context.Context, eventID uint64, quantity uint32) error {
	if quantity < 1 {
		return repository.ErrInvalidQuantity
	}
	return l.events.Release(ctx, eventID, quantity)
}
