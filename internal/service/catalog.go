package service

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// CatalogStore is the slice of catalog persistence the service depends
// on. DeleteEventCascade must be atomic: the soft-delete mark and the
// booking cancellations either all land or none do, and the event's
// available_tickets counter is never touched by it.
type CatalogStore interface {
	Create(ctx context.Context, ev *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	ListActive(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, ev *model.Event) error
	DeleteEventCascade(ctx context.Context, eventID uint64) (int64, error)
}

// CatalogService owns the event catalog: public browsing plus the
// admin create/update/delete operations. Deleting an event is always a
// soft delete with a booking cascade; the catalog never hard-deletes
// and never restores inventory for the cancelled bookings.
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService constructs a CatalogService over the given store.
func NewCatalogService(store CatalogStore) *CatalogService {
	if store == nil {
		panic("nil store passed to NewCatalogService")
	}
	return &CatalogService{store: store}
}

// List returns all events still visible in the catalog.
func (s *CatalogService) List(ctx context.Context) ([]model.Event, error) {
	return s.store.ListActive(ctx)
}

// Get loads one catalog entry. A soft-deleted event is reported as
// missing; callers that need the deleted row go through the event
// store directly.
func (s *CatalogService) Get(ctx context.Context, id uint64) (*model.Event, error) {
	ev, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.IsDeleted {
		return nil, repository.ErrEventNotFound
	}
	return ev, nil
}

// Create inserts a new event. The available pool starts equal to the
// total capacity; the store enforces that, and the ceiling cannot be
// changed afterwards.
func (s *CatalogService) Create(ctx context.Context, ev *model.Event) error {
	return s.store.Create(ctx, ev)
}

// Update persists catalog-field edits on an event the caller obtained
// via Get. Capacity counters are not part of the update statement.
func (s *CatalogService) Update(ctx context.Context, ev *model.Event) error {
	return s.store.Update(ctx, ev)
}

// Delete soft-deletes an event and cancels every booking on it in one
// transaction. The cancelled bookings keep their quantities out of the
// available pool: capacity of a deleted event is moot. Returns the
// number of bookings cancelled.
func (s *CatalogService) Delete(ctx context.Context, id uint64) (int64, error) {
	return s.store.DeleteEventCascade(ctx, id)
}
