package service

// In-memory store fakes for exercising the booking core without a
// database. They implement the same contract the MySQL repositories
// provide: Reserve/Release and the Mark* transitions behave like
// single atomic conditional updates, here enforced with a mutex.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

type fakeEventStore struct {
	mu     sync.Mutex
	events map[uint64]*model.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[uint64]*model.Event)}
}

func (f *fakeEventStore) add(ev model.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := ev
	f.events[ev.ID] = &cp
}

func (f *fakeEventStore) available(id uint64) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[id].AvailableTickets
}

func (f *fakeEventStore) markDeleted(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[id].IsDeleted = true
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeEventStore) Reserve(ctx context.Context, eventID uint64, quantity uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if ev.IsDeleted {
		return repository.ErrEventDeleted
	}
	if ev.AvailableTickets < quantity {
		return repository.ErrInsufficientCapacity
	}
	ev.AvailableTickets -= quantity
	return nil
}

func (f *fakeEventStore) Release(ctx context.Context, eventID uint64, quantity uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	restored := ev.AvailableTickets + quantity
	if restored > ev.TotalTickets {
		restored = ev.TotalTickets
	}
	ev.AvailableTickets = restored
	return nil
}

type fakeBookingStore struct {
	mu        sync.Mutex
	seq       uint64
	bookings  map[uint64]*model.Booking
	events    *fakeEventStore
	createErr error
}

func newFakeBookingStore(events *fakeEventStore) *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uint64]*model.Booking), events: events}
}

func (f *fakeBookingStore) Create(ctx context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	b.ID = f.seq
	b.BookedAt = time.Now().UTC()
	b.UpdatedAt = b.BookedAt
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) detailLocked(b *model.Booking) (*repository.BookingDetail, error) {
	ev, ok := f.events.events[b.EventID]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return &repository.BookingDetail{
		ID:             b.ID,
		UserID:         b.UserID,
		BookedBy:       b.BookedBy,
		EventID:        b.EventID,
		TicketCode:     b.TicketCode,
		AttendeeName:   b.AttendeeName,
		AttendeeMobile: b.AttendeeMobile,
		Quantity:       b.Quantity,
		AmountCents:    b.AmountCents,
		Status:         b.Status,
		IsUsed:         b.IsUsed,
		BookedAt:       b.BookedAt,
		UpdatedAt:      b.UpdatedAt,
		EventName:      ev.Name,
		EventDistrict:  ev.District,
		EventDate:      ev.Date,
		EventVenue:     ev.Venue,
		EventDeleted:   ev.IsDeleted,
	}, nil
}

func (f *fakeBookingStore) GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return f.detailLocked(b)
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	out := make([]repository.BookingDetail, 0)
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		d, err := f.detailLocked(b)
		if err != nil {
			return nil, err
		}
		if d.EventDeleted {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		ci := out[i].Status == model.BookingCancelled
		cj := out[j].Status == model.BookingCancelled
		if ci != cj {
			return !ci
		}
		if !out[i].BookedAt.Equal(out[j].BookedAt) {
			return out[i].BookedAt.After(out[j].BookedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeBookingStore) MarkCancelled(ctx context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != model.BookingConfirmed {
		return false, nil
	}
	b.Status = model.BookingCancelled
	b.IsUsed = false
	return true, nil
}

func (f *fakeBookingStore) MarkUsed(ctx context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != model.BookingConfirmed || b.IsUsed {
		return false, nil
	}
	b.IsUsed = true
	return true, nil
}

// fakeCatalog layers catalog semantics over the event and booking
// fakes. DeleteEventCascade mirrors the transactional repository
// method: mark deleted plus bulk cancel as one step, inventory
// untouched.
type fakeCatalog struct {
	events   *fakeEventStore
	bookings *fakeBookingStore
	seq      uint64
}

func newFakeCatalog(events *fakeEventStore, bookings *fakeBookingStore) *fakeCatalog {
	return &fakeCatalog{events: events, bookings: bookings}
}

func (f *fakeCatalog) Create(ctx context.Context, ev *model.Event) error {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	f.seq++
	ev.ID = f.seq
	ev.AvailableTickets = ev.TotalTickets
	ev.CreatedAt = time.Now().UTC()
	ev.UpdatedAt = ev.CreatedAt
	cp := *ev
	f.events.events[ev.ID] = &cp
	return nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return f.events.GetByID(ctx, id)
}

func (f *fakeCatalog) ListActive(ctx context.Context) ([]model.Event, error) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	out := make([]model.Event, 0)
	for _, ev := range f.events.events {
		if !ev.IsDeleted {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCatalog) Update(ctx context.Context, ev *model.Event) error {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	cur, ok := f.events.events[ev.ID]
	if !ok || cur.IsDeleted {
		return repository.ErrEventNotFound
	}
	cur.Name = ev.Name
	cur.District = ev.District
	cur.Date = ev.Date
	cur.Venue = ev.Venue
	cur.PriceCents = ev.PriceCents
	cur.Description = ev.Description
	cur.ImageURL = ev.ImageURL
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeCatalog) DeleteEventCascade(ctx context.Context, eventID uint64) (int64, error) {
	f.bookings.mu.Lock()
	defer f.bookings.mu.Unlock()
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	ev, ok := f.events.events[eventID]
	if !ok || ev.IsDeleted {
		return 0, repository.ErrEventNotFound
	}
	ev.IsDeleted = true

	var cancelled int64
	for _, b := range f.bookings.bookings {
		if b.EventID != eventID {
			continue
		}
		if b.Status != model.BookingCancelled {
			b.Status = model.BookingCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []queue.BookingConfirmedEvent
	redeemed  []queue.TicketRedeemedEvent
}

func (f *fakeNotifier) BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, ev)
}

func (f *fakeNotifier) TicketRedeemed(ctx context.Context, ev queue.TicketRedeemedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redeemed = append(f.redeemed, ev)
}
