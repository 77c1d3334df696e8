package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

func newBookingFixture(t *testing.T, ev model.Event) (*BookingService, *fakeEventStore, *fakeBookingStore, *fakeNotifier) {
	t.Helper()
	events := newFakeEventStore()
	events.add(ev)
	bookings := newFakeBookingStore(events)
	notify := &fakeNotifier{}
	svc := NewBookingService(NewLedger(events), events, bookings, notify)
	return svc, events, bookings, notify
}

func holiEvent() model.Event {
	return model.Event{
		ID:               1,
		Name:             "Holi Bash 2026",
		District:         "Pune",
		Date:             "2026-03-14",
		Venue:            "Open Ground, Hinjewadi",
		PriceCents:       499,
		TotalTickets:     500,
		AvailableTickets: 500,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, events, _, notify := newBookingFixture(t, holiEvent())

	b, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID:       7,
		CallerName:     "Asha",
		EventID:        1,
		Quantity:       2,
		AttendeeMobile: "9876543210",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != model.BookingConfirmed {
		t.Errorf("status = %q, want CONFIRMED", b.Status)
	}
	if b.IsUsed {
		t.Error("new booking must not be marked used")
	}
	if b.AmountCents != 998 {
		t.Errorf("amount = %d, want 998", b.AmountCents)
	}
	if b.UserID != 7 || b.BookedBy != 7 {
		t.Errorf("identity = (%d,%d), want (7,7)", b.UserID, b.BookedBy)
	}
	if b.AttendeeName != "Asha" {
		t.Errorf("attendee = %q, want caller's own name", b.AttendeeName)
	}
	if b.TicketCode == "" {
		t.Error("ticket code missing")
	}
	if got := events.available(1); got != 498 {
		t.Errorf("available = %d, want 498", got)
	}
	if len(notify.confirmed) != 1 || notify.confirmed[0].BookingID != b.ID {
		t.Errorf("expected one booking.confirmed event for booking %d", b.ID)
	}
}

func TestCreateBookingExplicitAttendee(t *testing.T) {
	svc, _, _, _ := newBookingFixture(t, holiEvent())

	b, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID:     7,
		CallerName:   "Asha",
		EventID:      1,
		Quantity:     1,
		AttendeeName: "  Ravi  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.AttendeeName != "Ravi" {
		t.Errorf("attendee = %q, want explicit name trimmed", b.AttendeeName)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	deleted := holiEvent()
	deleted.ID = 2
	deleted.IsDeleted = true

	svc, events, _, _ := newBookingFixture(t, holiEvent())
	events.add(deleted)

	cases := []struct {
		name string
		in   CreateBookingInput
		want error
	}{
		{"zero quantity", CreateBookingInput{CallerID: 7, EventID: 1, Quantity: 0}, repository.ErrInvalidQuantity},
		{"unknown event", CreateBookingInput{CallerID: 7, EventID: 99, Quantity: 1}, repository.ErrEventNotFound},
		{"deleted event", CreateBookingInput{CallerID: 7, EventID: 2, Quantity: 1}, repository.ErrEventDeleted},
		{"over capacity", CreateBookingInput{CallerID: 7, EventID: 1, Quantity: 501}, repository.ErrInsufficientCapacity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Errorf("Create = %v, want %v", err, tc.want)
			}
		})
	}
	if got := events.available(1); got != 500 {
		t.Errorf("available = %d after rejected bookings, want 500", got)
	}
}

func TestCreateBookingCompensatesFailedInsert(t *testing.T) {
	svc, events, bookings, notify := newBookingFixture(t, holiEvent())
	bookings.createErr = errors.New("insert failed")

	if _, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, EventID: 1, Quantity: 3,
	}); err == nil {
		t.Fatal("Create should fail when the booking row cannot be written")
	}
	if got := events.available(1); got != 500 {
		t.Errorf("available = %d, want reservation handed back (500)", got)
	}
	if len(notify.confirmed) != 0 {
		t.Error("no booking.confirmed event expected for a failed booking")
	}
}

func TestCreateBookingConcurrentNoOversell(t *testing.T) {
	ev := holiEvent()
	ev.AvailableTickets = 10
	svc, events, _, _ := newBookingFixture(t, ev)

	const workers = 20
	const qty = 2
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(caller uint64) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), CreateBookingInput{
				CallerID: caller, CallerName: "load", EventID: 1, Quantity: qty,
			})
			results <- err
		}(uint64(i + 1))
	}
	wg.Wait()
	close(results)

	var ok, full int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrInsufficientCapacity):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 5 || full != 15 {
		t.Errorf("successes = %d, rejections = %d; want exactly 5 and 15", ok, full)
	}
	if got := events.available(1); got != 0 {
		t.Errorf("available = %d, want 0", got)
	}
}

func TestCancelRestoresInventoryOnce(t *testing.T) {
	svc, events, _, _ := newBookingFixture(t, holiEvent())

	b, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 1, Quantity: 4,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := events.available(1); got != 496 {
		t.Fatalf("available = %d, want 496", got)
	}

	cancelled, err := svc.Cancel(context.Background(), 7, b.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != model.BookingCancelled {
		t.Errorf("status = %q, want CANCELLED", cancelled.Status)
	}
	if got := events.available(1); got != 500 {
		t.Errorf("available = %d after cancel, want 500", got)
	}

	if _, err := svc.Cancel(context.Background(), 7, b.ID); !errors.Is(err, repository.ErrAlreadyCancelled) {
		t.Errorf("second cancel = %v, want ErrAlreadyCancelled", err)
	}
	if got := events.available(1); got != 500 {
		t.Errorf("available = %d after rejected second cancel, want 500", got)
	}
}

func TestCancelOwnershipAndExistence(t *testing.T) {
	svc, _, _, _ := newBookingFixture(t, holiEvent())

	b, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), 8, b.ID); !errors.Is(err, repository.ErrNotOwner) {
		t.Errorf("foreign cancel = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Cancel(context.Background(), 7, 12345); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("missing booking cancel = %v, want ErrBookingNotFound", err)
	}
}

func TestCancelConcurrentSingleRelease(t *testing.T) {
	svc, events, _, _ := newBookingFixture(t, holiEvent())

	b, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 1, Quantity: 5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cancel(context.Background(), 7, b.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, already int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrAlreadyCancelled):
			already++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || already != 1 {
		t.Errorf("concurrent cancels: ok=%d already=%d, want exactly one of each", ok, already)
	}
	if got := events.available(1); got != 500 {
		t.Errorf("available = %d, want tickets restored exactly once (500)", got)
	}
}

func TestListForUserHidesDeletedEvents(t *testing.T) {
	second := holiEvent()
	second.ID = 2
	second.Name = "Garba Night"

	svc, events, _, _ := newBookingFixture(t, holiEvent())
	events.add(second)

	if _, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 1, Quantity: 1,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 2, Quantity: 1,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	events.markDeleted(2)

	items, err := svc.ListForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d bookings, want 1 (deleted event hidden)", len(items))
	}
	if items[0].EventID != 1 {
		t.Errorf("remaining booking references event %d, want 1", items[0].EventID)
	}
}

func TestListForUserOrdering(t *testing.T) {
	svc, _, _, _ := newBookingFixture(t, holiEvent())

	first, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateBookingInput{
		CallerID: 7, CallerName: "Asha", EventID: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), 7, second.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	items, err := svc.ListForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d bookings, want 2", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Errorf("order = [%d %d], want active booking %d before cancelled %d",
			items[0].ID, items[1].ID, first.ID, second.ID)
	}
}
