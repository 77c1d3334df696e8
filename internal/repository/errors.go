// Package repository defines error values that are shared across the
// repositories and the service layer. These sentinel values allow
// higher layers such as handlers to distinguish between different
// failure scenarios and map each one to a stable HTTP response,
// instead of collapsing everything into a generic database error.
package repository

import "errors"

// ErrEventNotFound is returned when the referenced event does not
// exist at all. Handlers translate this into a 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrEventDeleted is returned when the referenced event exists but has
// been soft-deleted. From a customer's perspective it behaves like a
// missing event, but the ledger distinguishes the two so that a
// release can still restore capacity on a deleted event.
var ErrEventDeleted = errors.New("event deleted")

// ErrInsufficientCapacity is returned when a reservation asks for more
// tickets than the event has remaining.
var ErrInsufficientCapacity = errors.New("not enough tickets available")

// ErrInvalidQuantity is returned when a reservation or booking request
// carries a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrBookingNotFound is returned when the referenced booking does not
// exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotOwner is returned when the caller attempts an operation on a
// booking owned by someone else. Handlers translate this into 401.
var ErrNotOwner = errors.New("not booking owner")

// ErrAlreadyCancelled is returned when cancel is attempted on a
// booking that has already reached its terminal CANCELLED state. This
// guard is what prevents a second cancel from releasing inventory a
// second time.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrTicketNotValid is returned when redemption or download is
// attempted against a booking that is not in the CONFIRMED state.
var ErrTicketNotValid = errors.New("ticket not valid")

// ErrTicketAlreadyUsed is returned when a ticket is scanned or
// downloaded after it has already been redeemed.
var ErrTicketAlreadyUsed = errors.New("ticket already used")

// ErrEventNoLongerValid is returned when a ticket is scanned for an
// event that has since been soft-deleted.
var ErrEventNoLongerValid = errors.New("event no longer valid")
