// Package booking implements the allocation core: turning a booking
// request into exactly one confirmed reservation (or a clean rejection)
// while guaranteeing that no two confirmed reservations ever hold the
// same room on overlapping nights, even under concurrent load.
package booking

import (
	"errors"
	"fmt"
)

// ErrNoAvailability is returned when no room in the requested category
// is free for the requested dates, or when the conflict retry budget is
// exhausted under contention. It is an expected business outcome, not a
// system fault; handlers should translate it into an HTTP 409 response.
var ErrNoAvailability = errors.New("no availability")

// ErrConflict is returned by the ledger's conditional write primitives
// when the stated precondition no longer holds at commit time (another
// request won the race for the room, or a status transition raced).
// The allocator retries it internally; it never reaches a caller as a
// distinct outcome.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a reservation ID does not exist in the
// ledger. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("reservation not found")

// ErrForbidden is returned when a cancellation is attempted by someone
// who neither owns the reservation nor holds administrative authority.
// Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNotCancellable is returned when a reservation exists but is not in
// a state that permits cancellation (e.g. still PENDING). Cancelling an
// already-cancelled reservation is not an error; it succeeds
// idempotently.
var ErrNotCancellable = errors.New("reservation is not cancellable")

// ErrCategoryNotFound is returned by the catalog when a category name
// is unknown. The allocator converts it into a ValidationError.
var ErrCategoryNotFound = errors.New("category not found")

// ValidationError marks malformed booking input: bad dates, unknown
// category, non-positive guest count. Validation failures are never
// retried and are surfaced verbatim to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Reason }

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
