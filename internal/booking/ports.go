package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Catalog provides read access to room categories and physical rooms.
// The repository layer implements it against MySQL; tests supply an
// in-memory version.
type Catalog interface {
	// CategoryRate returns the nightly rate in cents for a category,
	// or ErrCategoryNotFound when the name is unknown.
	CategoryRate(ctx context.Context, category string) (uint32, error)

	// ActiveRoomsByCategory returns the active rooms of a category in
	// ascending room-number order. The ordering is part of the
	// contract: the availability scan depends on it for its
	// deterministic tie-break.
	ActiveRoomsByCategory(ctx context.Context, category string) ([]model.Room, error)
}

// Ledger is the durable, authoritative reservation store. It is the
// only mutable shared resource in the allocation path and must only be
// mutated through the two conditional primitives below; unconditional
// overwrites of a reservation's room or dates are disallowed.
type Ledger interface {
	// InsertIfNoOverlap commits res with status CONFIRMED only if no
	// existing CONFIRMED reservation for the same room overlaps
	// [res.CheckIn, res.CheckOut). The check and the insert are a
	// single atomic operation as observed by all callers. On success
	// the generated ID and timestamps are populated on res; when the
	// precondition fails it returns ErrConflict and writes nothing.
	InsertIfNoOverlap(ctx context.Context, res *model.Reservation) error

	// TransitionStatus atomically moves a reservation from one status
	// to another. It returns ErrConflict when the current status does
	// not match from, and ErrNotFound when the reservation does not
	// exist.
	TransitionStatus(ctx context.Context, reservationID uint64, from, to string) error

	// GetByID returns a reservation or ErrNotFound.
	GetByID(ctx context.Context, reservationID uint64) (model.Reservation, error)

	// HasConfirmedOverlap reports whether any CONFIRMED reservation on
	// the given room overlaps the half-open range [checkIn, checkOut).
	// The answer is advisory: it may be stale by the time the caller
	// acts on it, which is why InsertIfNoOverlap re-verifies.
	HasConfirmedOverlap(ctx context.Context, roomNumber uint32, checkIn, checkOut time.Time) (bool, error)
}

// Notifier dispatches confirmation and cancellation messages. It is
// best-effort: the booking core invokes it asynchronously and a failure
// is logged, never surfaced to the caller and never allowed to roll
// back a committed decision.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, res model.Reservation) error
	ReservationCancelled(ctx context.Context, res model.Reservation) error
}
