package booking

import (
	"context"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Cancel transitions a reservation to CANCELLED and dispatches a
// compensating notification. Only the owning guest or an admin may
// cancel. Cancelling an already-cancelled reservation succeeds
// idempotently with no side effects and no duplicate notification.
//
// Releasing the room is implicit: once the status is CANCELLED the
// availability scan no longer counts the reservation, freeing the room
// for future requests over the same dates.
func (s *Service) Cancel(ctx context.Context, reservationID, requesterID uint64, admin bool) error {
	res, err := s.ledger.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.GuestID != requesterID && !admin {
		return ErrForbidden
	}
	switch res.Status {
	case model.StatusCancelled:
		return nil
	case model.StatusConfirmed:
		// fall through to the atomic transition
	default:
		return ErrNotCancellable
	}

	err = s.ledger.TransitionStatus(ctx, reservationID, model.StatusConfirmed, model.StatusCancelled)
	if errors.Is(err, ErrConflict) {
		// Lost a race. If a concurrent call already cancelled it the
		// outcome the caller asked for holds, so report success; any
		// other state is not cancellable. A failed re-read is a store
		// problem, not a state problem, and surfaces as such.
		current, gerr := s.ledger.GetByID(ctx, reservationID)
		if gerr != nil {
			return gerr
		}
		if current.Status == model.StatusCancelled {
			return nil
		}
		return ErrNotCancellable
	}
	if err != nil {
		return err
	}

	res.Status = model.StatusCancelled
	s.dispatch("cancellation", func(ctx context.Context) error {
		return s.notifier.ReservationCancelled(ctx, res)
	})
	return nil
}
