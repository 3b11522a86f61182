package booking

import (
	"context"
	"errors"
	"time"
)

// FindCandidateRoom answers "which room in this category is free for
// [checkIn, checkOut)?" by scanning active rooms in ascending
// room-number order and returning the first one with no overlapping
// CONFIRMED reservation. The ordering is a deliberate simplicity
// choice: deterministic and auditable, not load-balanced.
//
// The result is a hint, not a guarantee: under concurrency two callers
// may receive the same room. Correctness is enforced by the ledger's
// conditional insert at commit time, never here. The scan itself is
// read-only.
func (s *Service) FindCandidateRoom(ctx context.Context, category string, checkIn, checkOut time.Time) (uint32, bool, error) {
	if err := s.validateStay(checkIn, checkOut); err != nil {
		return 0, false, err
	}
	if _, err := s.catalog.CategoryRate(ctx, category); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return 0, false, invalidf("unknown category %q", category)
		}
		return 0, false, err
	}
	return s.findCandidate(ctx, category, checkIn, checkOut, nil)
}

// findCandidate is the shared scan behind FindCandidateRoom and the
// allocator's retry loop. Rooms present in excluded are skipped; the
// allocator grows that set as conditional inserts report conflicts.
func (s *Service) findCandidate(ctx context.Context, category string, checkIn, checkOut time.Time, excluded map[uint32]struct{}) (uint32, bool, error) {
	rooms, err := s.catalog.ActiveRoomsByCategory(ctx, category)
	if err != nil {
		return 0, false, err
	}
	for _, room := range rooms {
		if _, skip := excluded[room.RoomNumber]; skip {
			continue
		}
		overlap, err := s.ledger.HasConfirmedOverlap(ctx, room.RoomNumber, checkIn, checkOut)
		if err != nil {
			return 0, false, err
		}
		if !overlap {
			return room.RoomNumber, true, nil
		}
	}
	return 0, false, nil
}
