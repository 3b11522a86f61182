package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

const dateFormat = "2006-01-02"

// ReservationRepo is the durable reservation ledger. It owns the
// authoritative copy of every reservation and implements the booking
// Ledger port: creation goes through InsertIfNoOverlap and status
// changes through TransitionStatus; nothing else mutates a row's room
// or dates. All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to open their
// own transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// InsertIfNoOverlap commits a CONFIRMED reservation only if no existing
// CONFIRMED reservation on the same room overlaps the requested
// half-open range. Atomicity comes from locking the room's catalog row
// (SELECT ... FOR UPDATE) before re-checking the overlap: writers for
// the same room serialize on that lock while writers for different
// rooms proceed independently. On success the generated ID and DB
// timestamps are populated on res.
//
// A conflicting overlap, or a room retired between the availability
// scan and the commit, is reported as booking.ErrConflict so the
// allocator excludes the room and rescans.
func (r *ReservationRepo) InsertIfNoOverlap(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialize writers on this room. The row lock is held until
	// commit, so the overlap check below cannot race another insert
	// for the same room.
	const lockQ = `SELECT id FROM rooms WHERE room_number = ? AND is_active = 1 FOR UPDATE`
	var roomID uint64
	if err := tx.QueryRowContext(ctx, lockQ, res.RoomNumber).Scan(&roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrConflict
		}
		return err
	}

	const overlapQ = `SELECT EXISTS(
	                    SELECT 1 FROM reservations
	                    WHERE room_number = ? AND status = ?
	                      AND check_in < ? AND check_out > ?)`
	var overlaps bool
	err = tx.QueryRowContext(ctx, overlapQ,
		res.RoomNumber, model.StatusConfirmed,
		res.CheckOut.Format(dateFormat), res.CheckIn.Format(dateFormat),
	).Scan(&overlaps)
	if err != nil {
		return err
	}
	if overlaps {
		return booking.ErrConflict
	}

	const insertQ = `INSERT INTO reservations
	                 (guest_id, room_number, category, check_in, check_out, guests, total_cents, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, insertQ,
		res.GuestID, res.RoomNumber, res.Category,
		res.CheckIn.Format(dateFormat), res.CheckOut.Format(dateFormat),
		res.Guests, res.TotalCents, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Read the row back so DB-assigned timestamps land on the record.
	const selQ = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, selQ, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// TransitionStatus atomically moves a reservation from one status to
// another via a guarded UPDATE. When zero rows change it distinguishes
// a missing reservation (booking.ErrNotFound) from a status mismatch
// (booking.ErrConflict) with a follow-up existence check.
func (r *ReservationRepo) TransitionStatus(ctx context.Context, reservationID uint64, from, to string) error {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, to, reservationID, from)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	const existsQ = `SELECT EXISTS(SELECT 1 FROM reservations WHERE id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, existsQ, reservationID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return booking.ErrNotFound
	}
	return booking.ErrConflict
}

// GetByID returns a single reservation or booking.ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, reservationID uint64) (model.Reservation, error) {
	const q = `SELECT id, guest_id, room_number, category, check_in, check_out,
	                  guests, total_cents, status, created_at, updated_at
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&res.ID, &res.GuestID, &res.RoomNumber, &res.Category,
		&res.CheckIn, &res.CheckOut, &res.Guests, &res.TotalCents,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, booking.ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// HasConfirmedOverlap reports whether any CONFIRMED reservation on the
// room overlaps [checkIn, checkOut). Read-only; the availability scan
// uses it as an advisory answer and the allocator re-verifies at
// commit time.
func (r *ReservationRepo) HasConfirmedOverlap(ctx context.Context, roomNumber uint32, checkIn, checkOut time.Time) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM reservations
	             WHERE room_number = ? AND status = ?
	               AND check_in < ? AND check_out > ?)`
	var overlaps bool
	err := r.db.QueryRowContext(ctx, q,
		roomNumber, model.StatusConfirmed,
		checkOut.Format(dateFormat), checkIn.Format(dateFormat),
	).Scan(&overlaps)
	return overlaps, err
}

// ListByGuest returns all reservations created by a guest, newest
// first. When none exist an empty slice is returned.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, guest_id, room_number, category, check_in, check_out,
	                  guests, total_cents, status, created_at, updated_at
	           FROM reservations WHERE guest_id = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.GuestID, &res.RoomNumber, &res.Category,
			&res.CheckIn, &res.CheckOut, &res.Guests, &res.TotalCents,
			&res.Status, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
