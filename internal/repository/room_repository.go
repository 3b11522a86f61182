package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomRepo provides access to the room catalog: categories with their
// nightly rates and the physical rooms tagged with them. The catalog
// changes slowly (provisioning and retirement only); rooms are never
// deleted while reservations reference them, they are retired via the
// is_active flag instead. Implements the booking Catalog port.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// CreateCategory provisions a room category and returns its ID.
// Duplicate names yield ErrCategoryExists.
func (r *RoomRepo) CreateCategory(ctx context.Context, name string, nightlyRateCents uint32) (uint64, error) {
	const q = `INSERT INTO room_categories (name, nightly_rate_cents) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, q, name, nightlyRateCents)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrCategoryExists
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListCategories returns all categories ordered by name.
func (r *RoomRepo) ListCategories(ctx context.Context) ([]model.RoomCategory, error) {
	const q = `SELECT id, name, nightly_rate_cents, created_at, updated_at
	           FROM room_categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RoomCategory, 0)
	for rows.Next() {
		var c model.RoomCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.NightlyRateCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryRate returns the nightly rate in cents for a category name,
// or booking.ErrCategoryNotFound when the name is unknown.
func (r *RoomRepo) CategoryRate(ctx context.Context, category string) (uint32, error) {
	const q = `SELECT nightly_rate_cents FROM room_categories WHERE name = ?`
	var rate uint32
	err := r.db.QueryRowContext(ctx, q, category).Scan(&rate)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, booking.ErrCategoryNotFound
	}
	if err != nil {
		return 0, err
	}
	return rate, nil
}

// CreateRoom provisions a physical room under an existing category
// (referenced by name) and returns its ID. Duplicate room numbers
// yield ErrRoomExists, unknown categories booking.ErrCategoryNotFound.
func (r *RoomRepo) CreateRoom(ctx context.Context, roomNumber uint32, category string) (uint64, error) {
	const catQ = `SELECT id FROM room_categories WHERE name = ?`
	var categoryID uint64
	err := r.db.QueryRowContext(ctx, catQ, category).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, booking.ErrCategoryNotFound
	}
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO rooms (room_number, category_id, is_active) VALUES (?, ?, 1)`
	result, err := r.db.ExecContext(ctx, q, roomNumber, categoryID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrRoomExists
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ActiveRoomsByCategory returns the active rooms of a category in
// ascending room-number order. The ordering matters: the availability
// scan relies on it for its deterministic tie-break.
func (r *RoomRepo) ActiveRoomsByCategory(ctx context.Context, category string) ([]model.Room, error) {
	const q = `SELECT r.id, r.room_number, r.category_id, r.is_active, r.created_at, r.updated_at
	           FROM rooms r
	           JOIN room_categories c ON c.id = r.category_id
	           WHERE c.name = ? AND r.is_active = 1
	           ORDER BY r.room_number ASC`
	rows, err := r.db.QueryContext(ctx, q, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.CategoryID, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RetireRoom marks a room inactive, excluding it from future
// allocation. Existing reservations keep referencing it. Returns
// ErrRoomNotFound when the room number is unknown.
func (r *RoomRepo) RetireRoom(ctx context.Context, roomNumber uint32) error {
	const q = `UPDATE rooms SET is_active = 0 WHERE room_number = ?`
	result, err := r.db.ExecContext(ctx, q, roomNumber)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		const existsQ = `SELECT EXISTS(SELECT 1 FROM rooms WHERE room_number = ?)`
		var exists bool
		if err := r.db.QueryRowContext(ctx, existsQ, roomNumber).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRoomNotFound
		}
	}
	return nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
