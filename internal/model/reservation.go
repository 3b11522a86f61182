package model

import "time"

// Reservation status enumeration as stored in reservations.status.
// CANCELLED is terminal: a cancelled reservation is never resurrected
// and its room is never reassigned retroactively.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Reservation records a guest's booking of a specific room for a
// half-open date range [CheckIn, CheckOut).  Nights and the total
// price are derived at allocation time and immutable once committed.
//
// Fields:
//  ID         – primary key identifier, generated on creation.
//  GuestID    – guest who made the reservation.
//  RoomNumber – physical room assigned to the reservation.
//  Category   – category name the room was booked under.
//  CheckIn    – arrival date, inclusive (UTC midnight).
//  CheckOut   – departure date, exclusive (UTC midnight).
//  Guests     – number of guests staying (>= 1).
//  TotalCents – total price in cents, fixed at commit time.
//  Status     – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64    // reservations.id
	GuestID    uint64    // reservations.guest_id
	RoomNumber uint32    // reservations.room_number
	Category   string    // reservations.category
	CheckIn    time.Time // reservations.check_in
	CheckOut   time.Time // reservations.check_out
	Guests     uint32    // reservations.guests
	TotalCents uint32    // reservations.total_cents
	Status     string    // reservations.status
	CreatedAt  time.Time // reservations.created_at
	UpdatedAt  time.Time // reservations.updated_at
}

// NightsBetween returns the number of nights between two UTC-midnight
// dates. The arithmetic runs on Unix seconds rather than a
// time.Duration, which would saturate on very long ranges.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int((checkOut.Unix() - checkIn.Unix()) / 86400)
}

// Nights returns the number of nights covered by the reservation.
func (r Reservation) Nights() int {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

// Overlaps reports whether the reservation's date range intersects the
// half-open interval [checkIn, checkOut).  Two ranges that merely touch
// (one ends the day the other starts) do not overlap.
func (r Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn)
}
