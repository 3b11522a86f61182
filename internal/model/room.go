package model

import "time"

// RoomCategory describes a class of rooms sharing a nightly rate and
// amenities (e.g. "Deluxe Suite").  Rates are stored in integer cents
// to avoid floating point rounding in price calculations.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – unique category name.
//  NightlyRateCents – price per night in cents.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type RoomCategory struct {
	ID               uint64    // room_categories.id
	Name             string    // room_categories.name
	NightlyRateCents uint32    // room_categories.nightly_rate_cents
	CreatedAt        time.Time // room_categories.created_at
	UpdatedAt        time.Time // room_categories.updated_at
}

// Room describes a physical, uniquely numbered room in the hotel.
// The room number is immutable once provisioned; retired rooms are
// marked inactive rather than deleted so historical reservations keep
// a valid reference.
//
// Fields:
//  ID         – primary key identifier.
//  RoomNumber – unique, immutable room number.
//  CategoryID – category to which this room belongs.
//  IsActive   – whether the room participates in allocation.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    // rooms.id
	RoomNumber uint32    // rooms.room_number
	CategoryID uint64    // rooms.category_id
	IsActive   bool      // rooms.is_active
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
