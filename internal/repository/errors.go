// Package repository implements persistence for rooms, reservations
// and guest accounts against MySQL. Port-facing methods (the booking
// Ledger and Catalog) return the booking package's sentinel errors so
// the domain layer never sees SQL details; the sentinels below cover
// repository-only failure cases such as duplicate provisioning.
package repository

import "errors"

// ErrCategoryExists is returned when provisioning a room category
// whose name is already taken. Handlers should translate this into an
// HTTP 409 response.
var ErrCategoryExists = errors.New("category already exists")

// ErrRoomExists is returned when provisioning a room whose number is
// already taken. Handlers should translate this into an HTTP 409
// response.
var ErrRoomExists = errors.New("room already exists")

// ErrRoomNotFound is returned when a room number does not exist or the
// room has been retired.
var ErrRoomNotFound = errors.New("room not found")

// ErrEmailExists is returned when registering an account with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
