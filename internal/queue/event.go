// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for the notification dispatcher. Both queues are durable.
const (
	ConfirmedQueue = "reservation.confirmed"
	CancelledQueue = "reservation.cancelled"
)

// ReservationConfirmedEvent is published when a reservation commits.
// It carries enough information for downstream consumers to notify the
// guest or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	GuestID       uint64 `json:"guest_id"`
	RoomNumber    uint32 `json:"room_number"`
	Category      string `json:"category"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Nights        int    `json:"nights"`
	Guests        uint32 `json:"guests"`
	TotalCents    uint32 `json:"total_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ReservationCancelledEvent is the compensating message published when
// a reservation is cancelled, reversing the informational effect of the
// earlier confirmation.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	GuestID       uint64 `json:"guest_id"`
	RoomNumber    uint32 `json:"room_number"`
	Category      string `json:"category"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	CancelledAt   string `json:"cancelled_at"`
}
