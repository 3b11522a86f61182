package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// BookingHandler exposes the allocation and cancellation operations to
// authenticated guests. All methods assume JWT authentication and role
// validation have already run; they may return 401 when the guest ID
// cannot be extracted from the context.
type BookingHandler struct {
	Booking      *booking.Service
	Reservations *repository.ReservationRepo
}

// NewBookingHandler constructs a BookingHandler. Both dependencies must
// be non-nil.
func NewBookingHandler(svc *booking.Service, reservations *repository.ReservationRepo) *BookingHandler {
	if svc == nil || reservations == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Booking: svc, Reservations: reservations}
}

type createReservationReq struct {
	Category string `json:"category"`
	CheckIn  string `json:"check_in"`  // YYYY-MM-DD, inclusive
	CheckOut string `json:"check_out"` // YYYY-MM-DD, exclusive
	Guests   uint32 `json:"guests"`
}

// CreateReservation handles POST /v1/reservations. It runs the full
// allocation protocol and returns 201 with the committed reservation,
// 400 on validation failures, 409 when no room is available (an
// expected business outcome) and 503 when the ledger cannot be
// reached. Transient allocation conflicts are absorbed by the
// allocator's retry loop and never surface here.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
	guestID, err := getGuestID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createReservationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, err := parseDate(body.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
	}
	checkOut, err := parseDate(body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
	}

	res, err := h.Booking.Allocate(c.Request().Context(), booking.AllocationRequest{
		GuestID:  guestID,
		Category: body.Category,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   body.Guests,
	})
	if err != nil {
		if booking.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, booking.ErrNoAvailability) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no availability for the requested dates"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "reservation store unavailable"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": res.ID,
		"room_number":    res.RoomNumber,
		"category":       res.Category,
		"check_in":       res.CheckIn.Format(dateFormat),
		"check_out":      res.CheckOut.Format(dateFormat),
		"nights":         res.Nights(),
		"total_cents":    res.TotalCents,
		"status":         res.Status,
	})
}

// ListReservations handles GET /v1/my-reservations. It returns all
// reservations created by the current guest, newest first.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	guestID, err := getGuestID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByGuest(c.Request().Context(), guestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	out := make([]echo.Map, 0, len(items))
	for _, res := range items {
		out = append(out, echo.Map{
			"reservation_id": res.ID,
			"room_number":    res.RoomNumber,
			"category":       res.Category,
			"check_in":       res.CheckIn.Format(dateFormat),
			"check_out":      res.CheckOut.Format(dateFormat),
			"nights":         res.Nights(),
			"guests":         res.Guests,
			"total_cents":    res.TotalCents,
			"status":         res.Status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetReservation handles GET /v1/reservations/:id. A guest may only
// read their own reservations; admins may read any.
func (h *BookingHandler) GetReservation(c echo.Context) error {
	guestID, err := getGuestID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), resID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	if res.GuestID != guestID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": res.ID,
		"guest_id":       res.GuestID,
		"room_number":    res.RoomNumber,
		"category":       res.Category,
		"check_in":       res.CheckIn.Format(dateFormat),
		"check_out":      res.CheckOut.Format(dateFormat),
		"nights":         res.Nights(),
		"guests":         res.Guests,
		"total_cents":    res.TotalCents,
		"status":         res.Status,
	})
}

// CancelReservation handles DELETE /v1/reservations/:id. Only the
// owning guest or an admin may cancel; cancelling an already-cancelled
// reservation succeeds idempotently.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
	guestID, err := getGuestID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	err = h.Booking.Cancel(c.Request().Context(), resID, guestID, isAdmin(c))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"ack": true})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrNotCancellable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not cancellable"})
	default:
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "reservation store unavailable"})
	}
}
