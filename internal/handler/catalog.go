package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// CatalogHandler exposes the room catalog: public browse endpoints for
// guests and provisioning endpoints for admins. The public surface is
// read-only and sits behind the response cache.
type CatalogHandler struct {
	Rooms   *repository.RoomRepo
	Booking *booking.Service
}

// NewCatalogHandler constructs a CatalogHandler. Both dependencies must
// be non-nil.
func NewCatalogHandler(rooms *repository.RoomRepo, svc *booking.Service) *CatalogHandler {
	if rooms == nil || svc == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Rooms: rooms, Booking: svc}
}

// ListCategories handles GET /v1/categories. It returns every category
// with its nightly rate.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Rooms.ListCategories(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
	}
	out := make([]echo.Map, 0, len(cats))
	for _, cat := range cats {
		out = append(out, echo.Map{
			"name":               cat.Name,
			"nightly_rate_cents": cat.NightlyRateCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListRooms handles GET /v1/categories/:name/rooms. It returns the
// active rooms of a category in ascending room-number order.
func (h *CatalogHandler) ListRooms(c echo.Context) error {
	category := c.Param("name")
	rooms, err := h.Rooms.ActiveRoomsByCategory(c.Request().Context(), category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	numbers := make([]uint32, 0, len(rooms))
	for _, r := range rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	return c.JSON(http.StatusOK, echo.Map{"category": category, "rooms": numbers})
}

// CheckAvailability handles GET /v1/availability. Query parameters:
// category, check_in, check_out (YYYY-MM-DD). The answer is the same
// advisory hint the allocator starts from; booking may still fail if a
// concurrent request takes the room first.
func (h *CatalogHandler) CheckAvailability(c echo.Context) error {
	category := c.QueryParam("category")
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
	}
	roomNumber, found, err := h.Booking.FindCandidateRoom(c.Request().Context(), category, checkIn, checkOut)
	if err != nil {
		if booking.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if !found {
		return c.JSON(http.StatusOK, echo.Map{"available": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": true, "room_number": roomNumber})
}

type createCategoryReq struct {
	Name             string `json:"name"`
	NightlyRateCents uint32 `json:"nightly_rate_cents"`
}

// CreateCategory handles POST /v1/admin/categories.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var body createCategoryReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.NightlyRateCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and nightly_rate_cents are required"})
	}
	id, err := h.Rooms.CreateCategory(c.Request().Context(), body.Name, body.NightlyRateCents)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": body.Name})
}

type createRoomReq struct {
	RoomNumber uint32 `json:"room_number"`
	Category   string `json:"category"`
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *CatalogHandler) CreateRoom(c echo.Context) error {
	var body createRoomReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomNumber == 0 || body.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and category are required"})
	}
	id, err := h.Rooms.CreateRoom(c.Request().Context(), body.RoomNumber, body.Category)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room already exists"})
		case errors.Is(err, booking.ErrCategoryNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "room_number": body.RoomNumber})
}

// RetireRoom handles DELETE /v1/admin/rooms/:number. Retired rooms are
// excluded from allocation but keep their reservation history.
func (h *CatalogHandler) RetireRoom(c echo.Context) error {
	number, err := strconv.ParseUint(c.Param("number"), 10, 32)
	if err != nil || number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room number"})
	}
	if err := h.Rooms.RetireRoom(c.Request().Context(), uint32(number)); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retire room"})
	}
	return c.NoContent(http.StatusNoContent)
}
