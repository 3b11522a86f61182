package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// maxAllocateAttempts bounds the conflict retry loop. Under a
// thundering herd on a category with scarce rooms each retry scans a
// reduced candidate set, so a small budget is enough; exhausting it is
// reported as plain NoAvailability rather than retrying indefinitely.
const maxAllocateAttempts = 3

// notifyTimeout bounds a single fire-and-forget notification dispatch.
const notifyTimeout = 5 * time.Second

// maxStayNights caps the length of a single stay. Longer requests are
// rejected as validation errors before any ledger interaction.
const maxStayNights = 365

// Service orchestrates allocation and cancellation over the catalog,
// the ledger and the notifier. It holds no mutable booking state of
// its own; mutual exclusion lives entirely in the ledger's conditional
// writes, so concurrent requests for different rooms or non-overlapping
// dates proceed without any serialization here.
type Service struct {
	catalog  Catalog
	ledger   Ledger
	notifier Notifier
	prices   PriceTable

	now func() time.Time // injected for tests; defaults to time.Now

	notifications sync.WaitGroup
}

// NewService constructs a booking service. catalog and ledger must be
// non-nil; notifier may be nil, in which case notifications are
// silently skipped (useful for tooling).
func NewService(catalog Catalog, ledger Ledger, notifier Notifier, prices PriceTable) *Service {
	if catalog == nil || ledger == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		catalog:  catalog,
		ledger:   ledger,
		notifier: notifier,
		prices:   prices,
		now:      time.Now,
	}
}

// AllocationRequest carries the caller-supplied parameters of a booking
// request. GuestID comes from the authenticated session; the core
// trusts it as given.
type AllocationRequest struct {
	GuestID  uint64
	Category string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   uint32
}

// Allocate turns a booking request into exactly one CONFIRMED
// reservation or a clean rejection. The protocol is check-then-commit
// with bounded conflict retry:
//
//  1. validate input (fail fast, no ledger interaction),
//  2. ask the availability scan for a candidate room (a hint),
//  3. commit via the ledger's atomic conditional insert,
//  4. on ErrConflict exclude the contested room and rescan,
//  5. after maxAllocateAttempts report ErrNoAvailability.
//
// On success the total price has been computed and persisted with the
// reservation and a confirmation notification is dispatched
// asynchronously; a notification failure never affects the result.
func (s *Service) Allocate(ctx context.Context, req AllocationRequest) (model.Reservation, error) {
	if err := s.validateRequest(req); err != nil {
		return model.Reservation{}, err
	}
	rate, err := s.catalog.CategoryRate(ctx, req.Category)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return model.Reservation{}, invalidf("unknown category %q", req.Category)
		}
		return model.Reservation{}, err
	}
	nights := model.NightsBetween(req.CheckIn, req.CheckOut)
	total, err := s.prices.Quote(rate, nights, req.Guests)
	if err != nil {
		return model.Reservation{}, err
	}

	excluded := make(map[uint32]struct{})
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		roomNumber, found, err := s.findCandidate(ctx, req.Category, req.CheckIn, req.CheckOut, excluded)
		if err != nil {
			return model.Reservation{}, err
		}
		if !found {
			return model.Reservation{}, ErrNoAvailability
		}
		res := model.Reservation{
			GuestID:    req.GuestID,
			RoomNumber: roomNumber,
			Category:   req.Category,
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
			Guests:     req.Guests,
			TotalCents: total,
			Status:     model.StatusConfirmed,
		}
		if err := s.ledger.InsertIfNoOverlap(ctx, &res); err != nil {
			if errors.Is(err, ErrConflict) {
				// First committer won this room; take it out of the
				// candidate set and rescan.
				excluded[roomNumber] = struct{}{}
				continue
			}
			return model.Reservation{}, err
		}
		s.dispatch("confirmation", func(ctx context.Context) error {
			return s.notifier.ReservationConfirmed(ctx, res)
		})
		return res, nil
	}
	return model.Reservation{}, ErrNoAvailability
}

// validateRequest checks the caller-controlled fields. Date rules live
// in validateStay so the public availability probe shares them.
func (s *Service) validateRequest(req AllocationRequest) error {
	if req.GuestID == 0 {
		return invalidf("guest id is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return invalidf("category is required")
	}
	if req.Guests < 1 {
		return invalidf("at least one guest is required")
	}
	return s.validateStay(req.CheckIn, req.CheckOut)
}

// validateStay enforces the date constraints shared by allocation and
// availability queries: a non-empty half-open range starting today or
// later. A range with checkIn == checkOut covers zero nights and is
// rejected.
func (s *Service) validateStay(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return invalidf("check-in and check-out dates are required")
	}
	if !checkIn.Before(checkOut) {
		return invalidf("check-out must be after check-in")
	}
	if model.NightsBetween(checkIn, checkOut) > maxStayNights {
		return invalidf("stay cannot exceed %d nights", maxStayNights)
	}
	if checkIn.Before(s.today()) {
		return invalidf("check-in must be today or later")
	}
	return nil
}

// today returns the current UTC calendar day at midnight.
func (s *Service) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// dispatch runs a notification send in the background, bounded by
// notifyTimeout. Failures are logged and swallowed: the notification
// channel has its own failure domain and must never block or corrupt a
// reservation decision.
func (s *Service) dispatch(kind string, send func(context.Context) error) {
	if s.notifier == nil {
		return
	}
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Printf("booking: %s notification failed: %v", kind, err)
		}
	}()
}

// Flush waits for in-flight notification dispatches to finish. Called
// on shutdown so a stopping server does not drop confirmations that
// are already on their way out.
func (s *Service) Flush() {
	s.notifications.Wait()
}
