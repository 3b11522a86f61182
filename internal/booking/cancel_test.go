package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func mustAllocate(t *testing.T, svc *Service, guestID uint64) model.Reservation {
	t.Helper()
	res, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: guestID, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 15), Guests: 2,
	})
	require.NoError(t, err)
	return res
}

func TestCancelByOwner(t *testing.T) {
	svc, catalog, ledger, notifier := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	res := mustAllocate(t, svc, 42)

	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42, false))

	stored, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)

	svc.Flush()
	confirmed, cancelled := notifier.counts()
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, cancelled)
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, catalog, _, notifier := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	res := mustAllocate(t, svc, 42)

	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42, false))
	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42, false))

	svc.Flush()
	_, cancelled := notifier.counts()
	assert.Equal(t, 1, cancelled, "repeat cancellation must not notify again")
}

func TestCancelForbiddenForStrangers(t *testing.T) {
	svc, catalog, ledger, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	res := mustAllocate(t, svc, 42)

	err := svc.Cancel(context.Background(), res.ID, 99, false)
	assert.ErrorIs(t, err, ErrForbidden)

	stored, gerr := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, gerr)
	assert.Equal(t, model.StatusConfirmed, stored.Status, "rejected cancel must not change state")
}

func TestCancelByAdmin(t *testing.T) {
	svc, catalog, ledger, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	res := mustAllocate(t, svc, 42)

	require.NoError(t, svc.Cancel(context.Background(), res.ID, 99, true))

	stored, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)
}

func TestCancelUnknownReservation(t *testing.T) {
	svc, _, _, _ := newTestService()
	err := svc.Cancel(context.Background(), 12345, 42, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelPendingIsNotCancellable(t *testing.T) {
	svc, catalog, ledger, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")

	res := model.Reservation{
		GuestID: 42, RoomNumber: 101, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 12),
		Guests: 1, Status: model.StatusPending,
	}
	require.NoError(t, ledger.InsertIfNoOverlap(context.Background(), &res))

	err := svc.Cancel(context.Background(), res.ID, 42, false)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelReleasesRoomForRebooking(t *testing.T) {
	svc, catalog, _, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	res := mustAllocate(t, svc, 42) // March 10 to 15

	// The only room is taken for the whole window.
	_, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 7, Category: "standard",
		CheckIn: day(2026, time.March, 12), CheckOut: day(2026, time.March, 14), Guests: 1,
	})
	require.ErrorIs(t, err, ErrNoAvailability)

	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42, false))

	rebooked, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 7, Category: "standard",
		CheckIn: day(2026, time.March, 12), CheckOut: day(2026, time.March, 14), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, res.RoomNumber, rebooked.RoomNumber)
}

// racingCancelLedger makes the first TransitionStatus call lose to a
// concurrent cancellation: the transition reports a conflict and the
// stored row is already CANCELLED by the time the caller re-reads it.
type racingCancelLedger struct {
	*memoryLedger
	raced bool
}

func (l *racingCancelLedger) TransitionStatus(ctx context.Context, reservationID uint64, from, to string) error {
	if !l.raced && from == model.StatusConfirmed && to == model.StatusCancelled {
		l.raced = true
		if err := l.memoryLedger.TransitionStatus(ctx, reservationID, from, to); err != nil {
			return err
		}
		return ErrConflict
	}
	return l.memoryLedger.TransitionStatus(ctx, reservationID, from, to)
}

// conflictThenOutageLedger reports a transition conflict and then fails
// the follow-up read, modelling a store that drops out mid-race.
type conflictThenOutageLedger struct {
	*memoryLedger
	outage error
	reads  int
}

func (l *conflictThenOutageLedger) TransitionStatus(ctx context.Context, reservationID uint64, from, to string) error {
	return ErrConflict
}

func (l *conflictThenOutageLedger) GetByID(ctx context.Context, reservationID uint64) (model.Reservation, error) {
	l.reads++
	if l.reads > 1 {
		return model.Reservation{}, l.outage
	}
	return l.memoryLedger.GetByID(ctx, reservationID)
}

func TestCancelSurfacesOutageDuringConflictReread(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	outage := errors.New("connection refused")
	ledger := &conflictThenOutageLedger{memoryLedger: newMemoryLedger(), outage: outage}
	svc := NewService(catalog, ledger, &recordingNotifier{}, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }

	res := mustAllocate(t, svc, 42)

	err := svc.Cancel(context.Background(), res.ID, 42, false)
	assert.ErrorIs(t, err, outage, "a store outage must not be reported as a state problem")
	assert.NotErrorIs(t, err, ErrNotCancellable)
}

func TestCancelRaceWithConcurrentCancelSucceeds(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	ledger := &racingCancelLedger{memoryLedger: newMemoryLedger()}
	notifier := &recordingNotifier{}
	svc := NewService(catalog, ledger, notifier, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }

	res := mustAllocate(t, svc, 42)

	// The transition loses the race but the reservation ends up
	// CANCELLED, which is the outcome the caller asked for.
	require.NoError(t, svc.Cancel(context.Background(), res.ID, 42, false))

	stored, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, stored.Status)
}
