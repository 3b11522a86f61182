package booking

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// conflictLedger wraps the in-memory ledger and forces a number of
// conditional-insert conflicts per room before letting writes through,
// simulating races the single-threaded tests cannot produce naturally.
type conflictLedger struct {
	*memoryLedger
	mu     sync.Mutex
	forced map[uint32]int
}

func (l *conflictLedger) InsertIfNoOverlap(ctx context.Context, res *model.Reservation) error {
	l.mu.Lock()
	if n := l.forced[res.RoomNumber]; n > 0 {
		l.forced[res.RoomNumber] = n - 1
		l.mu.Unlock()
		return ErrConflict
	}
	l.mu.Unlock()
	return l.memoryLedger.InsertIfNoOverlap(ctx, res)
}

// failingLedger reports a store outage on every conditional insert.
type failingLedger struct {
	*memoryLedger
	err error
}

func (l *failingLedger) InsertIfNoOverlap(ctx context.Context, res *model.Reservation) error {
	return l.err
}

func TestAllocateConfirmsReservation(t *testing.T) {
	svc, catalog, ledger, notifier := newTestService()
	catalog.addCategory("deluxe", 20000)
	catalog.addRoom(301, "deluxe")

	res, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID:  42,
		Category: "deluxe",
		CheckIn:  day(2026, time.March, 10),
		CheckOut: day(2026, time.March, 13),
		Guests:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(301), res.RoomNumber)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Equal(t, 3, res.Nights())
	// 20000 * 3 + 1500 * 2 + 700
	assert.Equal(t, uint32(63700), res.TotalCents)
	assert.NotZero(t, res.ID)

	stored, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.TotalCents, stored.TotalCents)

	svc.Flush()
	confirmed, cancelled := notifier.counts()
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, cancelled)
}

func TestAllocateFillsRoomsInAscendingOrder(t *testing.T) {
	svc, catalog, _, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(102, "standard")
	catalog.addRoom(101, "standard")

	checkIn, checkOut := day(2026, time.March, 10), day(2026, time.March, 12)

	first, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard", CheckIn: checkIn, CheckOut: checkOut, Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(101), first.RoomNumber)

	second, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 2, Category: "standard", CheckIn: checkIn, CheckOut: checkOut, Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(102), second.RoomNumber)
}

func TestAllocateAdjacentStaysShareRoom(t *testing.T) {
	svc, catalog, _, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")

	first, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 12), Guests: 1,
	})
	require.NoError(t, err)

	second, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 2, Category: "standard",
		CheckIn: day(2026, time.March, 12), CheckOut: day(2026, time.March, 14), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, first.RoomNumber, second.RoomNumber)
}

func TestAllocateValidation(t *testing.T) {
	svc, catalog, _, notifier := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")

	base := AllocationRequest{
		GuestID:  1,
		Category: "standard",
		CheckIn:  day(2026, time.March, 10),
		CheckOut: day(2026, time.March, 12),
		Guests:   1,
	}

	cases := []struct {
		name   string
		mutate func(*AllocationRequest)
	}{
		{"missing guest id", func(r *AllocationRequest) { r.GuestID = 0 }},
		{"blank category", func(r *AllocationRequest) { r.Category = "  " }},
		{"unknown category", func(r *AllocationRequest) { r.Category = "penthouse" }},
		{"zero guests", func(r *AllocationRequest) { r.Guests = 0 }},
		{"zero-night stay", func(r *AllocationRequest) { r.CheckOut = r.CheckIn }},
		{"reversed dates", func(r *AllocationRequest) {
			r.CheckIn, r.CheckOut = r.CheckOut, r.CheckIn
		}},
		{"check-in in the past", func(r *AllocationRequest) {
			r.CheckIn = day(2026, time.February, 20)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := svc.Allocate(context.Background(), req)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}

	svc.Flush()
	confirmed, _ := notifier.counts()
	assert.Zero(t, confirmed, "rejected requests must not notify")
}

func TestAllocateRejectsExcessiveStay(t *testing.T) {
	svc, catalog, ledger, _ := newTestService()
	catalog.addCategory("standard", 20000)
	catalog.addRoom(101, "standard")

	checkIn := day(2026, time.March, 10)
	for _, days := range []int{maxStayNights + 1, 214749, 300000} {
		_, err := svc.Allocate(context.Background(), AllocationRequest{
			GuestID: 1, Category: "standard",
			CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, days), Guests: 1,
		})
		assert.True(t, IsValidation(err), "a %d-night stay must be rejected, got %v", days, err)
	}
	assert.Empty(t, ledger.snapshot(), "rejected stays must not reach the ledger")

	res, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, maxStayNights), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, maxStayNights, res.Nights())
	// 20000 * 365 + 1500 + 700
	assert.Equal(t, uint32(7302200), res.TotalCents)
}

func TestAllocateNoAvailability(t *testing.T) {
	svc, catalog, _, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")

	_, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 15), Guests: 1,
	})
	require.NoError(t, err)

	_, err = svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 2, Category: "standard",
		CheckIn: day(2026, time.March, 12), CheckOut: day(2026, time.March, 13), Guests: 1,
	})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestAllocateRetriesPastContestedRoom(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	catalog.addRoom(102, "standard")

	ledger := &conflictLedger{
		memoryLedger: newMemoryLedger(),
		forced:       map[uint32]int{101: 1},
	}
	notifier := &recordingNotifier{}
	svc := NewService(catalog, ledger, notifier, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }

	res, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 12), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(102), res.RoomNumber, "conflicted room must be excluded on retry")

	svc.Flush()
	confirmed, _ := notifier.counts()
	assert.Equal(t, 1, confirmed)
}

func TestAllocateConflictBudgetExhausted(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.addCategory("standard", 10000)
	for n := uint32(101); n <= 105; n++ {
		catalog.addRoom(n, "standard")
	}

	ledger := &conflictLedger{
		memoryLedger: newMemoryLedger(),
		forced:       map[uint32]int{101: 1, 102: 1, 103: 1, 104: 1, 105: 1},
	}
	svc := NewService(catalog, ledger, &recordingNotifier{}, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }

	_, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 12), Guests: 1,
	})
	assert.ErrorIs(t, err, ErrNoAvailability, "exhausted retries surface as no availability")
}

func TestAllocateSurfacesLedgerOutage(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")

	outage := errors.New("connection refused")
	ledger := &failingLedger{memoryLedger: newMemoryLedger(), err: outage}
	svc := NewService(catalog, ledger, &recordingNotifier{}, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }

	_, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 12), Guests: 1,
	})
	assert.ErrorIs(t, err, outage)
	assert.False(t, IsValidation(err))
	assert.NotErrorIs(t, err, ErrNoAvailability)
}

func TestAllocateLastRoomRace(t *testing.T) {
	svc, catalog, ledger, _ := newTestService()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")

	req := AllocationRequest{
		Category: "standard",
		CheckIn:  day(2026, time.March, 10),
		CheckOut: day(2026, time.March, 12),
		Guests:   1,
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := req
			r.GuestID = uint64(i + 1)
			_, errs[i] = svc.Allocate(context.Background(), r)
		}(i)
	}
	wg.Wait()

	var wins, rejections int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrNoAvailability):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one request gets the last room")
	assert.Equal(t, 1, rejections)
	assert.Len(t, ledger.snapshot(), 1)
}

func TestAllocateConcurrentNeverDoubleBooks(t *testing.T) {
	svc, catalog, ledger, _ := newTestService()
	catalog.addCategory("standard", 10000)
	for n := uint32(101); n <= 104; n++ {
		catalog.addRoom(n, "standard")
	}

	rng := rand.New(rand.NewSource(1))
	type stay struct{ in, out time.Time }
	stays := make([]stay, 32)
	for i := range stays {
		start := rng.Intn(10)               // day offset within a two-week window
		length := 1 + rng.Intn(4)           // one to four nights
		in := day(2026, time.March, 5+start) // all in the future relative to testNow
		stays[i] = stay{in: in, out: in.AddDate(0, 0, length)}
	}

	var wg sync.WaitGroup
	for i, st := range stays {
		wg.Add(1)
		go func(guest uint64, st stay) {
			defer wg.Done()
			_, err := svc.Allocate(context.Background(), AllocationRequest{
				GuestID: guest, Category: "standard",
				CheckIn: st.in, CheckOut: st.out, Guests: 1,
			})
			if err != nil && !errors.Is(err, ErrNoAvailability) {
				t.Errorf("guest %d: unexpected error: %v", guest, err)
			}
		}(uint64(i+1), st)
	}
	wg.Wait()

	rows := ledger.snapshot()
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			a, b := rows[i], rows[j]
			if a.RoomNumber != b.RoomNumber {
				continue
			}
			if a.Status != model.StatusConfirmed || b.Status != model.StatusConfirmed {
				continue
			}
			assert.False(t, a.Overlaps(b.CheckIn, b.CheckOut),
				"room %d double-booked: [%s,%s) and [%s,%s)",
				a.RoomNumber,
				a.CheckIn.Format("2006-01-02"), a.CheckOut.Format("2006-01-02"),
				b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
		}
	}
}

func TestAllocateNotificationFailureDoesNotAffectResult(t *testing.T) {
	catalog := newMemoryCatalog()
	catalog.addCategory("standard", 10000)
	catalog.addRoom(101, "standard")
	ledger := newMemoryLedger()
	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc := NewService(catalog, ledger, notifier, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }

	res, err := svc.Allocate(context.Background(), AllocationRequest{
		GuestID: 1, Category: "standard",
		CheckIn: day(2026, time.March, 10), CheckOut: day(2026, time.March, 12), Guests: 1,
	})
	require.NoError(t, err)
	svc.Flush()

	stored, err := ledger.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, stored.Status)
}
