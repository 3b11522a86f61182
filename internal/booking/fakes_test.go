package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// day builds a UTC-midnight date, the same representation the handlers
// produce from wire dates.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// testNow is the frozen clock for the suite; all stays are booked
// relative to it.
var testNow = day(2026, time.March, 1)

// memoryCatalog is an in-memory Catalog implementation.
type memoryCatalog struct {
	rates map[string]uint32
	rooms map[string][]model.Room
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		rates: make(map[string]uint32),
		rooms: make(map[string][]model.Room),
	}
}

func (c *memoryCatalog) addCategory(name string, rateCents uint32) {
	c.rates[name] = rateCents
}

func (c *memoryCatalog) addRoom(number uint32, category string) {
	c.rooms[category] = append(c.rooms[category], model.Room{
		RoomNumber: number,
		IsActive:   true,
	})
}

func (c *memoryCatalog) CategoryRate(ctx context.Context, category string) (uint32, error) {
	rate, ok := c.rates[category]
	if !ok {
		return 0, ErrCategoryNotFound
	}
	return rate, nil
}

func (c *memoryCatalog) ActiveRoomsByCategory(ctx context.Context, category string) ([]model.Room, error) {
	out := make([]model.Room, 0, len(c.rooms[category]))
	for _, r := range c.rooms[category] {
		if r.IsActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

// memoryLedger is an in-memory Ledger. A single mutex makes the
// conditional primitives atomic, mirroring what the MySQL
// implementation achieves with row locks.
type memoryLedger struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Reservation
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{rows: make(map[uint64]model.Reservation)}
}

func (l *memoryLedger) InsertIfNoOverlap(ctx context.Context, res *model.Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range l.rows {
		if row.RoomNumber == res.RoomNumber &&
			row.Status == model.StatusConfirmed &&
			row.Overlaps(res.CheckIn, res.CheckOut) {
			return ErrConflict
		}
	}
	l.nextID++
	res.ID = l.nextID
	res.CreatedAt = testNow
	res.UpdatedAt = testNow
	l.rows[res.ID] = *res
	return nil
}

func (l *memoryLedger) TransitionStatus(ctx context.Context, reservationID uint64, from, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	row, ok := l.rows[reservationID]
	if !ok {
		return ErrNotFound
	}
	if row.Status != from {
		return ErrConflict
	}
	row.Status = to
	row.UpdatedAt = testNow
	l.rows[reservationID] = row
	return nil
}

func (l *memoryLedger) GetByID(ctx context.Context, reservationID uint64) (model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	row, ok := l.rows[reservationID]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return row, nil
}

func (l *memoryLedger) HasConfirmedOverlap(ctx context.Context, roomNumber uint32, checkIn, checkOut time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range l.rows {
		if row.RoomNumber == roomNumber &&
			row.Status == model.StatusConfirmed &&
			row.Overlaps(checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

// snapshot returns a copy of every stored reservation for assertions.
func (l *memoryLedger) snapshot() []model.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Reservation, 0, len(l.rows))
	for _, row := range l.rows {
		out = append(out, row)
	}
	return out
}

// recordingNotifier captures dispatched notifications. Callers must
// Flush() the service before reading the slices.
type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []model.Reservation
	cancelled []model.Reservation
	err       error
}

func (n *recordingNotifier) ReservationConfirmed(ctx context.Context, res model.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, res)
	return n.err
}

func (n *recordingNotifier) ReservationCancelled(ctx context.Context, res model.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, res)
	return n.err
}

func (n *recordingNotifier) counts() (confirmed, cancelled int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.confirmed), len(n.cancelled)
}

// newTestService wires a service over the in-memory fakes with a frozen
// clock.
func newTestService() (*Service, *memoryCatalog, *memoryLedger, *recordingNotifier) {
	catalog := newMemoryCatalog()
	ledger := newMemoryLedger()
	notifier := &recordingNotifier{}
	svc := NewService(catalog, ledger, notifier, DefaultPriceTable())
	svc.now = func() time.Time { return testNow }
	return svc, catalog, ledger, notifier
}
