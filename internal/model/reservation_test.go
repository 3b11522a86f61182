package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestNightsBetween(t *testing.T) {
	assert.Equal(t, 1, NightsBetween(date(2026, time.March, 10), date(2026, time.March, 11)))
	assert.Equal(t, 5, NightsBetween(date(2026, time.March, 10), date(2026, time.March, 15)))
	assert.Equal(t, 0, NightsBetween(date(2026, time.March, 10), date(2026, time.March, 10)))
}

func TestNightsBetweenLongRange(t *testing.T) {
	// Far beyond the ~292-year span a time.Duration can represent; the
	// count must stay exact instead of saturating.
	start := date(2026, time.March, 1)
	assert.Equal(t, 150000, NightsBetween(start, start.AddDate(0, 0, 150000)))
	assert.Equal(t, 214749, NightsBetween(start, start.AddDate(0, 0, 214749)))
}

func TestReservationNights(t *testing.T) {
	res := Reservation{CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 13)}
	assert.Equal(t, 3, res.Nights())
}

func TestReservationOverlaps(t *testing.T) {
	res := Reservation{CheckIn: date(2026, time.March, 10), CheckOut: date(2026, time.March, 12)}

	assert.True(t, res.Overlaps(date(2026, time.March, 11), date(2026, time.March, 13)))
	assert.True(t, res.Overlaps(date(2026, time.March, 9), date(2026, time.March, 11)))
	// Touching ranges do not overlap: check-out day equals check-in day.
	assert.False(t, res.Overlaps(date(2026, time.March, 12), date(2026, time.March, 14)))
	assert.False(t, res.Overlaps(date(2026, time.March, 8), date(2026, time.March, 10)))
}
