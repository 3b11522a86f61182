package booking

import "math"

// Default surcharge values in cents, used when no explicit pricing
// configuration is supplied.
const (
	DefaultGuestFeeCents = 1500 // per-guest service fee
	DefaultCityTaxCents  = 700  // flat city tax per reservation
)

// PriceTable holds the fixed surcharges applied on top of the nightly
// category rate. All amounts are integer cents.
type PriceTable struct {
	GuestFeeCents uint32
	CityTaxCents  uint32
}

// DefaultPriceTable returns a PriceTable with the default surcharges.
func DefaultPriceTable() PriceTable {
	return PriceTable{GuestFeeCents: DefaultGuestFeeCents, CityTaxCents: DefaultCityTaxCents}
}

// Quote computes the total price for a stay:
//
//	nightlyRate * nights + guestFee * guests + cityTax
//
// It is a pure function: no I/O, no clock, same inputs always produce
// the same total. Non-positive nights, stays beyond maxStayNights and
// zero guests are rejected as validation errors, as is any total that
// would not fit the 32-bit cents column. The arithmetic runs in uint64
// so an over-limit total is detected instead of wrapping.
func (t PriceTable) Quote(nightlyRateCents uint32, nights int, guests uint32) (uint32, error) {
	if nights <= 0 {
		return 0, invalidf("stay must cover at least one night")
	}
	if nights > maxStayNights {
		return 0, invalidf("stay cannot exceed %d nights", maxStayNights)
	}
	if guests < 1 {
		return 0, invalidf("at least one guest is required")
	}
	nightsTotal := uint64(nightlyRateCents) * uint64(nights)
	feesTotal := uint64(t.GuestFeeCents) * uint64(guests)
	if nightsTotal > math.MaxUint32 || feesTotal > math.MaxUint32 ||
		nightsTotal+feesTotal+uint64(t.CityTaxCents) > math.MaxUint32 {
		return 0, invalidf("total price exceeds the supported range")
	}
	return uint32(nightsTotal + feesTotal + uint64(t.CityTaxCents)), nil
}
