package booking

import "time"

// Only pending and confirmed bookings hold units.
func holdsUnits(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// AvailableQuantity computes how many units of p are free for the window
// [start, end). A zero start or end means "no window selected" and returns
// the total owned quantity. The availability flag is a hard override.
// The result is aggregate only: no per-unit identity exists in the model.
func AvailableQuantity(p Product, bookings []BookingPeriod, start, end time.Time) int {
	if !p.Available {
		return 0
	}
	if start.IsZero() || end.IsZero() {
		return p.Quantity
	}
	booked := 0
	for _, b := range bookings {
		if !holdsUnits(b.Status) {
			continue
		}
		if Overlaps(start, end, b.StartAt, b.EndAt) {
			booked += b.Qty()
		}
	}
	if avail := p.Quantity - booked; avail > 0 {
		return avail
	}
	return 0
}

// QuantityAvailable reports whether requested units fit in the window.
func QuantityAvailable(p Product, bookings []BookingPeriod, requested int, start, end time.Time) bool {
	if requested < 1 {
		requested = 1
	}
	return AvailableQuantity(p, bookings, start, end) >= requested
}

// BookedDays lists the days in [from, to] that have at least one active
// booking, using the inclusive predicate so boundary days display as
// booked. Days are truncated to midnight in from's location.
func BookedDays(bookings []BookingPeriod, from, to time.Time) []time.Time {
	var days []time.Time
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for !day.After(to) {
		eod := day.Add(24*time.Hour - time.Nanosecond)
		for _, b := range bookings {
			if !holdsUnits(b.Status) {
				continue
			}
			if OverlapsInclusive(day, eod, b.StartAt, b.EndAt) {
				days = append(days, day)
				break
			}
		}
		day = day.Add(24 * time.Hour)
	}
	return days
}
