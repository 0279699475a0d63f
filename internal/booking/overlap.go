package booking

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open: intervals that merely touch at an endpoint do not overlap.
// This is the predicate for availability math.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsInclusive treats both ends as closed. Calendar cells use it so a
// day a booking ends on still shows as booked.
func OverlapsInclusive(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
