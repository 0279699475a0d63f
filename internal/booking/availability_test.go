package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func tent(qty int) Product {
	return Product{ID: "tent-1", Title: "4-person tent", PricePerDay: 1200, Quantity: qty, Available: true}
}

func period(productID string, st Status, qty, startDay, endDay int) BookingPeriod {
	return BookingPeriod{
		ID: "b", ProductID: productID, Status: st, Quantity: qty,
		StartAt: day(startDay), EndAt: day(endDay),
	}
}

func TestAvailableQuantityNoWindow(t *testing.T) {
	bookings := []BookingPeriod{period("tent-1", StatusConfirmed, 3, 1, 10)}
	// no window selected: total owned, bookings ignored
	require.Equal(t, 3, AvailableQuantity(tent(3), bookings, time.Time{}, time.Time{}))
	require.Equal(t, 3, AvailableQuantity(tent(3), bookings, day(1), time.Time{}))
}

func TestAvailableQuantitySubtractsOverlapping(t *testing.T) {
	p := tent(5)
	bookings := []BookingPeriod{
		period("tent-1", StatusConfirmed, 2, 1, 5),
		period("tent-1", StatusPending, 1, 3, 8),
		period("tent-1", StatusCancelled, 4, 1, 10), // released units
		period("tent-1", StatusCompleted, 4, 1, 10), // returned units
		period("tent-1", StatusConfirmed, 2, 5, 9),  // adjacent to [1,5): no overlap
	}
	require.Equal(t, 2, AvailableQuantity(p, bookings, day(1), day(5)))
	require.Equal(t, 2, AvailableQuantity(p, bookings, day(4), day(5)))
	require.Equal(t, 5, AvailableQuantity(p, bookings, day(10), day(12)))
}

func TestAvailableQuantityClampsAtZero(t *testing.T) {
	p := tent(2)
	bookings := []BookingPeriod{
		period("tent-1", StatusConfirmed, 2, 1, 10),
		period("tent-1", StatusPending, 2, 2, 8),
	}
	require.Equal(t, 0, AvailableQuantity(p, bookings, day(3), day(6)))
}

func TestUnavailableFlagOverridesEverything(t *testing.T) {
	p := tent(10)
	p.Available = false
	require.Equal(t, 0, AvailableQuantity(p, nil, time.Time{}, time.Time{}))
	require.Equal(t, 0, AvailableQuantity(p, nil, day(1), day(5)))
	require.False(t, QuantityAvailable(p, nil, 1, day(1), day(5)))
}

func TestZeroQuantityRowsCountAsOne(t *testing.T) {
	p := tent(3)
	bookings := []BookingPeriod{
		period("tent-1", StatusConfirmed, 0, 1, 5), // legacy row, no quantity column
	}
	require.Equal(t, 2, AvailableQuantity(p, bookings, day(2), day(4)))
}

func TestQuantityAvailable(t *testing.T) {
	p := tent(3)
	bookings := []BookingPeriod{period("tent-1", StatusConfirmed, 2, 1, 5)}
	require.True(t, QuantityAvailable(p, bookings, 1, day(2), day(4)))
	require.False(t, QuantityAvailable(p, bookings, 2, day(2), day(4)))
	// requested below 1 defaults to 1
	require.True(t, QuantityAvailable(p, bookings, 0, day(2), day(4)))
}

func TestBookedDaysInclusiveBoundary(t *testing.T) {
	bookings := []BookingPeriod{
		period("tent-1", StatusConfirmed, 1, 3, 5),
		period("tent-1", StatusCancelled, 1, 8, 9),
	}
	days := BookedDays(bookings, day(1), day(9))
	var got []string
	for _, d := range days {
		got = append(got, d.Format("2006-01-02"))
	}
	// the end day shows as booked on the calendar even though [3,5) frees it
	require.Equal(t, []string{"2026-01-03", "2026-01-04", "2026-01-05"}, got)
}
