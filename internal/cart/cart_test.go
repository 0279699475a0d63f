package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rentgear/go-rental-store/internal/booking"
	"github.com/rentgear/go-rental-store/internal/pricing"
)

func jan(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func chair() Item {
	return Item{ID: "l1", ProductID: "chair-1", Title: "Camp chair", Price: 200, Quantity: 1, StartAt: jan(1), EndAt: jan(3)}
}

func TestAddSameIDIncrementsQuantity(t *testing.T) {
	s := &Store{}
	s.Add(chair())
	s.Add(chair())
	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	s := &Store{}
	it := chair()
	it.Quantity = 0
	s.Add(it)
	require.Equal(t, 1, s.Items()[0].Quantity)
}

func TestUpdateQuantityBelowOneRejected(t *testing.T) {
	s := &Store{}
	s.Add(chair())
	require.ErrorIs(t, s.UpdateQuantity("l1", 0), ErrMinQuantity)
	require.Equal(t, 1, s.Items()[0].Quantity)
	require.ErrorIs(t, s.UpdateQuantity("nope", 2), ErrNotFound)
}

func TestRemove(t *testing.T) {
	s := &Store{}
	s.Add(chair())
	require.NoError(t, s.Remove("l1"))
	require.Empty(t, s.Items())
	require.ErrorIs(t, s.Remove("l1"), ErrNotFound)
}

func TestTotalMatchesPerLinePricing(t *testing.T) {
	s := &Store{}
	s.Add(Item{ID: "a", Price: 1000, Quantity: 2, StartAt: jan(1), EndAt: jan(4)})  // 72h, 10% tier
	s.Add(Item{ID: "b", Price: 500, Quantity: 1, StartAt: jan(1), EndAt: jan(1).Add(3 * time.Hour)}) // short rental

	want := 0.0
	for _, it := range s.Items() {
		want += pricing.CalculateRentalDetails(it.Price, pricing.Hours(it.StartAt, it.EndAt)).Total * float64(it.Quantity)
	}
	require.Equal(t, want, s.Total())
}

func TestTotalRecomputedAfterMutation(t *testing.T) {
	s := &Store{}
	s.Add(Item{ID: "a", Price: 1000, Quantity: 1, StartAt: jan(1), EndAt: jan(3)})
	before := s.Total()

	require.NoError(t, s.UpdateQuantity("a", 3))
	require.Equal(t, before*3, s.Total())
}

func TestCheckLineFlagsWithoutReducing(t *testing.T) {
	p := booking.Product{ID: "chair-1", Quantity: 2, Available: true}
	bookings := []booking.BookingPeriod{
		{ProductID: "chair-1", Status: booking.StatusConfirmed, Quantity: 1, StartAt: jan(1), EndAt: jan(5)},
	}
	s := &Store{}
	it := chair()
	it.Quantity = 3
	s.Add(it)

	check := CheckLine(p, bookings, s.Items()[0])
	require.False(t, check.OK)
	require.Equal(t, 1, check.Available)
	// the stored quantity stays; the user must adjust explicitly
	require.Equal(t, 3, s.Items()[0].Quantity)
}
