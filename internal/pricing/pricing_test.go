package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDiscountTiers(t *testing.T) {
	cases := []struct {
		name     string
		hours    float64
		total    float64
		subtotal float64
		discount float64
		pct      float64
	}{
		{"four hours fixed fraction", 4, 700, 1000, 300, 30},
		{"two days no tier", 48, 2000, 2000, 0, 0},
		{"three days ten percent", 72, 2700, 3000, 300, 10},
		{"five days thirty percent", 120, 3500, 5000, 1500, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := CalculateRentalDetails(1000, tc.hours)
			require.Equal(t, tc.total, d.Total)
			require.Equal(t, tc.subtotal, d.Subtotal)
			require.Equal(t, tc.discount, d.Discount)
			require.Equal(t, tc.pct, d.DayDiscount)
		})
	}
}

func TestShortRentalFixedFraction(t *testing.T) {
	for _, hours := range []float64{0.5, 1, 2, 3.5, 4} {
		d := CalculateRentalDetails(800, hours)
		require.Equal(t, 800*0.7, d.Total, "hours=%v", hours)
		require.Equal(t, float64(800), d.Subtotal)
		require.Equal(t, d.Total/4, d.HourlyRate)
	}
}

func TestDegenerateHoursUseShortBranch(t *testing.T) {
	for _, hours := range []float64{0, -3, math.NaN()} {
		d := CalculateRentalDetails(500, hours)
		require.Equal(t, 500*0.7, d.Total, "hours=%v", hours)
	}
}

// The effective per-day rate never increases as the rental gets longer.
func TestPerDayRateNonIncreasing(t *testing.T) {
	prev := math.Inf(1)
	for days := 1; days <= 30; days++ {
		d := CalculateRentalDetails(1000, float64(days)*24)
		rate := d.Total / float64(days)
		require.LessOrEqual(t, rate, prev, "days=%d", days)
		prev = rate
	}
}

func TestTotalNonDecreasingWithinTier(t *testing.T) {
	prev := 0.0
	for hours := 120.0; hours <= 480; hours += 24 { // all within the 30% tier
		d := CalculateRentalDetails(1000, hours)
		require.GreaterOrEqual(t, d.Total, prev, "hours=%v", hours)
		prev = d.Total
	}
}

func TestEntryPointsAgree(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for _, dur := range []time.Duration{
		2 * time.Hour, 4 * time.Hour, 5 * time.Hour,
		48 * time.Hour, 72 * time.Hour, 120 * time.Hour, 200 * time.Hour,
	} {
		end := start.Add(dur)
		want := CalculateRentalDetails(1250, Hours(start, end)).Total
		require.Equal(t, want, CalculateRentalPrice(1250, start, end), "dur=%v", dur)
	}
}

func TestMissingDatesPriceZero(t *testing.T) {
	now := time.Now()
	require.Zero(t, CalculateRentalPrice(1000, time.Time{}, now))
	require.Zero(t, CalculateRentalPrice(1000, now, time.Time{}))
	require.Zero(t, CalculateRentalPrice(1000, time.Time{}, time.Time{}))
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "0", FormatPrice(0))
	require.Equal(t, "700", FormatPrice(700))
	require.Equal(t, "3,500", FormatPrice(3500))
	require.Equal(t, "12,500", FormatPrice(12500.4))
	require.Equal(t, "1,234,568", FormatPrice(1234567.8))
	require.Equal(t, "-3,500", FormatPrice(-3500))
}
