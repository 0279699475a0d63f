package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rentgear/go-rental-store/internal/booking"
)

func TestSummary(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	p := booking.OrderPlacedPayload{
		OrderID: "o1",
		Customer: booking.Customer{
			Name: "Kim", Email: "kim@example.com", Phone: "+1 555 0100",
		},
		Lines: []booking.PlacedLine{
			{ProductID: "tent-1", Quantity: 2, StartAt: start, EndAt: start.Add(72 * time.Hour), TotalPrice: 5400},
		},
		Total: 5400,
	}
	s := Summary(p)
	require.Contains(t, s, "Kim <kim@example.com> +1 555 0100")
	require.Contains(t, s, "2x tent-1")
	require.Contains(t, s, "5,400")
	require.Contains(t, s, "Total: 5,400")
}

func TestShortID(t *testing.T) {
	require.Equal(t, "abcd", shortID("abcd"))
	require.Equal(t, "12345678", shortID("123456789abc"))
}
