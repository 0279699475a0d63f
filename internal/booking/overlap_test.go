package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsExclusiveBoundary(t *testing.T) {
	// adjacent intervals share only an endpoint: no overlap
	require.False(t, Overlaps(day(1), day(5), day(5), day(10)))
	require.False(t, Overlaps(day(5), day(10), day(1), day(5)))

	require.True(t, Overlaps(day(1), day(5), day(4), day(10)))
	require.True(t, Overlaps(day(4), day(10), day(1), day(5)))
	require.True(t, Overlaps(day(1), day(10), day(3), day(4))) // containment
	require.False(t, Overlaps(day(1), day(2), day(3), day(4)))
}

func TestOverlapsInclusiveBoundary(t *testing.T) {
	// calendar display counts the touching day as booked
	require.True(t, OverlapsInclusive(day(1), day(5), day(5), day(10)))
	require.True(t, OverlapsInclusive(day(5), day(10), day(1), day(5)))
	require.False(t, OverlapsInclusive(day(1), day(2), day(3), day(4)))
}
