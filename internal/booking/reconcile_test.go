package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	rows   []BookingPeriod
	forced []string
}

func (m *memStore) ListGrouped(ctx context.Context) ([]BookingPeriod, error) {
	var out []BookingPeriod
	for _, r := range m.rows {
		if r.OrderID != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ForceOrderStatus(ctx context.Context, orderID string, next Status) error {
	m.forced = append(m.forced, orderID)
	for i := range m.rows {
		if m.rows[i].OrderID == orderID {
			m.rows[i].Status = next
		}
	}
	return nil
}

func TestAnalyzeAndFixRepairsDriftedOrders(t *testing.T) {
	store := &memStore{rows: []BookingPeriod{
		{ID: "a", OrderID: "o1", Status: StatusConfirmed},
		{ID: "b", OrderID: "o1", Status: StatusPending},
		{ID: "c", OrderID: "o2", Status: StatusPending},
		{ID: "d", OrderID: "o2", Status: StatusPending},
		{ID: "e", OrderID: "o3", Status: StatusCompleted},
		{ID: "f", OrderID: "o3", Status: StatusCancelled},
		{ID: "g", Status: StatusPending}, // legacy row, not scanned
	}}
	rc := &Reconciler{Store: store}

	rep, err := rc.AnalyzeAndFix(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, rep.Analyzed)
	require.Equal(t, 2, rep.Fixed)
	require.Equal(t, []string{"o1", "o3"}, store.forced)

	require.Equal(t, "o1", rep.Fixes[0].OrderID)
	require.Equal(t, StatusConfirmed, rep.Fixes[0].Applied)
	require.ElementsMatch(t, []Status{StatusPending, StatusConfirmed}, rep.Fixes[0].Statuses)

	// highest priority wins even over cancelled
	require.Equal(t, StatusCompleted, rep.Fixes[1].Applied)

	for _, r := range store.rows {
		if r.OrderID == "o1" {
			require.Equal(t, StatusConfirmed, r.Status)
		}
	}
}

func TestAnalyzeAndFixIsIdempotent(t *testing.T) {
	store := &memStore{rows: []BookingPeriod{
		{ID: "a", OrderID: "o1", Status: StatusConfirmed},
		{ID: "b", OrderID: "o1", Status: StatusCancelled},
	}}
	rc := &Reconciler{Store: store}

	first, err := rc.AnalyzeAndFix(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Fixed)

	second, err := rc.AnalyzeAndFix(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, second.Analyzed)
	require.Zero(t, second.Fixed)
	require.Empty(t, second.Fixes)
}

func TestAnalyzeAndFixLeavesConsistentOrdersAlone(t *testing.T) {
	store := &memStore{rows: []BookingPeriod{
		{ID: "a", OrderID: "o1", Status: StatusConfirmed},
		{ID: "b", OrderID: "o1", Status: StatusConfirmed},
	}}
	rc := &Reconciler{Store: store}

	rep, err := rc.AnalyzeAndFix(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, rep.Analyzed)
	require.Zero(t, rep.Fixed)
	require.Empty(t, store.forced)
}
