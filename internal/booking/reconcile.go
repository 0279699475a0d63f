package booking

import (
	"context"
	"sort"
)

// Store is the subset of Repo the reconciler needs.
type Store interface {
	ListGrouped(ctx context.Context) ([]BookingPeriod, error)
	ForceOrderStatus(ctx context.Context, orderID string, next Status) error
}

type Fix struct {
	OrderID  string   `json:"order_id"`
	Statuses []Status `json:"statuses"` // distinct statuses found, display order
	Applied  Status   `json:"applied"`
}

type Report struct {
	Analyzed int   `json:"analyzed"`
	Fixed    int   `json:"fixed"`
	Fixes    []Fix `json:"fixes,omitempty"`
}

// Reconciler repairs orders whose line items drifted into mixed statuses.
// Line items are inserted as independent rows, so a partial status update
// can leave an order inconsistent; this is the on-demand recovery path.
type Reconciler struct {
	Store Store
}

// AnalyzeAndFix groups rows by order id and, for every group showing more
// than one distinct status, applies the highest-priority observed status to
// the whole group. Running it again with no intervening writes fixes
// nothing.
func (rc *Reconciler) AnalyzeAndFix(ctx context.Context) (Report, error) {
	rows, err := rc.Store.ListGrouped(ctx)
	if err != nil {
		return Report{}, err
	}

	groups := GroupByOrder(rows)
	orderIDs := make([]string, 0, len(groups))
	for id := range groups {
		orderIDs = append(orderIDs, id)
	}
	sort.Strings(orderIDs)

	var rep Report
	for _, id := range orderIDs {
		rep.Analyzed++
		distinct := distinctStatuses(groups[id])
		if len(distinct) < 2 {
			continue
		}
		winner := HighestPriority(distinct)
		if err := rc.Store.ForceOrderStatus(ctx, id, winner); err != nil {
			return rep, err
		}
		rep.Fixed++
		rep.Fixes = append(rep.Fixes, Fix{OrderID: id, Statuses: distinct, Applied: winner})
	}
	return rep, nil
}

func distinctStatuses(rows []BookingPeriod) []Status {
	seen := map[Status]bool{}
	for _, r := range rows {
		seen[r.Status] = true
	}
	var out []Status
	for _, s := range AllStatuses {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}
