package booking

import "fmt"

// GroupByOrder groups line items by their explicit order id. Rows without
// one are skipped; see GroupLegacy.
func GroupByOrder(rows []BookingPeriod) map[string][]BookingPeriod {
	groups := make(map[string][]BookingPeriod)
	for _, r := range rows {
		if r.OrderID == "" {
			continue
		}
		groups[r.OrderID] = append(groups[r.OrderID], r)
	}
	return groups
}

// GroupLegacy is a compatibility shim for rows written before order ids
// existed: it groups by customer email plus the exact rental period. Every
// new write path assigns an explicit order id, so this only ever sees old
// data.
func GroupLegacy(rows []BookingPeriod) [][]BookingPeriod {
	keyed := make(map[string][]BookingPeriod)
	var order []string
	for _, r := range rows {
		if r.OrderID != "" {
			continue
		}
		k := fmt.Sprintf("%s|%d|%d", r.CustomerEmail, r.StartAt.Unix(), r.EndAt.Unix())
		if _, seen := keyed[k]; !seen {
			order = append(order, k)
		}
		keyed[k] = append(keyed[k], r)
	}
	out := make([][]BookingPeriod, 0, len(order))
	for _, k := range order {
		out = append(out, keyed[k])
	}
	return out
}
