package aggregation

import "retail-clv-lab/internal/domain"

// FilterStats counts orders dropped by the validity filter, by first failing
// predicate. Drops are expected (returns, cancellations, anonymous sales),
// not errors.
type FilterStats struct {
	MissingCustomer     int
	NonPositiveQuantity int
	NonPositiveRevenue  int
}

// Dropped returns the total number of dropped orders.
func (s FilterStats) Dropped() int {
	return s.MissingCustomer + s.NonPositiveQuantity + s.NonPositiveRevenue
}

// FilterValidOrders keeps orders with a known customer, positive total
// quantity and positive total revenue. Everything else is dropped silently.
func FilterValidOrders(orders []*domain.DailyOrder) ([]*domain.DailyOrder, FilterStats) {
	var stats FilterStats
	kept := make([]*domain.DailyOrder, 0, len(orders))

	for _, o := range orders {
		switch {
		case !o.HasCustomer():
			stats.MissingCustomer++
		case o.TotalQuantity <= 0:
			stats.NonPositiveQuantity++
		case o.TotalRevenue <= 0:
			stats.NonPositiveRevenue++
		default:
			kept = append(kept, o)
		}
	}

	return kept, stats
}
