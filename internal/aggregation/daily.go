package aggregation

import (
	"sort"

	"retail-clv-lab/internal/domain"
)

// nullCustomerKey groups anonymous lines together so they survive aggregation
// and are dropped by the validity filter, not here.
const nullCustomerKey = "\x00null"

// GroupDailyOrders collapses raw line items into one order per (customer, calendar day).
// Multiple invoices by the same customer on the same day merge into a single order.
//
// Aggregation for same (customer_id, order_date):
//   - total_quantity = SUM(quantity)
//   - total_revenue  = SUM(quantity * unit_price)
//   - country        = last non-empty country by (invoice_id, stock_code) line order
//
// Lines are folded in a canonical sort order, so output is identical for any
// permutation of the input.
func GroupDailyOrders(txs []*domain.RawTransaction) []*domain.DailyOrder {
	if len(txs) == 0 {
		return nil
	}

	sorted := make([]*domain.RawTransaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := customerKey(sorted[i].CustomerID), customerKey(sorted[j].CustomerID)
		if ci != cj {
			return ci < cj
		}
		if !sorted[i].OrderDate.Equal(sorted[j].OrderDate) {
			return sorted[i].OrderDate.Before(sorted[j].OrderDate)
		}
		if sorted[i].InvoiceID != sorted[j].InvoiceID {
			return sorted[i].InvoiceID < sorted[j].InvoiceID
		}
		return sorted[i].StockCode < sorted[j].StockCode
	})

	var result []*domain.DailyOrder
	var current *domain.DailyOrder
	var currentKey string

	for _, tx := range sorted {
		key := customerKey(tx.CustomerID)
		if current == nil || currentKey != key || !current.OrderDate.Equal(tx.OrderDate) {
			if current != nil {
				result = append(result, current)
			}
			current = &domain.DailyOrder{
				CustomerID:    copyCustomerID(tx.CustomerID),
				OrderDate:     tx.OrderDate,
				Country:       tx.Country,
				TotalQuantity: tx.Quantity,
				TotalRevenue:  tx.LineRevenue(),
			}
			currentKey = key
		} else {
			current.TotalQuantity += tx.Quantity
			current.TotalRevenue += tx.LineRevenue()
			if tx.Country != "" {
				current.Country = tx.Country
			}
		}
	}

	if current != nil {
		result = append(result, current)
	}

	return result
}

func customerKey(id *string) string {
	if id == nil || *id == "" {
		return nullCustomerKey
	}
	return *id
}

func copyCustomerID(id *string) *string {
	if id == nil {
		return nil
	}
	copied := *id
	return &copied
}
