package domain

import "time"

// DailyOrder represents all purchasing by one customer on one calendar day,
// collapsed across invoices and line items.
// Corresponds to daily_orders table in PostgreSQL (the "clean" table).
type DailyOrder struct {
	CustomerID    *string   // NULL until the validity filter drops anonymous groups
	OrderDate     time.Time // calendar day, UTC midnight
	Country       string    // last non-empty country among the day's lines
	TotalQuantity int64     // SUM(quantity) across the day's lines
	TotalRevenue  float64   // SUM(quantity * unit_price) across the day's lines
}

// HasCustomer reports whether the order is attributable to a known customer.
func (o *DailyOrder) HasCustomer() bool {
	return o.CustomerID != nil && *o.CustomerID != ""
}
