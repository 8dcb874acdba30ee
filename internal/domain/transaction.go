package domain

import "time"

// RawTransaction represents one line item from the retail transaction export.
// Corresponds to raw_transactions table in PostgreSQL.
type RawTransaction struct {
	ID          int64      // BIGSERIAL primary key
	InvoiceID   string     // invoice number, shared by all lines of one basket
	StockCode   string     // product code
	Description string     // product description
	CustomerID  *string    // NULL for anonymous (point-of-sale) purchases
	Country     string     // shipping country as recorded on the invoice
	OrderDate   time.Time  // invoice date truncated to UTC midnight
	Quantity    int64      // signed; returns and cancellations are negative
	UnitPrice   float64    // price per unit in sterling
	CreatedAt   time.Time  // record creation timestamp
}

// LineRevenue returns the monetary value of the line.
// Negative for returns, matching the sign of Quantity.
func (t *RawTransaction) LineRevenue() float64 {
	return float64(t.Quantity) * t.UnitPrice
}
