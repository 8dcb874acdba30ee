package ingestion

import (
	"context"

	"retail-clv-lab/internal/domain"
)

// TransactionSource provides raw transaction line items from an external export.
type TransactionSource interface {
	// Fetch returns every parseable transaction. Records lacking a parseable
	// date, quantity or unit price are dropped and counted, not errored;
	// only source-level failures (unreadable file, missing columns) abort.
	Fetch(ctx context.Context) ([]*domain.RawTransaction, DropStats, error)
}

// DropStats counts records dropped during parsing, by first failing field.
type DropStats struct {
	ShortRow    int // wrong column count
	BadDate     int // unparseable invoice date
	BadQuantity int // non-numeric quantity
	BadPrice    int // non-numeric unit price
}

// Dropped returns the total number of dropped records.
func (s DropStats) Dropped() int {
	return s.ShortRow + s.BadDate + s.BadQuantity + s.BadPrice
}
