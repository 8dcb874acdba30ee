package aggregation

import (
	"context"
	"fmt"

	"retail-clv-lab/internal/storage"
)

// Runner loads the raw table, aggregates it to daily orders, applies the
// validity filter and writes the clean table.
type Runner struct {
	rawStore   storage.RawTransactionStore
	orderStore storage.DailyOrderStore
}

// NewRunner creates a new aggregation runner.
func NewRunner(rawStore storage.RawTransactionStore, orderStore storage.DailyOrderStore) *Runner {
	return &Runner{
		rawStore:   rawStore,
		orderStore: orderStore,
	}
}

// Result summarizes one aggregation run.
type Result struct {
	TransactionsRead int
	OrdersAggregated int // before the validity filter
	OrdersStored     int
	FilterStats      FilterStats
}

// Run executes aggregation and filtering.
// Steps:
//  1. Load all raw transactions
//  2. Group by (customer, calendar day)
//  3. Apply validity filter
//  4. Store surviving orders in the clean table
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	txs, err := r.rawStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load raw transactions: %w", err)
	}

	orders := GroupDailyOrders(txs)
	kept, stats := FilterValidOrders(orders)

	if len(kept) > 0 {
		if err := r.orderStore.InsertBulk(ctx, kept); err != nil {
			return nil, fmt.Errorf("store daily orders: %w", err)
		}
	}

	return &Result{
		TransactionsRead: len(txs),
		OrdersAggregated: len(orders),
		OrdersStored:     len(kept),
		FilterStats:      stats,
	}, nil
}
