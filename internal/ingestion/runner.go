package ingestion

import (
	"context"
	"fmt"
	"log"

	"retail-clv-lab/internal/observability"
	"retail-clv-lab/internal/storage"
)

// Runner reads a transaction source and fills the raw table.
type Runner struct {
	source   TransactionSource
	rawStore storage.RawTransactionStore
	logger   *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source   TransactionSource
	RawStore storage.RawTransactionStore
	Logger   *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		source:   opts.Source,
		rawStore: opts.RawStore,
		logger:   logger,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Ingested int
	Drops    DropStats
}

// Run fetches the source once and bulk-inserts everything parseable.
// Source failure aborts the run with nothing committed.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	txs, drops, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction source: %w", err)
	}

	if len(txs) > 0 {
		if err := r.rawStore.InsertBulk(ctx, txs); err != nil {
			return nil, fmt.Errorf("store raw transactions: %w", err)
		}
	}

	observability.RecordTransactionsIngested(len(txs))
	observability.RecordRowsDropped("short_row", drops.ShortRow)
	observability.RecordRowsDropped("bad_date", drops.BadDate)
	observability.RecordRowsDropped("bad_quantity", drops.BadQuantity)
	observability.RecordRowsDropped("bad_price", drops.BadPrice)

	r.logger.Printf("Ingested %d transactions (%d dropped: %d short, %d bad date, %d bad quantity, %d bad price)",
		len(txs), drops.Dropped(), drops.ShortRow, drops.BadDate, drops.BadQuantity, drops.BadPrice)

	return &Result{Ingested: len(txs), Drops: drops}, nil
}
