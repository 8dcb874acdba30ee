// Package orchestrator coordinates the batch pipeline:
// aggregation → windowed features → split assignment → baseline evaluation.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"retail-clv-lab/internal/aggregation"
	"retail-clv-lab/internal/baseline"
	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/features"
	"retail-clv-lab/internal/observability"
	"retail-clv-lab/internal/storage"
)

// Orchestrator runs the pipeline stages over the three warehouse tables.
// Each stage consumes the complete output of the previous one; failure at
// any stage aborts the whole run.
type Orchestrator struct {
	rawStore     storage.RawTransactionStore
	orderStore   storage.DailyOrderStore
	featureStore storage.FeatureRecordStore
	window       domain.StudyWindow
	verbose      bool
}

// Options for creating an Orchestrator.
type Options struct {
	RawStore     storage.RawTransactionStore
	OrderStore   storage.DailyOrderStore
	FeatureStore storage.FeatureRecordStore
	Window       domain.StudyWindow
	Verbose      bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		rawStore:     opts.RawStore,
		orderStore:   opts.OrderStore,
		featureStore: opts.FeatureStore,
		window:       opts.Window,
		verbose:      opts.Verbose,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	TransactionsRead  int
	OrdersAggregated  int
	OrdersStored      int
	FilterStats       aggregation.FilterStats
	CustomersFeatured int
	Baseline          *domain.RegressionMetrics
}

// Run executes the full pipeline.
// Phases:
//  1. Aggregate raw transactions into daily orders and filter them
//  2. Compute windowed feature records with split assignment
//  3. Evaluate the baseline estimator against the target
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if err := o.window.Validate(); err != nil {
		return nil, err
	}

	result := &RunResult{}

	o.log("Phase 1: Aggregating daily orders...")
	start := time.Now()
	aggResult, err := aggregation.NewRunner(o.rawStore, o.orderStore).Run(ctx)
	if err != nil {
		observability.RecordPipelineRun("aggregation", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("phase 1 (aggregation) failed: %w", err)
	}
	observability.RecordPipelineRun("aggregation", "ok", time.Since(start).Seconds())
	observability.RecordOrdersAggregated(aggResult.OrdersAggregated)
	observability.RecordOrdersFiltered("missing_customer", aggResult.FilterStats.MissingCustomer)
	observability.RecordOrdersFiltered("non_positive_quantity", aggResult.FilterStats.NonPositiveQuantity)
	observability.RecordOrdersFiltered("non_positive_revenue", aggResult.FilterStats.NonPositiveRevenue)

	result.TransactionsRead = aggResult.TransactionsRead
	result.OrdersAggregated = aggResult.OrdersAggregated
	result.OrdersStored = aggResult.OrdersStored
	result.FilterStats = aggResult.FilterStats
	o.log("  %d transactions -> %d orders (%d dropped by filter)",
		aggResult.TransactionsRead, aggResult.OrdersStored, aggResult.FilterStats.Dropped())

	o.log("Phase 2: Computing feature records...")
	start = time.Now()
	records, err := features.NewRunner(o.orderStore, o.featureStore, o.window).Run(ctx)
	if err != nil {
		observability.RecordPipelineRun("features", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("phase 2 (features) failed: %w", err)
	}
	observability.RecordPipelineRun("features", "ok", time.Since(start).Seconds())
	observability.RecordCustomersFeatured(len(records))

	result.CustomersFeatured = len(records)
	o.log("  %d customers featured", len(records))

	o.log("Phase 3: Evaluating baseline estimator...")
	start = time.Now()
	metrics, err := baseline.Evaluate(records, o.window)
	if err != nil {
		observability.RecordPipelineRun("baseline", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("phase 3 (baseline) failed: %w", err)
	}
	observability.RecordPipelineRun("baseline", "ok", time.Since(start).Seconds())
	observability.RecordBaselineExcluded(metrics.Excluded)

	result.Baseline = metrics
	o.log("  MAE=%.2f MSE=%.2f RMSE=%.2f over %d customers (%d excluded)",
		metrics.MAE, metrics.MSE, metrics.RMSE, metrics.SampleSize, metrics.Excluded)

	return result, nil
}

// log prints progress when verbose mode is on.
func (o *Orchestrator) log(format string, args ...any) {
	if o.verbose {
		log.Printf(format, args...)
	}
}
