package features

import (
	"context"
	"fmt"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/split"
	"retail-clv-lab/internal/storage"
)

// Runner computes the ML-ready table from the clean table.
type Runner struct {
	orderStore   storage.DailyOrderStore
	featureStore storage.FeatureRecordStore
	window       domain.StudyWindow
}

// NewRunner creates a new feature computation runner.
func NewRunner(orderStore storage.DailyOrderStore, featureStore storage.FeatureRecordStore, window domain.StudyWindow) *Runner {
	return &Runner{
		orderStore:   orderStore,
		featureStore: featureStore,
		window:       window,
	}
}

// Run executes windowed feature computation and split assignment.
// Steps:
//  1. Validate the study window
//  2. Load daily orders in [study_start, study_end)
//  3. Compute per-customer feature records
//  4. Assign dataset splits
//  5. Store records in the ML-ready table
func (r *Runner) Run(ctx context.Context) ([]*domain.CustomerFeatureRecord, error) {
	if err := r.window.Validate(); err != nil {
		return nil, err
	}

	orders, err := r.orderStore.GetByDateRange(ctx, r.window.StudyStart, r.window.StudyEnd)
	if err != nil {
		return nil, fmt.Errorf("load daily orders: %w", err)
	}

	records := ComputeFeatureRecords(orders, r.window)
	split.AssignRecords(records)

	if len(records) > 0 {
		if err := r.featureStore.InsertBulk(ctx, records); err != nil {
			return nil, fmt.Errorf("store feature records: %w", err)
		}
	}

	return records, nil
}
