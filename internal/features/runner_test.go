package features

import (
	"context"
	"errors"
	"testing"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage/memory"
)

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	orderStore := memory.NewDailyOrderStore()
	featureStore := memory.NewFeatureRecordStore()
	w := testWindow()

	err := orderStore.InsertBulk(ctx, []*domain.DailyOrder{
		order("17850", date(2011, 6, 10), 10, 50),
		order("17850", date(2011, 8, 20), 20, 70),
		order("13047", date(2011, 7, 1), 5, 30),
	})
	if err != nil {
		t.Fatalf("Seed orders failed: %v", err)
	}

	records, err := NewRunner(orderStore, featureStore, w).Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	for _, r := range records {
		if r.DataSplit != domain.SplitTrain &&
			r.DataSplit != domain.SplitValidate &&
			r.DataSplit != domain.SplitTest {
			t.Errorf("Customer %s has invalid split %q", r.CustomerID, r.DataSplit)
		}
	}

	// Records must be persisted in the ML-ready table.
	stored, err := featureStore.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("Expected 2 stored records, got %d", len(stored))
	}
}

func TestRunner_Run_InvalidWindow(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(memory.NewDailyOrderStore(), memory.NewFeatureRecordStore(), domain.StudyWindow{})

	_, err := runner.Run(ctx)
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow, got %v", err)
	}
}

func TestRunner_Run_EmptyCleanTable(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(memory.NewDailyOrderStore(), memory.NewFeatureRecordStore(), testWindow())

	records, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}
