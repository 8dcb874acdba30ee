package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"retail-clv-lab/internal/baseline"
	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// Output file names.
const (
	FeatureCSVFile     = "customer_features.csv"
	BaselineReportFile = "baseline_report.md"
)

// Generator produces run artifacts from the ML-ready table.
type Generator struct {
	featureStore storage.FeatureRecordStore
	window       domain.StudyWindow
	outputDir    string
	now          func() time.Time // injectable clock for deterministic output
	newRunID     func() string
}

// NewGenerator creates a new report generator.
func NewGenerator(featureStore storage.FeatureRecordStore, window domain.StudyWindow, outputDir string) *Generator {
	return &Generator{
		featureStore: featureStore,
		window:       window,
		outputDir:    outputDir,
		now:          func() time.Time { return time.Now().UTC() },
		newRunID:     uuid.NewString,
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithRunID sets a custom run id function for deterministic output.
func (g *Generator) WithRunID(newRunID func() string) *Generator {
	g.newRunID = newRunID
	return g
}

// Generate builds the report from stored feature records.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	records, err := g.featureStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feature records: %w", err)
	}

	metrics, err := baseline.Evaluate(records, g.window)
	if err != nil {
		return nil, fmt.Errorf("evaluate baseline: %w", err)
	}

	splitCounts := make(map[domain.DataSplit]int)
	for _, r := range records {
		splitCounts[r.DataSplit]++
	}

	return &Report{
		RunID:          g.newRunID(),
		GeneratedAt:    g.now(),
		Window:         g.window,
		TotalCustomers: len(records),
		SplitCounts:    splitCounts,
		Baseline:       *metrics,
	}, nil
}

// Run generates the report and writes all artifacts to the output directory.
func (g *Generator) Run(ctx context.Context) error {
	report, err := g.Generate(ctx)
	if err != nil {
		return err
	}

	records, err := g.featureStore.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load feature records: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	csvPath := filepath.Join(g.outputDir, FeatureCSVFile)
	if err := os.WriteFile(csvPath, []byte(RenderFeatureCSV(records)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FeatureCSVFile, err)
	}

	mdPath := filepath.Join(g.outputDir, BaselineReportFile)
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", BaselineReportFile, err)
	}

	return nil
}
