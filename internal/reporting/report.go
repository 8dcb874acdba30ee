package reporting

import (
	"time"

	"retail-clv-lab/internal/domain"
)

// Report summarizes one pipeline run for human review.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Window      domain.StudyWindow

	// Population
	TotalCustomers int
	SplitCounts    map[domain.DataSplit]int

	// Baseline evaluation
	Baseline domain.RegressionMetrics
}
