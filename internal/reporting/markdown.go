package reporting

import (
	"fmt"
	"strings"
	"time"

	"retail-clv-lab/internal/domain"
)

const dateLayout = "2006-01-02"

// RenderMarkdown renders the run report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# CLV Baseline Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Study Window\n\n")
	sb.WriteString("| Boundary | Date |\n")
	sb.WriteString("|----------|------|\n")
	sb.WriteString(fmt.Sprintf("| Study start | %s |\n", r.Window.StudyStart.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("| Feature window end | %s |\n", r.Window.FeatureEnd.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("| Study end | %s |\n", r.Window.StudyEnd.Format(dateLayout)))
	sb.WriteString(fmt.Sprintf("| Target window length | %d days |\n", r.Window.TargetDays()))
	sb.WriteString("\n")

	sb.WriteString("## Population\n\n")
	sb.WriteString("| Split | Customers |\n")
	sb.WriteString("|-------|-----------|\n")
	for _, split := range []domain.DataSplit{domain.SplitTrain, domain.SplitValidate, domain.SplitTest} {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", split, r.SplitCounts[split]))
	}
	sb.WriteString(fmt.Sprintf("| Total | %d |\n", r.TotalCustomers))
	sb.WriteString("\n")

	sb.WriteString("## Baseline Estimator\n\n")
	sb.WriteString("Projection: `avg_purchase_revenue * n_purchases * (1 + target_days / feature_days)`\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| MAE | %.4f |\n", r.Baseline.MAE))
	sb.WriteString(fmt.Sprintf("| MSE | %.4f |\n", r.Baseline.MSE))
	sb.WriteString(fmt.Sprintf("| RMSE | %.4f |\n", r.Baseline.RMSE))
	sb.WriteString(fmt.Sprintf("| Customers scored | %d |\n", r.Baseline.SampleSize))
	sb.WriteString(fmt.Sprintf("| Customers excluded | %d |\n", r.Baseline.Excluded))
	sb.WriteString("\n")

	if r.Baseline.Excluded > 0 {
		sb.WriteString("Excluded customers made their first purchase on the feature window boundary; the projection ratio is undefined for them.\n")
	}

	return sb.String()
}
