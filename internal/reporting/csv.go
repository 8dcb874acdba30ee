package reporting

import (
	"fmt"
	"strings"

	"retail-clv-lab/internal/domain"
)

// RenderFeatureCSV renders feature records as a CSV string matching the
// ML-ready table schema. Column names are part of the model-consumption
// contract and must not change.
func RenderFeatureCSV(records []*domain.CustomerFeatureRecord) string {
	var sb strings.Builder

	sb.WriteString("customer_id,customer_country,n_purchases,avg_purchase_size,avg_purchase_revenue,")
	sb.WriteString("customer_age,days_since_last_purchase,target_monetary_value,data_split\n")

	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%.6f,%d,%d,%.6f,%s\n",
			r.CustomerID,
			r.CustomerCountry,
			r.NPurchases,
			r.AvgPurchaseSize,
			r.AvgPurchaseRevenue,
			r.CustomerAgeDays,
			r.DaysSinceLastPurchase,
			r.TargetMonetaryValue,
			r.DataSplit,
		))
	}

	return sb.String()
}
