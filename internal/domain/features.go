package domain

// DataSplit identifies the dataset partition a customer belongs to.
type DataSplit string

// Dataset splits. Assignment is deterministic per customer, see internal/split.
const (
	SplitTrain    DataSplit = "TRAIN"
	SplitValidate DataSplit = "VALIDATE"
	SplitTest     DataSplit = "TEST"
)

// CustomerFeatureRecord represents RFM features and the CLV target for one
// customer with at least one qualifying order in the feature window.
// Corresponds to customer_features table in ClickHouse (the "ML-ready" table).
type CustomerFeatureRecord struct {
	CustomerID            string    // customer identifier
	CustomerCountry       string    // most recent non-empty country in the feature window
	NPurchases            int       // COUNT of daily orders in the feature window
	AvgPurchaseSize       float64   // MEAN(total_quantity) over the feature window
	AvgPurchaseRevenue    float64   // MEAN(total_revenue) over the feature window
	CustomerAgeDays       int       // days from first in-window purchase to feature window end
	DaysSinceLastPurchase int       // days from last in-window purchase to feature window end
	TargetMonetaryValue   float64   // SUM(total_revenue) over the full study window
	DataSplit             DataSplit // TRAIN | VALIDATE | TEST
}
