package features

import (
	"sort"
	"time"

	"retail-clv-lab/internal/domain"
)

// customerAccumulator tracks per-customer window statistics during one pass
// over the clean table.
type customerAccumulator struct {
	nPurchases    int
	sumQuantity   int64
	sumRevenue    float64
	firstPurchase time.Time
	lastPurchase  time.Time
	country       string    // from the latest in-window order with a non-empty country
	countryDate   time.Time // order date the country was observed on
	targetRevenue float64   // over the full study window
}

// ComputeFeatureRecords derives one CustomerFeatureRecord per customer with at
// least one order in the feature window [study_start, feature_end).
//
// Formulas:
//   - n_purchases              = COUNT(orders in feature window)
//   - avg_purchase_size        = MEAN(total_quantity) over that subset
//   - avg_purchase_revenue     = MEAN(total_revenue) over that subset
//   - customer_age             = feature_end - MIN(order_date in window), days
//   - days_since_last_purchase = feature_end - MAX(order_date in window), days
//   - target_monetary_value    = SUM(total_revenue) over [study_start, study_end),
//     i.e. realized value across the whole study, past plus future
//
// Customers without a feature-window order (cold starts) produce no record,
// even if they purchased during the target window. DataSplit is left empty;
// the caller assigns it (see internal/split).
func ComputeFeatureRecords(orders []*domain.DailyOrder, w domain.StudyWindow) []*domain.CustomerFeatureRecord {
	if len(orders) == 0 {
		return nil
	}

	acc := make(map[string]*customerAccumulator)

	for _, o := range orders {
		if !o.HasCustomer() || !w.InStudyWindow(o.OrderDate) {
			continue
		}
		id := *o.CustomerID

		a, ok := acc[id]
		if !ok {
			a = &customerAccumulator{}
			acc[id] = a
		}

		a.targetRevenue += o.TotalRevenue

		if !w.InFeatureWindow(o.OrderDate) {
			continue
		}

		a.nPurchases++
		a.sumQuantity += o.TotalQuantity
		a.sumRevenue += o.TotalRevenue

		if a.nPurchases == 1 || o.OrderDate.Before(a.firstPurchase) {
			a.firstPurchase = o.OrderDate
		}
		if a.nPurchases == 1 || o.OrderDate.After(a.lastPurchase) {
			a.lastPurchase = o.OrderDate
		}
		// Latest non-empty country wins; one order per (customer, day)
		// after aggregation, so order_date is a total tie-break.
		if o.Country != "" && (a.country == "" || o.OrderDate.After(a.countryDate)) {
			a.country = o.Country
			a.countryDate = o.OrderDate
		}
	}

	var result []*domain.CustomerFeatureRecord
	for id, a := range acc {
		if a.nPurchases == 0 {
			continue
		}
		result = append(result, &domain.CustomerFeatureRecord{
			CustomerID:            id,
			CustomerCountry:       a.country,
			NPurchases:            a.nPurchases,
			AvgPurchaseSize:       float64(a.sumQuantity) / float64(a.nPurchases),
			AvgPurchaseRevenue:    a.sumRevenue / float64(a.nPurchases),
			CustomerAgeDays:       domain.DaysBetween(a.firstPurchase, w.FeatureEnd),
			DaysSinceLastPurchase: domain.DaysBetween(a.lastPurchase, w.FeatureEnd),
			TargetMonetaryValue:   a.targetRevenue,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CustomerID < result[j].CustomerID
	})

	return result
}
