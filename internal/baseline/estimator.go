// Package baseline implements the closed-form CLV projection used as a
// comparison point for the learned model. It is not a serving predictor.
package baseline

import (
	"errors"

	"retail-clv-lab/internal/domain"
)

// ErrNoEstimates is returned when no customer could be scored.
var ErrNoEstimates = errors.New("no customers eligible for baseline estimation")

// EstimateAll projects a monetary value per customer:
//
//	predicted = avg_purchase_revenue * n_purchases * (1 + target_days / feature_days)
//
// where target_days is the calendar length of the target window and
// feature_days is (feature_end - first purchase) for the customer, which the
// feature table carries as customer_age. Customers with feature_days = 0
// (first purchase exactly on feature_end) cannot be projected and are
// excluded rather than given an infinite estimate.
//
// Returns the estimates and the number of excluded customers.
func EstimateAll(records []*domain.CustomerFeatureRecord, w domain.StudyWindow) ([]domain.BaselineEstimate, int) {
	targetDays := float64(w.TargetDays())

	estimates := make([]domain.BaselineEstimate, 0, len(records))
	excluded := 0

	for _, r := range records {
		featureDays := float64(r.CustomerAgeDays)
		if featureDays == 0 {
			excluded++
			continue
		}

		predicted := r.AvgPurchaseRevenue * float64(r.NPurchases) * (1 + targetDays/featureDays)
		estimates = append(estimates, domain.BaselineEstimate{
			CustomerID:     r.CustomerID,
			PredictedValue: predicted,
			ActualValue:    r.TargetMonetaryValue,
		})
	}

	return estimates, excluded
}

// Evaluate scores the baseline over a feature record population.
// Returns ErrNoEstimates when every customer was excluded or the input is empty.
func Evaluate(records []*domain.CustomerFeatureRecord, w domain.StudyWindow) (*domain.RegressionMetrics, error) {
	estimates, excluded := EstimateAll(records, w)
	if len(estimates) == 0 {
		return nil, ErrNoEstimates
	}

	metrics := ComputeRegressionMetrics(estimates)
	metrics.Excluded = excluded
	return &metrics, nil
}
