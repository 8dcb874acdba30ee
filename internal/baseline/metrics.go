package baseline

import (
	"math"

	"retail-clv-lab/internal/domain"
)

// ComputeRegressionMetrics calculates MAE, MSE and RMSE over the residuals
// predicted - actual. The caller guarantees len(estimates) > 0.
func ComputeRegressionMetrics(estimates []domain.BaselineEstimate) domain.RegressionMetrics {
	n := float64(len(estimates))

	var sumAbs, sumSq float64
	for _, e := range estimates {
		residual := e.PredictedValue - e.ActualValue
		sumAbs += math.Abs(residual)
		sumSq += residual * residual
	}

	mse := sumSq / n
	return domain.RegressionMetrics{
		MAE:        sumAbs / n,
		MSE:        mse,
		RMSE:       math.Sqrt(mse),
		SampleSize: len(estimates),
	}
}
