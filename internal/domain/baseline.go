package domain

// BaselineEstimate is the closed-form CLV projection for one customer,
// paired with the realized target it is scored against.
type BaselineEstimate struct {
	CustomerID     string
	PredictedValue float64 // avg_purchase_revenue * n_purchases * (1 + target_days/feature_days)
	ActualValue    float64 // target_monetary_value from the feature record
}

// RegressionMetrics summarizes baseline error over the scored population.
type RegressionMetrics struct {
	MAE        float64 // mean absolute error
	MSE        float64 // mean squared error
	RMSE       float64 // sqrt(MSE)
	SampleSize int     // customers scored
	Excluded   int     // customers dropped because feature_days was zero
}
