// Package stats provides statistical tests and analysis functions for time series.
//
// This package includes stationarity tests, autocorrelation functions,
// differencing policy, information criteria, and diagnostic tests shared by
// the model fitters.
//
// # Stationarity Tests
//
// Test whether a time series is stationary:
//
//	// Augmented Dickey-Fuller test
//	// H0: Series has unit root (non-stationary)
//	adf, err := stats.ADF(series, 0)
//	fmt.Printf("ADF: stat=%.4f, p=%.4f, stationary=%v\n",
//	    adf.Statistic, adf.PValue, adf.IsStationary)
//
//	// KPSS test (recommended)
//	// H0: Series is stationary
//	kpss, err := stats.KPSS(series, "c", 0)
//	fmt.Printf("KPSS: stat=%.4f, p=%.4f, stationary=%v\n",
//	    kpss.Statistic, kpss.PValue, kpss.IsStationary)
//
// # Differencing Analysis
//
// Determine differencing orders for model fitting:
//
//	// Number of first differences needed
//	d := stats.NDiffs(series, 2, "kpss")
//
//	// Number of seasonal differences needed, using the series period
//	sd := stats.NSDiffs(series, 1)
//
//	// Seasonal strength F_S behind NSDiffs
//	strength := stats.SeasonalStrength(series)
//
// # Autocorrelation Functions
//
// Analyze autocorrelation patterns:
//
//	// Autocorrelation Function
//	acf := stats.ACF(series, 20)
//
//	// Partial Autocorrelation Function
//	pacf := stats.PACF(series, 20)
//
//	// ACF with confidence bounds
//	cg := stats.ACFWithConfidence(series, 20)
//	significant := cg.SignificantLags()
//
// # Residual Diagnostics
//
// Test residuals for autocorrelation:
//
//	// Ljung-Box test; fitdf is the fitted parameter count (p+q for ARMA)
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // Residuals are white noise (good)
//	}
//
// # Forecast Accuracy
//
// Score forecasts against a hold-out sample:
//
//	acc := stats.Evaluate(actual, predicted)
//	fmt.Printf("MAE=%.2f RMSE=%.2f MAPE=%.2f%%\n", acc.MAE, acc.RMSE, acc.MAPE)
//
// # Classical Decomposition
//
// Moving-average decomposition, the cheap diagnostic behind SeasonalStrength
// (package stl provides the loess-based decomposer):
//
//	decomp, err := stats.Decompose(series, stats.Additive)
//	// decomp.Trend, decomp.Seasonal, decomp.Remainder
package stats
