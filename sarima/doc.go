// Package sarima implements Seasonal ARIMA (SARIMA) models for time series with seasonality.
//
// A SARIMA(p,d,q)(P,D,Q)[m] model combines:
//   - Non-seasonal components: AR(p), I(d), MA(q)
//   - Seasonal components: SAR(P), SI(D), SMA(Q) at seasonal period m
//
// # Basic Usage
//
// Fit a SARIMA(1,0,0)(1,1,0)[4] model to quarterly data:
//
//	series, _ := timeseries.New(values, 4)
//
//	model, err := sarima.Fit(series, sarima.Order{P: 1, SP: 1, SD: 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Forecast the next 8 quarters with 95% intervals.
//	mean, lower, upper, _ := model.Forecast(8, 0.95)
//
// Order.Period may be left zero to inherit the period the series was built
// with.
//
// # Common Models
//
//	// Airline model: SARIMA(0,1,1)(0,1,1)[12] for monthly data
//	model, err := sarima.Fit(series, sarima.Order{D: 1, Q: 1, SD: 1, SQ: 1})
//
//	// Quarterly with seasonal AR: SARIMA(1,0,0)(1,1,0)[4]
//	model, err := sarima.Fit(series, sarima.Order{P: 1, SP: 1, SD: 1})
//
// # Estimation
//
// Coefficients minimise the conditional sum of squares, seeded by
// Yule-Walker estimates and refined with momentum gradient descent. Fit
// rejects estimates whose AR polynomial leaves the stationary region or
// whose MA polynomial leaves the invertible region, checked through the
// eigenvalues of the companion matrix. Prediction intervals come from the
// accumulated psi weights of the integrated process, so they widen (or at
// least never narrow) with the horizon.
//
// # Model Selection
//
// Use information criteria to compare candidate orders (lower is better):
//
//	fmt.Printf("AIC: %.2f, AICc: %.2f, BIC: %.2f\n",
//	    model.AIC, model.AICc, model.BIC)
//
// For automatic order selection, use the autofit package.
package sarima
