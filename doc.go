// Package seriate provides seasonal time-series decomposition, forecasting,
// and shape-based clustering.
//
// Seriate models regularly-sampled numeric series with a fixed seasonal
// period: it decomposes them into trend, seasonal, and remainder components,
// fits competing SARIMA and exponential-smoothing (ETS) models with automated
// specification search, selects among fits by information criteria, produces
// interval forecasts, and groups related series by Dynamic Time Warping
// distance with fuzzy c-means clustering.
//
// # Features
//
//   - Immutable TimeSeries container with period-aware transforms
//   - STL decomposition with loess seasonal smoothing and robust reweighting
//   - SARIMA models with stepwise automated order search
//   - ETS state-space models over the error/trend/season taxonomy
//   - Model selection by AIC, AICc, and BIC
//   - Point forecasts with prediction intervals at any confidence level
//   - DTW distance with optional Sakoe-Chiba band and warping paths
//   - Fuzzy c-means clustering with DTW barycenter averaging centroids
//   - Statistical tests: ADF, KPSS, Ljung-Box, ACF/PACF
//
// # Quick Start
//
// Fit both model families to a monthly series and forecast a year ahead:
//
//	series, _ := timeseries.New(values, 12)
//	sar, _ := autofit.SARIMA(series, nil)
//	es, _ := autofit.ETS(series, nil)
//	best, _ := forecast.SelectBest(sar.Fitted, es.Fitted)
//	result, _ := best.Forecast(12, 0.95)
//
// Decompose the same series:
//
//	dec, _ := stl.Decompose(series, nil)
//
// Cluster several series by shape:
//
//	labels, list := cluster.Grouped(byCategory)
//	asg, _ := cluster.FuzzyCMeans(list, &cluster.Config{Clusters: 3})
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: series container and transforms
//   - stl: seasonal-trend decomposition by loess
//   - sarima: seasonal ARIMA estimation and forecasting
//   - ets: exponential-smoothing state-space models
//   - autofit: automated specification search for both families
//   - forecast: fitted-model comparison, selection, and interval forecasts
//   - dtw: dynamic time warping distances and alignment paths
//   - cluster: DTW distance matrices and fuzzy c-means
//   - stats: stationarity tests, correlograms, diagnostics
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Cleveland, R. B. et al. (1990). STL: A Seasonal-Trend Decomposition Procedure Based on Loess
//   - Sakoe, H., & Chiba, S. (1978). Dynamic programming algorithm optimization for spoken word recognition
package seriate
