// Package autofit implements automated SARIMA and ETS model selection.
//
// The package searches candidate models of both families, fits them in
// parallel, and keeps the one with the best information criterion. Candidates
// that fail to converge or violate the stationarity and invertibility guards
// are skipped, so a returned model always passed every check.
//
// # Basic Usage
//
// Automatic SARIMA order selection:
//
//	result, err := autofit.SARIMA(series, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Best model: %s\n", result)
//	fmt.Printf("AICc: %.2f, candidates evaluated: %d\n",
//	    result.Criterion, result.Evaluated)
//
//	fc, _ := result.Forecast(12, 0.95)
//
// The series period decides seasonality: orders with seasonal components are
// searched only when the period is at least 2 and two full cycles are
// observed.
//
// # ETS Search
//
// ETS selection fits every admissible specification rather than stepping:
//
//	result, err := autofit.ETS(series, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Best specification: %s\n", result)
//
// Multiplicative specifications are excluded automatically when the series
// has non-positive observations.
//
// # Choosing Between Families
//
// Both searches return a Result embedding a forecast.Fitted, so the winners
// can be compared directly:
//
//	sar, _ := autofit.SARIMA(series, nil)
//	es, _ := autofit.ETS(series, nil)
//	best, _ := forecast.SelectBest(sar.Fitted, es.Fitted)
//
// # Configuration
//
// Customize the search with Config; zero fields keep their defaults:
//
//	cfg := &autofit.Config{
//	    MaxP:      3,      // Maximum AR order
//	    MaxQ:      3,      // Maximum MA order
//	    MaxSP:     1,      // Maximum seasonal AR order
//	    MaxSQ:     1,      // Maximum seasonal MA order
//	    Criterion: "bic",  // "aic", "aicc" or "bic"
//	    Workers:   4,      // parallel fit limit
//	}
//	result, err := autofit.SARIMA(series, cfg)
//
// # Search Method
//
// The SARIMA search follows the stepwise algorithm of Hyndman and Khandakar:
// differencing orders are fixed first by KPSS (or ADF) and seasonal-strength
// tests, a small set of starting orders is fitted, and the search then moves
// through the ±1 neighborhood of the best model found so far, stopping when
// no neighbor improves the criterion or the step budget is exhausted. The
// search is deterministic: candidates are fitted concurrently but compared in
// a fixed order.
package autofit
