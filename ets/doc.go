// Package ets implements exponential smoothing (ETS) state space models.
//
// An ETS model is named by three components, written ETS(error,trend,season):
//   - Error: additive (A) or multiplicative (M) innovations
//   - Trend: none (N), additive (A), or additive damped (Ad)
//   - Season: none (N), additive (A), or multiplicative (M)
//
// ETS(A,N,N) is simple exponential smoothing, ETS(A,A,N) is Holt's linear
// method, and ETS(A,A,A) is additive Holt-Winters.
//
// # Basic Usage
//
// Fit additive Holt-Winters to monthly data:
//
//	series, _ := timeseries.New(values, 12)
//
//	model, err := ets.Fit(series, ets.Spec{
//	    Error:  ets.AdditiveError,
//	    Trend:  ets.AdditiveTrend,
//	    Season: ets.AdditiveSeason,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mean, lower, upper, _ := model.Forecast(12, 0.95)
//
// The zero Spec normalises to ETS(A,N,N).
//
// # Estimation
//
// Smoothing parameters are estimated by maximum likelihood with Nelder-Mead
// under the usual admissibility bounds (beta below alpha, gamma below
// 1-alpha, damping in [0.8, 0.98]). Initial states come from per-phase
// averages over the first two cycles. Multiplicative components require
// strictly positive observations; Fit rejects the spec otherwise.
//
// # Choosing a Spec
//
// Admissible enumerates every spec the data supports, and the autofit
// package fits them all and keeps the lowest-AICc model:
//
//	best, err := autofit.ETS(series, autofit.DefaultConfig())
package ets
