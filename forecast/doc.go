// Package forecast compares fitted models across families and produces
// interval forecasts from whichever wins.
//
// SARIMA and ETS models share no concrete type, so the package wraps either
// in a Fitted value:
//
//	candidates := []forecast.Fitted{
//	    forecast.FromSARIMA(sarimaModel),
//	    forecast.FromETS(etsModel),
//	}
//
//	best, err := forecast.SelectBest(candidates...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, _ := best.Forecast(12, 0.95)
//	for h := 0; h < res.Horizon; h++ {
//	    fmt.Printf("%2d: %.1f [%.1f, %.1f]\n", h+1, res.Mean[h], res.Lower[h], res.Upper[h])
//	}
//
// Selection orders by AIC, breaks ties by BIC, and prefers ETS on an exact
// tie. Selection never refits: both inputs and the returned winner are
// immutable fitted models.
package forecast
