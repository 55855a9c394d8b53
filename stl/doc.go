// Package stl implements seasonal-trend decomposition based on loess
// smoothing, after Cleveland et al. (1990).
//
// The decomposition splits a series additively into trend, seasonal, and
// remainder components. The seasonal component is free to drift: each
// seasonal subseries (all the Januaries, all the Februaries, ...) is loess
// smoothed over the cycles, so the seasonal shape may change slowly over
// time instead of repeating exactly. An inner loop alternates seasonal and
// trend extraction until the components settle; an optional outer loop
// downweights outlying observations so single spikes do not distort either
// component.
//
// # Basic Usage
//
// Decompose a monthly series with the default windows:
//
//	decomp, err := stl.Decompose(series, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("seasonal strength: %.2f\n", decomp.SeasonalStrength())
//	for i := 0; i < decomp.Observed.Len(); i++ {
//	    fmt.Printf("%8.2f = %8.2f + %7.2f + %6.2f\n",
//	        decomp.Observed.At(i), decomp.Trend.At(i),
//	        decomp.Seasonal.At(i), decomp.Remainder.At(i))
//	}
//
// The series must carry a period of at least 2 and cover two full cycles.
//
// # Windows
//
// SeasonalWindow is the main tuning knob: a small window lets the seasonal
// pattern adapt quickly, a large one approaches a fixed periodic pattern.
// The window must be odd and at least 7; the default follows the series
// period. TrendWindow follows from the seasonal window unless set.
//
//	decomp, err := stl.Decompose(series, &stl.Config{SeasonalWindow: 35})
//
// # Robustness
//
// With RobustIterations set, each outer pass computes bisquare weights from
// the remainder and repeats the inner loop with outliers downweighted:
//
//	decomp, err := stl.Decompose(series, &stl.Config{
//	    InnerIterations:  1,
//	    RobustIterations: 5,
//	})
package stl
