// Package timeseries provides time series data structures and transforms.
//
// This package defines the Series container used by every modeling component:
// an immutable, gap-free sequence of observations with a fixed seasonal
// period. Transforms never mutate; they return derived Series whose start
// offset records how many leading observations were consumed, so seasonal
// phase survives differencing and slicing.
//
// # Creating a Series
//
// Create a monthly series (period 12):
//
//	values := []float64{100, 102, 105, 103, 108, 110, /* ... */}
//	series, err := timeseries.New(values, 12)
//
// Construction rejects empty input, non-positive periods, and NaN or infinite
// observations: upstream gap-filling is the caller's responsibility.
//
// # Basic Statistics
//
// Calculate summary statistics:
//
//	mean := series.Mean()
//	std := series.Std()
//	min := series.Min()
//	max := series.Max()
//
// # Transformations
//
// Transform the time series:
//
//	diff, err := series.Diff()          // First difference
//	sdiff, err := series.SeasonalDiff() // Difference at the series period
//	ma, err := series.MovingAverage(7)  // Trailing moving average
//	z := series.Normalize()             // Z-score normalization
//
// # Slicing
//
// Work with subsets of the data:
//
//	train, err := series.Slice(0, 60)
//	test, err := series.Slice(60, series.Len())
//
// The slice keeps the parent's period, and its Phase method still reports the
// correct position in the seasonal cycle.
package timeseries
