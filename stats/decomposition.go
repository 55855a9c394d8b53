package stats

import (
	"fmt"
	"math"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/timeseries"
)

// Decomposition kinds.
const (
	Additive       = "additive"       // Y = T + S + R
	Multiplicative = "multiplicative" // Y = T * S * R
)

// DecompositionResult holds a classical seasonal decomposition. Components
// are raw slices aligned with the source series; the centered moving-average
// trend is undefined over the first and last half-period, so those entries of
// Trend and Remainder are NaN.
type DecompositionResult struct {
	Trend     []float64
	Seasonal  []float64
	Remainder []float64
	Period    int
	Kind      string
}

// Decompose performs classical seasonal decomposition: a centered moving
// average for the trend and per-phase averages of the detrended series for
// the seasonal component. It is the cheap diagnostic decomposition behind
// SeasonalStrength; use package stl for the loess-based decomposer.
func Decompose(series *timeseries.Series, kind string) (*DecompositionResult, error) {
	n := series.Len()
	period := series.Period()
	if period < 2 {
		return nil, fmt.Errorf("stats: decomposition needs period >= 2, got %d: %w",
			period, seriate.ErrInvalidArgument)
	}
	if n < 2*period {
		return nil, fmt.Errorf("stats: decomposition needs %d observations for period %d, got %d: %w",
			2*period, period, n, seriate.ErrInsufficientData)
	}
	if kind != Additive && kind != Multiplicative {
		return nil, fmt.Errorf("stats: decomposition kind %q: %w", kind, seriate.ErrInvalidArgument)
	}

	vals := series.Values()
	trend := centeredMA(vals, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case kind == Multiplicative && trend[i] != 0:
			detrended[i] = vals[i] / trend[i]
		case kind == Multiplicative:
			detrended[i] = math.NaN()
		default:
			detrended[i] = vals[i] - trend[i]
		}
	}

	// Average the detrended values within each seasonal phase.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if !math.IsNaN(detrended[i]) {
			phase := series.Phase(i)
			pattern[phase] += detrended[i]
			counts[phase]++
		}
	}
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	// Re-center so the seasonal component averages to zero (additive) or
	// one (multiplicative) over a full cycle.
	sum := 0.0
	for _, v := range pattern {
		sum += v
	}
	mean := sum / float64(period)
	for i := range pattern {
		if kind == Multiplicative {
			if mean != 0 {
				pattern[i] /= mean
			}
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[series.Phase(i)]
	}

	remainder := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend[i]):
			remainder[i] = math.NaN()
		case kind == Multiplicative && trend[i] != 0 && seasonal[i] != 0:
			remainder[i] = vals[i] / (trend[i] * seasonal[i])
		case kind == Multiplicative:
			remainder[i] = math.NaN()
		default:
			remainder[i] = vals[i] - trend[i] - seasonal[i]
		}
	}

	return &DecompositionResult{
		Trend:     trend,
		Seasonal:  seasonal,
		Remainder: remainder,
		Period:    period,
		Kind:      kind,
	}, nil
}

// centeredMA computes the centered moving average of window = period, with
// half weights on the endpoints when the period is even. Entries without a
// full window are NaN.
func centeredMA(vals []float64, period int) []float64 {
	n := len(vals)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 0 {
		for i := half; i < n-half; i++ {
			sum := vals[i-half]*0.5 + vals[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += vals[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += vals[j]
			}
			trend[i] = sum / float64(period)
		}
	}

	return trend
}
