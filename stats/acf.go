// Package stats provides statistical tests and functions for time series analysis.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/seriate/seriate/timeseries"
)

// ACF calculates the autocorrelation function for the given series.
// Returns ACF values for lags 0 to maxLag.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	return acfValues(series.Values(), maxLag)
}

func acfValues(vals []float64, maxLag int) []float64 {
	n := len(vals)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(vals, nil)
	variance := 0.0
	for _, v := range vals {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (vals[i] - mean) * (vals[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// PACF calculates the partial autocorrelation function using the
// Durbin-Levinson algorithm. Returns PACF values for lags 0 to maxLag, with
// lag 0 fixed at 1.
func PACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(series, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1.0

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}

		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k][k] = num / den
		pacf[k] = phi[k][k]

		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}

	return pacf
}

// Correlogram holds ACF or PACF values with their sampling confidence bound.
type Correlogram struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // 95% confidence bounds (±1.96/sqrt(n))
}

// ACFWithConfidence calculates ACF with confidence bounds.
func ACFWithConfidence(series *timeseries.Series, maxLag int) *Correlogram {
	return correlogram(ACF(series, maxLag), series.Len())
}

// PACFWithConfidence calculates PACF with confidence bounds.
func PACFWithConfidence(series *timeseries.Series, maxLag int) *Correlogram {
	return correlogram(PACF(series, maxLag), series.Len())
}

func correlogram(values []float64, n int) *Correlogram {
	if values == nil {
		return nil
	}
	lags := make([]int, len(values))
	for i := range lags {
		lags[i] = i
	}
	return &Correlogram{
		Lags:       lags,
		Values:     values,
		ConfBounds: 1.96 / math.Sqrt(float64(n)),
	}
}

// SignificantLags returns the lags (excluding 0) whose values exceed the
// confidence bound in absolute value.
func (c *Correlogram) SignificantLags() []int {
	var significant []int
	for i := 1; i < len(c.Values); i++ {
		if math.Abs(c.Values[i]) > c.ConfBounds {
			significant = append(significant, i)
		}
	}
	return significant
}
