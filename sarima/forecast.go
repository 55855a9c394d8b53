package sarima

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/seriate/seriate"
)

// Forecast generates point forecasts on the original scale with prediction
// intervals at the given confidence level. Interval variance accumulates the
// squared psi weights of the integrated process, so interval width never
// shrinks as the horizon grows.
func (m *Model) Forecast(steps int, level float64) (mean, lower, upper []float64, err error) {
	if steps < 1 {
		return nil, nil, nil, fmt.Errorf("sarima: forecast horizon %d: %w",
			steps, seriate.ErrInvalidArgument)
	}
	if level <= 0 || level >= 1 {
		return nil, nil, nil, fmt.Errorf("sarima: confidence level %g outside (0,1): %w",
			level, seriate.ErrInvalidArgument)
	}

	y := m.diffData.Values()
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extRes := make([]float64, n+steps)
	copy(extRes, m.residuals)

	// Future shocks have zero expectation; predictOne ignores residuals at
	// indices >= n.
	for h := 0; h < steps; h++ {
		t := n + h
		extY[t] = m.predictOne(extY, extRes, t, n)
	}

	mean = m.integrate(extY[n:])

	psi := m.psiWeights(steps)
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + level) / 2)

	lower = make([]float64, steps)
	upper = make([]float64, steps)
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		halfWidth := z * math.Sqrt(m.Variance*cum)
		lower[h] = mean[h] - halfWidth
		upper[h] = mean[h] + halfWidth
	}
	return mean, lower, upper, nil
}

// Predict generates point forecasts on the original scale.
func (m *Model) Predict(steps int) ([]float64, error) {
	mean, _, _, err := m.Forecast(steps, 0.95)
	return mean, err
}

// psiWeights computes the first h MA-infinity coefficients of the
// integrated process by equating coefficients in ar(B)*psi(B) = ma(B),
// with the differencing operators folded into the AR side.
func (m *Model) psiWeights(h int) []float64 {
	ar := m.fullARPolynomial()
	ma := m.maPolynomial()

	psi := make([]float64, h)
	if h == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := 0.0
		if j < len(ma) {
			v = ma[j]
		}
		for i := 1; i <= j && i < len(ar); i++ {
			v -= ar[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// integrate undoes the differencing applied during fitting. Fit differences
// non-seasonally first and seasonally second, so integration reverses the
// order: seasonal sums first, then ordinary cumulative sums, each level
// anchored on the closing values of the series at that level.
func (m *Model) integrate(forecasts []float64) []float64 {
	d := m.Order.D
	sd := m.Order.SD
	period := m.Order.Period

	result := make([]float64, len(forecasts))
	copy(result, forecasts)
	if d == 0 && sd == 0 {
		return result
	}

	levels := make([][]float64, d+1)
	levels[0] = m.data.Values()
	for i := 1; i <= d; i++ {
		levels[i] = diffOnce(levels[i-1], 1)
	}

	if sd > 0 {
		slevels := make([][]float64, sd+1)
		slevels[0] = levels[d]
		for k := 1; k <= sd; k++ {
			slevels[k] = diffOnce(slevels[k-1], period)
		}
		for k := sd; k >= 1; k-- {
			base := slevels[k-1]
			nb := len(base)
			for j := range result {
				if j < period {
					result[j] += base[nb-period+j]
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	for i := d; i >= 1; i-- {
		base := levels[i-1]
		last := base[len(base)-1]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

func diffOnce(vals []float64, lag int) []float64 {
	out := make([]float64, len(vals)-lag)
	for i := lag; i < len(vals); i++ {
		out[i-lag] = vals[i] - vals[i-lag]
	}
	return out
}
