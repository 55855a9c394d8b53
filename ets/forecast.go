package ets

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/seriate/seriate"
)

// Forecast generates point forecasts with prediction intervals at the given
// confidence level. Variance accumulates the squared class-1 state space
// weights, so interval width never shrinks as the horizon grows. For
// multiplicative components the additive weights are the usual large-sample
// approximation.
func (m *Model) Forecast(steps int, level float64) (mean, lower, upper []float64, err error) {
	if steps < 1 {
		return nil, nil, nil, fmt.Errorf("ets: forecast horizon %d: %w",
			steps, seriate.ErrInvalidArgument)
	}
	if level <= 0 || level >= 1 {
		return nil, nil, nil, fmt.Errorf("ets: confidence level %g outside (0,1): %w",
			level, seriate.ErrInvalidArgument)
	}

	n := m.data.Len()
	mean = make([]float64, steps)
	lower = make([]float64, steps)
	upper = make([]float64, steps)

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + level) / 2)

	phiSum := 0.0
	cum := 1.0
	for h := 1; h <= steps; h++ {
		base := m.level
		switch m.Spec.Trend {
		case AdditiveTrend:
			base += float64(h) * m.trend
		case DampedTrend:
			phiSum += math.Pow(m.Phi, float64(h))
			base += phiSum * m.trend
		}

		yhat := base
		if m.Spec.seasonal() {
			s := m.seasonal[m.data.Phase(n+h-1)]
			if m.Spec.Season == AdditiveSeason {
				yhat = base + s
			} else {
				yhat = base * s
			}
		}
		mean[h-1] = yhat

		if h > 1 {
			c := m.cWeight(h - 1)
			cum += c * c
		}
		halfWidth := z * math.Sqrt(m.Variance*cum)
		lower[h-1] = yhat - halfWidth
		upper[h-1] = yhat + halfWidth
	}
	return mean, lower, upper, nil
}

// Predict generates point forecasts.
func (m *Model) Predict(steps int) ([]float64, error) {
	mean, _, _, err := m.Forecast(steps, 0.95)
	return mean, err
}

// cWeight is the class-1 variance weight c_j: the effect of the innovation
// at lead j on later forecasts through the level, trend, and seasonal
// states.
func (m *Model) cWeight(j int) float64 {
	c := m.Alpha
	switch m.Spec.Trend {
	case AdditiveTrend:
		c += m.Beta * float64(j)
	case DampedTrend:
		c += m.Beta * m.Phi * (1 - math.Pow(m.Phi, float64(j))) / (1 - m.Phi)
	}
	if m.Spec.seasonal() && j%m.data.Period() == 0 {
		c += m.Gamma
	}
	return c
}
