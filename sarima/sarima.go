// Package sarima estimates seasonal ARIMA models by conditional sum of squares.
package sarima

import (
	"fmt"
	"math"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/stats"
	"github.com/seriate/seriate/timeseries"
)

// Order identifies a SARIMA(p,d,q)(P,D,Q)[m] model.
type Order struct {
	P int // non-seasonal AR order
	D int // non-seasonal differencing order
	Q int // non-seasonal MA order
	// Seasonal components at lag Period.
	SP     int
	SD     int
	SQ     int
	Period int
}

// Seasonal reports whether the order has any seasonal component.
func (o Order) Seasonal() bool {
	return o.SP > 0 || o.SD > 0 || o.SQ > 0
}

// NumParams counts the estimated coefficients, including the intercept.
func (o Order) NumParams() int {
	return o.P + o.Q + o.SP + o.SQ + 1
}

// String renders the order in the usual (p,d,q)(P,D,Q)[m] notation.
func (o Order) String() string {
	if !o.Seasonal() {
		return fmt.Sprintf("SARIMA(%d,%d,%d)", o.P, o.D, o.Q)
	}
	return fmt.Sprintf("SARIMA(%d,%d,%d)(%d,%d,%d)[%d]",
		o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.Period)
}

func (o Order) validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 {
		return fmt.Errorf("sarima: negative component in order %v: %w", o, seriate.ErrInvalidArgument)
	}
	if o.Seasonal() && o.Period < 2 {
		return fmt.Errorf("sarima: seasonal order needs period >= 2, got %d: %w",
			o.Period, seriate.ErrInvalidArgument)
	}
	return nil
}

// Model is a fitted SARIMA model. Fitted values and residuals live on the
// differenced scale the coefficients were estimated on; Forecast integrates
// back to the original scale.
type Model struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64

	stats.InformationCriteria

	data       *timeseries.Series
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64
}

// Fit estimates a SARIMA model of the given order on series. The order's
// Period may be zero to inherit the series period; if set, it must match.
// Estimation minimises the conditional sum of squares with a momentum
// gradient method, then rejects models whose AR or MA polynomials have
// roots on or inside the unit circle.
func Fit(series *timeseries.Series, order Order) (*Model, error) {
	if order.Period == 0 {
		order.Period = series.Period()
	} else if order.Seasonal() && order.Period != series.Period() {
		return nil, fmt.Errorf("sarima: order period %d does not match series period %d: %w",
			order.Period, series.Period(), seriate.ErrInvalidArgument)
	}
	if err := order.validate(); err != nil {
		return nil, err
	}

	minLen := order.P + order.D + order.Q +
		(order.SP+order.SD+order.SQ)*order.Period + 20
	if series.Len() < minLen {
		return nil, fmt.Errorf("sarima: %s needs %d observations, got %d: %w",
			order, minLen, series.Len(), seriate.ErrInsufficientData)
	}

	diff := series
	var err error
	for i := 0; i < order.D; i++ {
		if diff, err = diff.Diff(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < order.SD; i++ {
		if diff, err = diff.SeasonalDiff(); err != nil {
			return nil, err
		}
	}

	m := &Model{
		Order:     order,
		ARCoeffs:  make([]float64, order.P),
		MACoeffs:  make([]float64, order.Q),
		SARCoeffs: make([]float64, order.SP),
		SMACoeffs: make([]float64, order.SQ),
		data:      series,
		diffData:  diff,
	}

	m.initCoeffs()
	m.optimizeCSS()
	if err := m.checkFinite(); err != nil {
		return nil, err
	}
	if err := m.checkRoots(); err != nil {
		return nil, err
	}
	m.calculateIC()
	return m, nil
}

// initCoeffs seeds the optimizer: Yule-Walker estimates for the AR part,
// damped seasonal autocorrelations for the seasonal AR part, and small
// constants for the MA parts.
func (m *Model) initCoeffs() {
	p := m.Order.P
	sp := m.Order.SP
	period := m.Order.Period

	m.Intercept = m.diffData.Mean()

	if p > 0 {
		if acf := stats.ACF(m.diffData, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(m.ARCoeffs, phi)
			}
		}
	}
	if sp > 0 {
		if acf := stats.ACF(m.diffData, sp*period); acf != nil {
			for i := 0; i < sp; i++ {
				idx := (i + 1) * period
				if idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}
}

// optimizeCSS minimises the conditional sum of squares with momentum
// gradient descent, a decaying learning rate, and best-solution tracking.
func (m *Model) optimizeCSS() {
	y := m.diffData.Values()
	n := len(y)
	p := m.Order.P
	q := m.Order.Q
	sp := m.Order.SP
	sq := m.Order.SQ
	period := m.Order.Period

	maxIter := 200
	tolerance := 1e-8
	learningRate := 0.005
	momentum := 0.9
	decay := 0.99

	arMomentum := make([]float64, p)
	maMomentum := make([]float64, q)
	sarMomentum := make([]float64, sp)
	smaMomentum := make([]float64, sq)

	// Skip the startup region where lagged terms are unavailable, unless
	// that would leave too few observations.
	startIdx := max(max(p, q), max(sp*period, sq*period))
	if startIdx >= n-10 {
		startIdx = 0
	}

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImprove := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		currentSSE := 0.0
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - m.predictOne(y, residuals, t, n)
			currentSSE += residuals[t] * residuals[t]
		}

		if currentSSE < bestSSE {
			bestSSE = currentSSE
			copy(bestAR, m.ARCoeffs)
			copy(bestMA, m.MACoeffs)
			copy(bestSAR, m.SARCoeffs)
			copy(bestSMA, m.SMACoeffs)
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > 20 {
			break
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)

		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sq; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		for i := 0; i < p; i++ {
			arMomentum[i] = momentum*arMomentum[i] + learningRate*arGrad[i]/float64(n)
			m.ARCoeffs[i] = clamp(m.ARCoeffs[i]-arMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < sp; i++ {
			sarMomentum[i] = momentum*sarMomentum[i] + learningRate*sarGrad[i]/float64(n)
			m.SARCoeffs[i] = clamp(m.SARCoeffs[i]-sarMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < q; i++ {
			maMomentum[i] = momentum*maMomentum[i] + learningRate*maGrad[i]/float64(n)
			m.MACoeffs[i] = clamp(m.MACoeffs[i]-maMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < sq; i++ {
			smaMomentum[i] = momentum*smaMomentum[i] + learningRate*smaGrad[i]/float64(n)
			m.SMACoeffs[i] = clamp(m.SMACoeffs[i]-smaMomentum[i], -0.99, 0.99)
		}

		learningRate *= decay

		if iter > 0 && math.Abs(currentSSE-bestSSE) < tolerance {
			break
		}
	}

	copy(m.ARCoeffs, bestAR)
	copy(m.MACoeffs, bestMA)
	copy(m.SARCoeffs, bestSAR)
	copy(m.SMACoeffs, bestSMA)

	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.fittedVals[t] = m.predictOne(y, m.residuals, t, n)
		m.residuals[t] = y[t] - m.fittedVals[t]
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if k := m.Order.NumParams(); count > k {
		m.Variance = sse / float64(count-k)
	} else {
		m.Variance = sse / float64(count)
	}
}

// predictOne evaluates the one-step prediction at index t. Residuals at or
// beyond limit are treated as zero, which makes the same routine usable for
// both in-sample fitting and out-of-sample extension.
func (m *Model) predictOne(y, residuals []float64, t, limit int) float64 {
	period := m.Order.Period
	pred := m.Intercept

	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		if t-i-1 < limit {
			pred += m.MACoeffs[i] * residuals[t-i-1]
		}
	}
	for i := 0; i < m.Order.SQ; i++ {
		if lag := (i + 1) * period; t-lag >= 0 && t-lag < limit {
			pred += m.SMACoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

func (m *Model) checkFinite() error {
	coeffs := [][]float64{m.ARCoeffs, m.MACoeffs, m.SARCoeffs, m.SMACoeffs}
	for _, group := range coeffs {
		for _, c := range group {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("sarima: %s estimation diverged: %w",
					m.Order, seriate.ErrNumericInstability)
			}
		}
	}
	if math.IsNaN(m.Variance) || math.IsInf(m.Variance, 0) || m.Variance < 0 {
		return fmt.Errorf("sarima: %s residual variance %g: %w",
			m.Order, m.Variance, seriate.ErrNumericInstability)
	}
	return nil
}

func (m *Model) calculateIC() {
	n := len(m.residuals)
	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}
	logLik := stats.GaussianLogLik(sse, n)
	m.InformationCriteria = *stats.CalculateIC(logLik, n, m.Order.NumParams())
}

// Residuals returns a copy of the one-step prediction errors on the
// differenced scale.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// FittedValues returns a copy of the one-step predictions on the
// differenced scale.
func (m *Model) FittedValues() []float64 {
	out := make([]float64, len(m.fittedVals))
	copy(out, m.fittedVals)
	return out
}

// String renders the model order.
func (m *Model) String() string {
	return m.Order.String()
}

// Summary reports the fitted model.
type Summary struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	NObs      int
	LjungBox  *stats.LjungBoxResult
}

// Summary returns the coefficient estimates, information criteria, and a
// Ljung-Box test on the residuals.
func (m *Model) Summary() *Summary {
	lb := stats.LjungBox(m.residuals, 10, m.Order.P+m.Order.Q+m.Order.SP+m.Order.SQ)
	return &Summary{
		Order:     m.Order,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		LogLik:    m.LogLik,
		NObs:      m.data.Len(),
		LjungBox:  lb,
	}
}

// yuleWalker solves the Yule-Walker equations for AR coefficients via
// Levinson-Durbin recursion on the sample autocorrelations.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
