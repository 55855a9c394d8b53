// Package ets fits innovations state space exponential smoothing models.
package ets

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/stats"
	"github.com/seriate/seriate/timeseries"
)

// ErrorType selects the innovation form of an ETS model.
type ErrorType string

// TrendType selects the trend component.
type TrendType string

// SeasonType selects the seasonal component.
type SeasonType string

const (
	AdditiveError       ErrorType = "A"
	MultiplicativeError ErrorType = "M"

	NoTrend       TrendType = "N"
	AdditiveTrend TrendType = "A"
	DampedTrend   TrendType = "Ad"

	NoSeason             SeasonType = "N"
	AdditiveSeason       SeasonType = "A"
	MultiplicativeSeason SeasonType = "M"
)

// Spec identifies an ETS model by its error, trend, and season components.
// The zero value normalises to ETS(A,N,N), simple exponential smoothing.
type Spec struct {
	Error  ErrorType
	Trend  TrendType
	Season SeasonType
}

// String renders the spec in ETS(error,trend,season) notation.
func (s Spec) String() string {
	return fmt.Sprintf("ETS(%s,%s,%s)", s.Error, s.Trend, s.Season)
}

func (s Spec) normalize() Spec {
	if s.Error == "" {
		s.Error = AdditiveError
	}
	if s.Trend == "" {
		s.Trend = NoTrend
	}
	if s.Season == "" {
		s.Season = NoSeason
	}
	return s
}

func (s Spec) validate() error {
	switch s.Error {
	case AdditiveError, MultiplicativeError:
	default:
		return fmt.Errorf("ets: unknown error type %q: %w", s.Error, seriate.ErrInvalidArgument)
	}
	switch s.Trend {
	case NoTrend, AdditiveTrend, DampedTrend:
	default:
		return fmt.Errorf("ets: unknown trend type %q: %w", s.Trend, seriate.ErrInvalidArgument)
	}
	switch s.Season {
	case NoSeason, AdditiveSeason, MultiplicativeSeason:
	default:
		return fmt.Errorf("ets: unknown season type %q: %w", s.Season, seriate.ErrInvalidArgument)
	}
	return nil
}

func (s Spec) hasTrend() bool { return s.Trend != NoTrend }
func (s Spec) damped() bool   { return s.Trend == DampedTrend }
func (s Spec) seasonal() bool { return s.Season != NoSeason }

// multiplicative reports whether any component requires strictly positive data.
func (s Spec) multiplicative() bool {
	return s.Error == MultiplicativeError || s.Season == MultiplicativeSeason
}

func (s Spec) numSmoothing() int {
	n := 1
	if s.hasTrend() {
		n++
	}
	if s.seasonal() {
		n++
	}
	if s.damped() {
		n++
	}
	return n
}

// Admissible enumerates the specs that can legally be fitted to series:
// multiplicative components require strictly positive observations, and
// seasonal components require a period of at least two covered by at least
// two full cycles.
func Admissible(series *timeseries.Series) []Spec {
	positive := series.Min() > 0
	seasonalOK := series.Period() >= 2 && series.Len() >= 2*series.Period()

	errorTypes := []ErrorType{AdditiveError}
	if positive {
		errorTypes = append(errorTypes, MultiplicativeError)
	}
	trends := []TrendType{NoTrend, AdditiveTrend, DampedTrend}
	seasons := []SeasonType{NoSeason}
	if seasonalOK {
		seasons = append(seasons, AdditiveSeason)
		if positive {
			seasons = append(seasons, MultiplicativeSeason)
		}
	}

	specs := make([]Spec, 0, len(errorTypes)*len(trends)*len(seasons))
	for _, e := range errorTypes {
		for _, tr := range trends {
			for _, se := range seasons {
				specs = append(specs, Spec{Error: e, Trend: tr, Season: se})
			}
		}
	}
	return specs
}

// Model is a fitted exponential smoothing model.
type Model struct {
	Spec  Spec
	Alpha float64 // level smoothing
	Beta  float64 // trend smoothing, zero without trend
	Gamma float64 // seasonal smoothing, zero without seasonality
	Phi   float64 // damping, zero unless the trend is damped

	// Variance is the mean squared one-step error, the innovation variance
	// driving prediction intervals.
	Variance float64

	stats.InformationCriteria

	data       *timeseries.Series
	level      float64
	trend      float64
	seasonal   []float64 // final state per phase
	fittedVals []float64
	residuals  []float64
}

type params struct {
	alpha, beta, gamma, phi float64
}

type state struct {
	level float64
	trend float64
	seas  []float64
}

func (st *state) clone() *state {
	cp := *st
	if st.seas != nil {
		cp.seas = append([]float64(nil), st.seas...)
	}
	return &cp
}

// Fit estimates the smoothing parameters of spec on series by maximum
// likelihood. Initial states come from a decomposition heuristic; the
// parameters are then optimized with Nelder-Mead under the usual
// admissibility bounds.
func Fit(series *timeseries.Series, spec Spec) (*Model, error) {
	spec = spec.normalize()
	if err := spec.validate(); err != nil {
		return nil, err
	}

	n := series.Len()
	period := series.Period()
	if spec.seasonal() {
		if period < 2 {
			return nil, fmt.Errorf("ets: %s needs a seasonal period >= 2, got %d: %w",
				spec, period, seriate.ErrInvalidArgument)
		}
		if n < 2*period {
			return nil, fmt.Errorf("ets: %s needs %d observations for two cycles, got %d: %w",
				spec, 2*period, n, seriate.ErrInsufficientData)
		}
	}
	if n < 10 {
		return nil, fmt.Errorf("ets: %s needs at least 10 observations, got %d: %w",
			spec, n, seriate.ErrInsufficientData)
	}
	if spec.multiplicative() && series.Min() <= 0 {
		return nil, fmt.Errorf("ets: %s requires strictly positive observations: %w",
			spec, seriate.ErrInvalidArgument)
	}

	vals := series.Values()
	phase := series.Phase
	init := initialState(series, spec)

	obj := func(x []float64) float64 {
		par, pen := unpackParams(x, spec)
		if pen > 0 {
			return penaltyScale * (1 + pen)
		}
		fitted, ok := filter(vals, phase, spec, par, init.clone())
		if !ok {
			return penaltyScale
		}
		nll := -logLikelihood(vals, fitted, spec)
		if math.IsNaN(nll) {
			return penaltyScale
		}
		return nll
	}

	result, err := optimize.Minimize(optimize.Problem{Func: obj}, startParams(spec), nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("ets: %s optimization: %v: %w", spec, err, seriate.ErrModelFit)
	}
	par, pen := unpackParams(result.X, spec)
	if pen > 0 || result.F >= penaltyScale {
		return nil, fmt.Errorf("ets: %s found no admissible parameters: %w", spec, seriate.ErrModelFit)
	}

	final := init.clone()
	fitted, ok := filter(vals, phase, spec, par, final)
	if !ok {
		return nil, fmt.Errorf("ets: %s state recursion left the positive region: %w",
			spec, seriate.ErrModelFit)
	}

	residuals := make([]float64, n)
	sse := 0.0
	for t, f := range fitted {
		residuals[t] = vals[t] - f
		sse += residuals[t] * residuals[t]
	}
	logLik := logLikelihood(vals, fitted, spec)
	if math.IsNaN(logLik) {
		return nil, fmt.Errorf("ets: %s log-likelihood is NaN: %w", spec, seriate.ErrNumericInstability)
	}

	numInit := 1
	if spec.hasTrend() {
		numInit++
	}
	if spec.seasonal() {
		numInit += period
	}
	k := spec.numSmoothing() + numInit + 1

	m := &Model{
		Spec:       spec,
		Alpha:      par.alpha,
		Variance:   sse / float64(n),
		data:       series,
		level:      final.level,
		trend:      final.trend,
		seasonal:   final.seas,
		fittedVals: fitted,
		residuals:  residuals,
	}
	if spec.hasTrend() {
		m.Beta = par.beta
	}
	if spec.seasonal() {
		m.Gamma = par.gamma
	}
	if spec.damped() {
		m.Phi = par.phi
	}
	m.InformationCriteria = *stats.CalculateIC(logLik, n, k)
	return m, nil
}

const penaltyScale = 1e12

// Admissibility bounds for the smoothing parameters. Beta stays below alpha
// and gamma below 1-alpha; the damping factor is confined to the range where
// damped and linear trends remain distinguishable.
const (
	paramFloor = 1e-4
	alphaCeil  = 0.9999
	phiFloor   = 0.8
	phiCeil    = 0.98
)

func startParams(spec Spec) []float64 {
	x := []float64{0.3}
	if spec.hasTrend() {
		x = append(x, 0.05)
	}
	if spec.seasonal() {
		x = append(x, 0.05)
	}
	if spec.damped() {
		x = append(x, 0.95)
	}
	return x
}

// unpackParams maps the optimizer vector onto named parameters. The second
// return value is zero inside the admissible region and grows with the
// violation outside it.
func unpackParams(x []float64, spec Spec) (params, float64) {
	par := params{phi: 1}
	i := 0
	par.alpha = x[i]
	i++
	if spec.hasTrend() {
		par.beta = x[i]
		i++
	}
	if spec.seasonal() {
		par.gamma = x[i]
		i++
	}
	if spec.damped() {
		par.phi = x[i]
	}

	pen := 0.0
	exceed := func(v, lo, hi float64) {
		if v < lo {
			pen += lo - v
		}
		if v > hi {
			pen += v - hi
		}
	}
	exceed(par.alpha, paramFloor, alphaCeil)
	if spec.hasTrend() {
		exceed(par.beta, paramFloor, par.alpha)
	}
	if spec.seasonal() {
		exceed(par.gamma, paramFloor, 1-par.alpha)
	}
	if spec.damped() {
		exceed(par.phi, phiFloor, phiCeil)
	}
	return par, pen
}

// filter runs the error-correction recursions over the observations and
// returns the one-step forecast means. The state is advanced in place.
// Driving the updates with the raw error y-mu makes the state path identical
// for additive and multiplicative innovations; the error type only changes
// the likelihood. Returns ok=false if a multiplicative seasonal path hits a
// non-positive mean.
func filter(vals []float64, phase func(int) int, spec Spec, par params, st *state) (fitted []float64, ok bool) {
	fitted = make([]float64, len(vals))

	for t, y := range vals {
		base := st.level
		if spec.hasTrend() {
			base += par.phi * st.trend
		}

		mu := base
		var sPrev float64
		if spec.seasonal() {
			sPrev = st.seas[phase(t)]
			if spec.Season == AdditiveSeason {
				mu = base + sPrev
			} else {
				mu = base * sPrev
			}
		}
		fitted[t] = mu
		e := y - mu

		switch spec.Season {
		case MultiplicativeSeason:
			if base <= 1e-10 || math.Abs(sPrev) <= 1e-10 {
				return nil, false
			}
			st.level = base + par.alpha*e/sPrev
			if spec.hasTrend() {
				st.trend = par.phi*st.trend + par.beta*e/sPrev
			}
			st.seas[phase(t)] = sPrev + par.gamma*e/base
		case AdditiveSeason:
			st.level = base + par.alpha*e
			if spec.hasTrend() {
				st.trend = par.phi*st.trend + par.beta*e
			}
			st.seas[phase(t)] = sPrev + par.gamma*e
		default:
			st.level = base + par.alpha*e
			if spec.hasTrend() {
				st.trend = par.phi*st.trend + par.beta*e
			}
		}
	}
	return fitted, true
}

// logLikelihood is the Gaussian log-likelihood of the innovations. With
// multiplicative errors the innovation is relative, which adds the log of
// each one-step mean as a Jacobian term.
func logLikelihood(vals, fitted []float64, spec Spec) float64 {
	n := len(vals)
	if spec.Error == AdditiveError {
		sse := 0.0
		for t, f := range fitted {
			e := vals[t] - f
			sse += e * e
		}
		return stats.GaussianLogLik(sse, n)
	}

	relSSE := 0.0
	sumLogMu := 0.0
	for t, f := range fitted {
		if f == 0 {
			return math.NaN()
		}
		rel := (vals[t] - f) / f
		relSSE += rel * rel
		sumLogMu += math.Log(math.Abs(f))
	}
	return stats.GaussianLogLik(relSSE, n) - sumLogMu
}

// initialState seeds the recursion. Seasonal states come from per-phase
// averages over the first two cycles, the level and trend from the cycle
// means; without seasonality the first observations are used directly.
func initialState(series *timeseries.Series, spec Spec) *state {
	st := &state{}
	vals := series.Values()
	period := series.Period()

	if !spec.seasonal() {
		st.level = vals[0]
		if spec.hasTrend() && len(vals) > 1 {
			st.trend = vals[1] - vals[0]
		}
		return st
	}

	cycle1 := mean(vals[:period])
	cycle2 := mean(vals[period : 2*period])
	st.level = cycle1
	if spec.hasTrend() {
		st.trend = (cycle2 - cycle1) / float64(period)
	}

	st.seas = make([]float64, period)
	counts := make([]int, period)
	overall := mean(vals[:2*period])
	for i := 0; i < 2*period; i++ {
		p := series.Phase(i)
		if spec.Season == AdditiveSeason {
			st.seas[p] += vals[i] - overall
		} else {
			st.seas[p] += vals[i] / overall
		}
		counts[p]++
	}
	for p := range st.seas {
		st.seas[p] /= float64(counts[p])
	}

	// Normalise: additive indices sum to zero, multiplicative average to one.
	if spec.Season == AdditiveSeason {
		adjust := mean(st.seas)
		for p := range st.seas {
			st.seas[p] -= adjust
		}
	} else {
		adjust := mean(st.seas)
		if adjust != 0 {
			for p := range st.seas {
				st.seas[p] /= adjust
			}
		}
	}
	return st
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Residuals returns a copy of the one-step errors y - fitted.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// FittedValues returns a copy of the one-step forecast means.
func (m *Model) FittedValues() []float64 {
	out := make([]float64, len(m.fittedVals))
	copy(out, m.fittedVals)
	return out
}

// String renders the model spec.
func (m *Model) String() string {
	return m.Spec.String()
}

// Summary reports the fitted model.
type Summary struct {
	Spec     Spec
	Alpha    float64
	Beta     float64
	Gamma    float64
	Phi      float64
	Level    float64
	Trend    float64
	Seasonal []float64
	Variance float64
	AIC      float64
	AICc     float64
	BIC      float64
	LogLik   float64
	NObs     int
	LjungBox *stats.LjungBoxResult
}

// Summary returns the smoothing parameters, final states, information
// criteria, and a Ljung-Box test on the residuals.
func (m *Model) Summary() *Summary {
	seas := make([]float64, len(m.seasonal))
	copy(seas, m.seasonal)
	return &Summary{
		Spec:     m.Spec,
		Alpha:    m.Alpha,
		Beta:     m.Beta,
		Gamma:    m.Gamma,
		Phi:      m.Phi,
		Level:    m.level,
		Trend:    m.trend,
		Seasonal: seas,
		Variance: m.Variance,
		AIC:      m.AIC,
		AICc:     m.AICc,
		BIC:      m.BIC,
		LogLik:   m.LogLik,
		NObs:     m.data.Len(),
		LjungBox: stats.LjungBox(m.residuals, 10, m.Spec.numSmoothing()),
	}
}
