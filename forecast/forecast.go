// Package forecast unifies fitted models behind one selection and
// forecasting surface.
package forecast

import (
	"fmt"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/ets"
	"github.com/seriate/seriate/sarima"
)

// Family labels the model family inside a Fitted value.
type Family string

const (
	FamilySARIMA Family = "sarima"
	FamilyETS    Family = "ets"
)

// Fitted wraps a fitted model of either family. The zero value is empty;
// Forecast and SelectBest reject it.
type Fitted struct {
	family Family
	sar    *sarima.Model
	es     *ets.Model
}

// FromSARIMA wraps a fitted SARIMA model.
func FromSARIMA(m *sarima.Model) Fitted {
	if m == nil {
		return Fitted{}
	}
	return Fitted{family: FamilySARIMA, sar: m}
}

// FromETS wraps a fitted ETS model.
func FromETS(m *ets.Model) Fitted {
	if m == nil {
		return Fitted{}
	}
	return Fitted{family: FamilyETS, es: m}
}

// Family returns the wrapped model's family, or the empty string for the
// zero value.
func (f Fitted) Family() Family { return f.family }

// SARIMA returns the wrapped SARIMA model, or nil for other families.
func (f Fitted) SARIMA() *sarima.Model { return f.sar }

// ETS returns the wrapped ETS model, or nil for other families.
func (f Fitted) ETS() *ets.Model { return f.es }

func (f Fitted) empty() bool { return f.family == "" }

// String renders the wrapped model's order or spec.
func (f Fitted) String() string {
	switch f.family {
	case FamilySARIMA:
		return f.sar.String()
	case FamilyETS:
		return f.es.String()
	}
	return "<empty>"
}

// AIC of the wrapped model.
func (f Fitted) AIC() float64 {
	if f.family == FamilyETS {
		return f.es.AIC
	}
	return f.sar.AIC
}

// AICc of the wrapped model.
func (f Fitted) AICc() float64 {
	if f.family == FamilyETS {
		return f.es.AICc
	}
	return f.sar.AICc
}

// BIC of the wrapped model.
func (f Fitted) BIC() float64 {
	if f.family == FamilyETS {
		return f.es.BIC
	}
	return f.sar.BIC
}

// LogLik of the wrapped model.
func (f Fitted) LogLik() float64 {
	if f.family == FamilyETS {
		return f.es.LogLik
	}
	return f.sar.LogLik
}

// FittedValues of the wrapped model.
func (f Fitted) FittedValues() []float64 {
	switch f.family {
	case FamilySARIMA:
		return f.sar.FittedValues()
	case FamilyETS:
		return f.es.FittedValues()
	}
	return nil
}

// Residuals of the wrapped model.
func (f Fitted) Residuals() []float64 {
	switch f.family {
	case FamilySARIMA:
		return f.sar.Residuals()
	case FamilyETS:
		return f.es.Residuals()
	}
	return nil
}

// Result is a forecast with prediction intervals. Mean, Lower, and Upper
// all have Horizon entries, and Lower[h] <= Mean[h] <= Upper[h] at every
// step.
type Result struct {
	Horizon int
	Level   float64
	Mean    []float64
	Lower   []float64
	Upper   []float64
}

// Forecast produces steps forecasts with intervals at the given confidence
// level, dispatching to the wrapped model.
func (f Fitted) Forecast(steps int, level float64) (*Result, error) {
	if f.empty() {
		return nil, fmt.Errorf("forecast: empty model: %w", seriate.ErrInvalidArgument)
	}
	if steps < 1 {
		return nil, fmt.Errorf("forecast: horizon %d: %w", steps, seriate.ErrInvalidArgument)
	}
	if level <= 0 || level >= 1 {
		return nil, fmt.Errorf("forecast: confidence level %g outside (0,1): %w",
			level, seriate.ErrInvalidArgument)
	}

	var mean, lower, upper []float64
	var err error
	switch f.family {
	case FamilySARIMA:
		mean, lower, upper, err = f.sar.Forecast(steps, level)
	case FamilyETS:
		mean, lower, upper, err = f.es.Forecast(steps, level)
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Horizon: steps,
		Level:   level,
		Mean:    mean,
		Lower:   lower,
		Upper:   upper,
	}, nil
}

// SelectBest picks the candidate with the lowest AIC. Ties fall back to
// BIC, and an exact tie on both prefers ETS over SARIMA. At least one
// candidate is required, and none may be empty.
func SelectBest(candidates ...Fitted) (Fitted, error) {
	if len(candidates) == 0 {
		return Fitted{}, fmt.Errorf("forecast: no candidates: %w", seriate.ErrInvalidArgument)
	}
	for i, c := range candidates {
		if c.empty() {
			return Fitted{}, fmt.Errorf("forecast: candidate %d is empty: %w",
				i, seriate.ErrInvalidArgument)
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if preferred(c, best) {
			best = c
		}
	}
	return best, nil
}

func preferred(a, b Fitted) bool {
	if a.AIC() != b.AIC() {
		return a.AIC() < b.AIC()
	}
	if a.BIC() != b.BIC() {
		return a.BIC() < b.BIC()
	}
	return a.Family() == FamilyETS && b.Family() != FamilyETS
}
