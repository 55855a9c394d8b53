package stats

import (
	"math"

	"github.com/seriate/seriate/timeseries"
)

// NDiffs determines the number of first differences required for
// stationarity, capped at maxD (default 2). testType is "kpss" (default) or
// "adf". Returns 0 when the series is already stationary or too short to
// test.
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}
	if testType == "" {
		testType = "kpss"
	}

	current := series
	for d := 0; d < maxD; d++ {
		stationary := false

		if testType == "adf" {
			result, err := ADF(current, 0)
			if err != nil {
				return d
			}
			stationary = result.IsStationary
		} else {
			result, err := KPSS(current, "c", 0)
			if err != nil {
				return d
			}
			stationary = result.IsStationary
		}

		if stationary {
			return d
		}

		next, err := current.Diff()
		if err != nil || next.Len() < 10 {
			return d
		}
		current = next
	}

	return maxD
}

// NSDiffs determines the number of seasonal differences required, capped at
// maxD (default 1). A seasonal difference is suggested while the seasonal
// strength F_S is at least 0.64.
func NSDiffs(series *timeseries.Series, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	period := series.Period()
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if SeasonalStrength(current) < 0.64 {
			return d
		}

		next, err := current.SeasonalDiff()
		if err != nil || next.Len() < 2*period {
			return d
		}
		current = next
	}

	return maxD
}

// SeasonalStrength measures the strength of seasonality as
// F_S = max(0, 1 - Var(R)/Var(S+R)) over a classical additive decomposition,
// where S is the seasonal component and R the remainder. Returns 0 when the
// series is too short to decompose.
func SeasonalStrength(series *timeseries.Series) float64 {
	decomp, err := Decompose(series, Additive)
	if err != nil {
		return 0
	}

	varR := nanVariance(decomp.Remainder)

	sr := make([]float64, len(decomp.Seasonal))
	for i := range sr {
		if math.IsNaN(decomp.Remainder[i]) {
			sr[i] = math.NaN()
		} else {
			sr[i] = decomp.Seasonal[i] + decomp.Remainder[i]
		}
	}
	varSR := nanVariance(sr)

	if varSR == 0 {
		return 0
	}

	strength := 1 - varR/varSR
	if strength < 0 {
		strength = 0
	}
	return strength
}

// nanVariance is the sample variance ignoring NaN entries.
func nanVariance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	n := len(valid)
	if n < 2 {
		return 0
	}

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	mean := sum / float64(n)

	sumSq := 0.0
	for _, v := range valid {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(n-1)
}

// GaussianLogLik is the maximized Gaussian log-likelihood for a model whose
// residual sum of squares over n observations is sse.
func GaussianLogLik(sse float64, n int) float64 {
	if n == 0 || sse <= 0 {
		return math.Inf(-1)
	}
	nf := float64(n)
	return -nf / 2 * (math.Log(2*math.Pi) + math.Log(sse/nf) + 1)
}

// AICc applies the small-sample correction 2k(k+1)/(n-k-1) to an AIC value.
func AICc(aic float64, nObs, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return aic + 2*k*(k+1)/(n-k-1)
}

// InformationCriteria bundles the fit quality measures shared by every model
// family.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates all information criteria from a log-likelihood,
// observation count, and estimated parameter count.
func CalculateIC(logLik float64, nObs, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	var aicc float64
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	} else {
		aicc = math.Inf(1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}
