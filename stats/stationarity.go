package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/timeseries"
)

// ADFResult represents the result of an augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // critical values at 1%, 5%, 10%
	IsStationary bool
}

// ADF performs the augmented Dickey-Fuller test for a unit root.
// The null hypothesis is that the series has a unit root (is non-stationary):
// p-value < 0.05 rejects the null in favor of stationarity.
// maxLag <= 0 selects the default floor((n-1)^(1/3)).
func ADF(series *timeseries.Series, maxLag int) (*ADFResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, fmt.Errorf("stats: ADF needs at least 10 observations, got %d: %w", n, seriate.ErrInsufficientData)
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff, err := series.Diff()
	if err != nil {
		return nil, err
	}
	dv := diff.Values()
	vals := series.Values()

	// Regression: delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i}).
	// The test statistic is the t-stat on beta.
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil, fmt.Errorf("stats: ADF with %d lags leaves %d usable observations: %w",
			maxLag, nObs, seriate.ErrInsufficientData)
	}

	k := 2 + maxLag
	y := make([]float64, nObs)
	x := mat.NewDense(nObs, k, nil)

	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = dv[t]

		x.Set(i, 0, 1)       // constant
		x.Set(i, 1, vals[t]) // lagged level
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, dv[t-j]) // lagged differences
		}
	}

	coeffs, se, err := olsRegression(x, y)
	if err != nil {
		return nil, err
	}

	tStat := coeffs[1] / se[1]

	// Approximate critical values with constant, no trend.
	criticalVals := map[string]float64{
		"1%":  -3.43,
		"5%":  -2.86,
		"10%": -2.57,
	}

	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		CriticalVals: criticalVals,
		IsStationary: pValue < 0.05,
	}, nil
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for stationarity.
// The null hypothesis is that the series is stationary: p-value < 0.05
// rejects the null. regression is "c" for level stationarity or "ct" to also
// remove a linear trend. nlags <= 0 selects the default ceil(12*(n/100)^0.25).
func KPSS(series *timeseries.Series, regression string, nlags int) (*KPSSResult, error) {
	n := series.Len()
	if n < 10 {
		return nil, fmt.Errorf("stats: KPSS needs at least 10 observations, got %d: %w", n, seriate.ErrInsufficientData)
	}
	if regression != "c" && regression != "ct" {
		return nil, fmt.Errorf("stats: KPSS regression %q (want \"c\" or \"ct\"): %w",
			regression, seriate.ErrInvalidArgument)
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	vals := series.Values()
	residuals := make([]float64, n)

	if regression == "ct" {
		// Remove constant and linear trend.
		sumT := 0.0
		sumY := 0.0
		sumTY := 0.0
		sumT2 := 0.0
		for i, v := range vals {
			t := float64(i)
			sumT += t
			sumY += v
			sumTY += t * v
			sumT2 += t * t
		}
		nf := float64(n)
		b := (nf*sumTY - sumT*sumY) / (nf*sumT2 - sumT*sumT)
		a := (sumY - b*sumT) / nf

		for i, v := range vals {
			residuals[i] = v - a - b*float64(i)
		}
	} else {
		mean := series.Mean()
		for i, v := range vals {
			residuals[i] = v - mean
		}
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Long-run variance estimator with Bartlett weights (Newey-West).
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)

	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1.0 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}

	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	kpssStat := etaSq / (float64(n) * float64(n) * s2)

	var criticalVals map[string]float64
	if regression == "ct" {
		criticalVals = map[string]float64{
			"10%": 0.119,
			"5%":  0.146,
			"1%":  0.216,
		}
	} else {
		criticalVals = map[string]float64{
			"10%": 0.347,
			"5%":  0.463,
			"1%":  0.739,
		}
	}

	pValue := kpssPValue(kpssStat, regression)

	// Null is stationarity, so failing to reject means stationary.
	return &KPSSResult{
		Statistic:    kpssStat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: pValue >= 0.05,
	}, nil
}

// olsRegression solves y = X*beta by least squares via QR and returns the
// coefficients with their standard errors.
func olsRegression(x *mat.Dense, y []float64) (coeffs, stdErrors []float64, err error) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, fmt.Errorf("stats: OLS with %d observations and %d regressors: %w",
			n, k, seriate.ErrInsufficientData)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		return nil, nil, fmt.Errorf("stats: OLS solve: %w", seriate.ErrNumericInstability)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	sse := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		sse += r * r
	}

	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, fmt.Errorf("stats: singular regressor matrix: %w", seriate.ErrNumericInstability)
	}

	s2 := sse / float64(n-k)
	coeffs = make([]float64, k)
	stdErrors = make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
		stdErrors[i] = math.Sqrt(s2 * xtxInv.At(i, i))
	}

	return coeffs, stdErrors, nil
}

// mackinnonPValue approximates the p-value for the ADF statistic using the
// MacKinnon (1994) response surface, constant-only regression.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue approximates the p-value for the KPSS statistic by interpolating
// the published critical-value tables.
func kpssPValue(stat float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case stat > 0.216:
			return 0.01
		case stat > 0.146:
			return 0.05
		case stat > 0.119:
			return 0.10
		default:
			return 0.10 + (0.119-stat)*2
		}
	}

	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
