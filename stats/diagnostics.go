package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is no autocorrelation up to the given lag: p-value
// < 0.05 indicates the residuals are not white noise. fitdf is the number of
// parameters estimated by the model that produced the residuals.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := acfValues(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}
	pValue := 1 - chi2.CDF(q)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    pValue,
		Lags:      lags,
		DOF:       dof,
	}
}

// Accuracy holds forecast accuracy measures against a hold-out sample.
type Accuracy struct {
	MAE  float64 // mean absolute error
	RMSE float64 // root mean squared error
	MAPE float64 // mean absolute percentage error, NaN if any actual is 0
}

// Evaluate computes accuracy measures over aligned actual and predicted
// values. The slices are truncated to the shorter length; an empty overlap
// returns the zero value.
func Evaluate(actual, predicted []float64) Accuracy {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return Accuracy{}
	}

	var sumAbs, sumSq, sumPct float64
	pctOK := true
	for i := 0; i < n; i++ {
		err := actual[i] - predicted[i]
		sumAbs += math.Abs(err)
		sumSq += err * err
		if actual[i] == 0 {
			pctOK = false
		} else {
			sumPct += math.Abs(err / actual[i])
		}
	}

	acc := Accuracy{
		MAE:  sumAbs / float64(n),
		RMSE: math.Sqrt(sumSq / float64(n)),
		MAPE: math.NaN(),
	}
	if pctOK {
		acc.MAPE = sumPct / float64(n) * 100
	}
	return acc
}
