package sarima

import (
	"errors"
	"math"
	"testing"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/timeseries"
)

func monthlySeries(t *testing.T, n int, trend, amplitude float64) *timeseries.Series {
	t.Helper()
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal := amplitude * math.Sin(2*math.Pi*float64(i)/12)
		noise := float64(i%5-2) / 2
		values[i] = 100 + trend*float64(i) + seasonal + noise
	}
	series, err := timeseries.New(values, 12)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	return series
}

func TestOrderString(t *testing.T) {
	tests := []struct {
		order Order
		want  string
	}{
		{Order{P: 1, D: 1, Q: 2}, "SARIMA(1,1,2)"},
		{Order{P: 1, Q: 1, SP: 1, SD: 1, SQ: 1, Period: 12}, "SARIMA(1,0,1)(1,1,1)[12]"},
		{Order{D: 1, Q: 1, SD: 1, SQ: 1, Period: 4}, "SARIMA(0,1,1)(0,1,1)[4]"},
	}
	for _, tt := range tests {
		if got := tt.order.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFitMonthlyData(t *testing.T) {
	series := monthlySeries(t, 120, 0.5, 20)

	model, err := Fit(series, Order{P: 1, SP: 1})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if model.Order.Period != 12 {
		t.Errorf("Expected inherited period 12, got %d", model.Order.Period)
	}
	if math.IsNaN(model.AIC) || math.IsInf(model.AIC, 0) {
		t.Errorf("AIC not finite: %f", model.AIC)
	}
	if model.AICc <= model.AIC {
		t.Errorf("AICc %f should exceed AIC %f", model.AICc, model.AIC)
	}

	t.Logf("%s - AIC: %f, BIC: %f", model, model.AIC, model.BIC)
	t.Logf("AR coeffs: %v", model.ARCoeffs)
	t.Logf("SAR coeffs: %v", model.SARCoeffs)
}

func TestFitWithDifferencing(t *testing.T) {
	series := monthlySeries(t, 144, 0.3, 15)

	model, err := Fit(series, Order{P: 1, D: 1, SP: 1, SD: 1})
	if err != nil {
		t.Fatalf("Failed to fit SARIMA(1,1,0)(1,1,0)[12]: %v", err)
	}

	// One ordinary and one seasonal difference consume 13 observations.
	if got := len(model.Residuals()); got != 144-13 {
		t.Errorf("Expected %d residuals on differenced scale, got %d", 144-13, got)
	}

	t.Logf("%s - AIC: %f, BIC: %f", model, model.AIC, model.BIC)
}

func TestFitValidation(t *testing.T) {
	series := monthlySeries(t, 120, 0.2, 10)

	tests := []struct {
		name  string
		order Order
		want  error
	}{
		{"negative order", Order{P: -1}, seriate.ErrInvalidArgument},
		{"period mismatch", Order{P: 1, SP: 1, Period: 4}, seriate.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Fit(series, tt.order); !errors.Is(err, tt.want) {
				t.Errorf("Fit() error = %v, want %v", err, tt.want)
			}
		})
	}

	short, err := timeseries.New([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 4)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	if _, err := Fit(short, Order{P: 1}); !errors.Is(err, seriate.ErrInsufficientData) {
		t.Errorf("Fit() on 8 observations error = %v, want ErrInsufficientData", err)
	}
}

func TestFitNullModel(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 50 + float64(i%5-2)
	}
	series, err := timeseries.New(values, 1)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}

	model, err := Fit(series, Order{})
	if err != nil {
		t.Fatalf("Failed to fit null model: %v", err)
	}

	if math.Abs(model.Intercept-series.Mean()) > 1e-9 {
		t.Errorf("Null model intercept %f, want series mean %f", model.Intercept, series.Mean())
	}

	mean, lower, upper, err := model.Forecast(6, 0.95)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	for h := range mean {
		if math.Abs(mean[h]-model.Intercept) > 1e-9 {
			t.Errorf("Forecast %d = %f, want flat intercept %f", h, mean[h], model.Intercept)
		}
	}
	// White noise carries no horizon effect, so the interval stays constant.
	width0 := upper[0] - lower[0]
	for h := 1; h < len(mean); h++ {
		if math.Abs((upper[h]-lower[h])-width0) > 1e-9 {
			t.Errorf("Interval width changed at h=%d: %f vs %f", h, upper[h]-lower[h], width0)
		}
	}
	if width0 <= 0 {
		t.Errorf("Interval width should be positive, got %f", width0)
	}
}

func TestForecastLinearTrend(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 2 + 3*float64(i)
	}
	series, err := timeseries.New(values, 1)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}

	model, err := Fit(series, Order{D: 1})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	mean, err := model.Predict(5)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for h, f := range mean {
		want := 2 + 3*float64(40+h)
		if math.Abs(f-want) > 1e-6 {
			t.Errorf("Forecast %d = %f, want exact line continuation %f", h, f, want)
		}
	}
}

func TestForecastQuadraticTrend(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i * i)
	}
	series, err := timeseries.New(values, 1)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}

	model, err := Fit(series, Order{D: 2})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	// Second differences of i^2 are the constant 2, so double integration
	// must reproduce the parabola exactly.
	mean, err := model.Predict(5)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for h, f := range mean {
		want := float64((40 + h) * (40 + h))
		if math.Abs(f-want) > 1e-5*want {
			t.Errorf("Forecast %d = %f, want %f", h, f, want)
		}
	}
}

func TestForecastSeasonalPattern(t *testing.T) {
	series := monthlySeries(t, 96, 0, 10)

	model, err := Fit(series, Order{D: 1, Q: 1, SD: 1, SQ: 1})
	if err != nil {
		t.Fatalf("Failed to fit airline model: %v", err)
	}

	mean, err := model.Predict(12)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	peak := 0
	for h, f := range mean {
		if f > mean[peak] {
			peak = h
		}
	}
	// The sinusoid peaks at index 3 within each cycle; indices 96..107
	// put that at forecast step 3.
	dist := (peak - 3 + 12) % 12
	if dist > 6 {
		dist = 12 - dist
	}
	if dist > 1 {
		t.Errorf("Forecast peak at step %d, want within one month of step 3 (forecasts %v)", peak, mean)
	}
}

func TestForecastIntervals(t *testing.T) {
	series := monthlySeries(t, 120, 0.4, 12)

	model, err := Fit(series, Order{P: 1, D: 1, SD: 1})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	mean, lower, upper, err := model.Forecast(24, 0.95)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(mean) != 24 || len(lower) != 24 || len(upper) != 24 {
		t.Fatalf("Expected 24 forecasts, got %d/%d/%d", len(mean), len(lower), len(upper))
	}

	prevWidth := 0.0
	for h := 0; h < 24; h++ {
		if math.IsNaN(mean[h]) || math.IsInf(mean[h], 0) {
			t.Fatalf("Forecast %d is not finite: %f", h, mean[h])
		}
		if lower[h] > mean[h] || mean[h] > upper[h] {
			t.Errorf("Bounds disordered at h=%d: %f <= %f <= %f", h, lower[h], mean[h], upper[h])
		}
		width := upper[h] - lower[h]
		if width < prevWidth-1e-9 {
			t.Errorf("Interval width shrank at h=%d: %f < %f", h, width, prevWidth)
		}
		prevWidth = width
	}

	// Wider confidence level widens the band everywhere.
	_, lower99, upper99, err := model.Forecast(24, 0.99)
	if err != nil {
		t.Fatalf("Forecast at 0.99 failed: %v", err)
	}
	for h := 0; h < 24; h++ {
		if upper99[h]-lower99[h] <= upper[h]-lower[h] {
			t.Errorf("99%% interval not wider than 95%% at h=%d", h)
		}
	}
}

func TestForecastInvalidArguments(t *testing.T) {
	series := monthlySeries(t, 60, 0, 5)

	model, err := Fit(series, Order{P: 1})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	tests := []struct {
		name  string
		steps int
		level float64
	}{
		{"zero steps", 0, 0.95},
		{"negative steps", -3, 0.95},
		{"zero level", 12, 0},
		{"unit level", 12, 1},
		{"level above one", 12, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := model.Forecast(tt.steps, tt.level); !errors.Is(err, seriate.ErrInvalidArgument) {
				t.Errorf("Forecast(%d, %g) error = %v, want ErrInvalidArgument",
					tt.steps, tt.level, err)
			}
		})
	}
}

func TestPsiWeights(t *testing.T) {
	ar1 := &Model{Order: Order{P: 1, Period: 1}, ARCoeffs: []float64{0.5}}
	psi := ar1.psiWeights(4)
	want := []float64{1, 0.5, 0.25, 0.125}
	for j := range want {
		if math.Abs(psi[j]-want[j]) > 1e-12 {
			t.Errorf("AR(1) psi[%d] = %f, want %f", j, psi[j], want[j])
		}
	}

	ma1 := &Model{Order: Order{Q: 1, Period: 1}, MACoeffs: []float64{0.4}}
	psi = ma1.psiWeights(4)
	want = []float64{1, 0.4, 0, 0}
	for j := range want {
		if math.Abs(psi[j]-want[j]) > 1e-12 {
			t.Errorf("MA(1) psi[%d] = %f, want %f", j, psi[j], want[j])
		}
	}

	// A pure random walk keeps psi at one forever, so forecast variance
	// grows linearly with the horizon.
	rw := &Model{Order: Order{D: 1, Period: 1}}
	psi = rw.psiWeights(5)
	for j := range psi {
		if math.Abs(psi[j]-1) > 1e-12 {
			t.Errorf("Random walk psi[%d] = %f, want 1", j, psi[j])
		}
	}
}

func TestRootChecks(t *testing.T) {
	stationary := &Model{Order: Order{P: 1, Period: 1}, ARCoeffs: []float64{0.5}}
	if err := stationary.checkRoots(); err != nil {
		t.Errorf("AR(1) with phi=0.5 should pass: %v", err)
	}

	explosive := &Model{Order: Order{P: 2, Period: 1}, ARCoeffs: []float64{0.6, 0.6}}
	if err := explosive.checkRoots(); !errors.Is(err, seriate.ErrModelFit) {
		t.Errorf("AR(2) with phi=(0.6,0.6) error = %v, want ErrModelFit", err)
	}

	// theta=(0.99,-0.99) puts an inverse MA root at modulus 1.6.
	nonInvertible := &Model{Order: Order{Q: 2, Period: 1}, MACoeffs: []float64{0.99, -0.99}}
	if err := nonInvertible.checkRoots(); !errors.Is(err, seriate.ErrModelFit) {
		t.Errorf("MA(2) outside invertible region error = %v, want ErrModelFit", err)
	}

	seasonal := &Model{
		Order:     Order{P: 1, SP: 1, Period: 4},
		ARCoeffs:  []float64{0.4},
		SARCoeffs: []float64{0.3},
	}
	if err := seasonal.checkRoots(); err != nil {
		t.Errorf("Stationary seasonal model should pass: %v", err)
	}
}

func TestPolynomialExpansion(t *testing.T) {
	m := &Model{
		Order:     Order{P: 1, D: 1, SP: 1, SD: 1, Period: 4},
		ARCoeffs:  []float64{0.5},
		SARCoeffs: []float64{0.3},
	}

	// phi(B)*PHI(B^4) = (1-0.5B)(1-0.3B^4)
	ar := m.arPolynomial()
	wantAR := []float64{1, -0.5, 0, 0, -0.3, 0.15}
	if len(ar) != len(wantAR) {
		t.Fatalf("arPolynomial length %d, want %d", len(ar), len(wantAR))
	}
	for i := range wantAR {
		if math.Abs(ar[i]-wantAR[i]) > 1e-12 {
			t.Errorf("arPolynomial[%d] = %f, want %f", i, ar[i], wantAR[i])
		}
	}

	full := m.fullARPolynomial()
	if wantDeg := 1 + 4 + 1 + 4; len(full)-1 != wantDeg {
		t.Errorf("fullARPolynomial degree %d, want %d", len(full)-1, wantDeg)
	}
	// Every polynomial here has constant term 1.
	if math.Abs(full[0]-1) > 1e-12 {
		t.Errorf("fullARPolynomial[0] = %f, want 1", full[0])
	}
}

func TestSummary(t *testing.T) {
	series := monthlySeries(t, 96, 0.2, 8)

	model, err := Fit(series, Order{P: 1, Q: 1, SP: 1})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	summary := model.Summary()
	if summary == nil {
		t.Fatal("Summary should not be nil")
	}
	if summary.NObs != 96 {
		t.Errorf("Expected NObs=96, got %d", summary.NObs)
	}
	if summary.LjungBox == nil {
		t.Error("Summary should include a Ljung-Box test")
	}

	t.Logf("%s - AIC: %.2f, BIC: %.2f", summary.Order, summary.AIC, summary.BIC)
	t.Logf("AR: %v, MA: %v, SAR: %v", summary.ARCoeffs, summary.MACoeffs, summary.SARCoeffs)
}

func TestResidualAccessorsCopy(t *testing.T) {
	series := monthlySeries(t, 72, 0, 6)

	model, err := Fit(series, Order{P: 1})
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	res := model.Residuals()
	fitted := model.FittedValues()
	if len(res) != 72 || len(fitted) != 72 {
		t.Fatalf("Expected 72 residuals and fitted values, got %d/%d", len(res), len(fitted))
	}

	res[0] = 1e9
	if model.Residuals()[0] == 1e9 {
		t.Error("Residuals() must return a copy")
	}

	vals := series.Values()
	for i := range vals {
		if math.Abs(fitted[i]+res[i]-vals[i]) > 1e-9 {
			t.Errorf("fitted+residual != observed at %d", i)
			break
		}
	}
}

func TestMultipleOrders(t *testing.T) {
	series := monthlySeries(t, 96, 0.2, 10)

	tests := []struct {
		name  string
		order Order
	}{
		{"SARIMA(1,0,0)(1,0,0)[12]", Order{P: 1, SP: 1}},
		{"SARIMA(0,0,1)(0,0,1)[12]", Order{Q: 1, SQ: 1}},
		{"SARIMA(1,0,1)(1,0,1)[12]", Order{P: 1, Q: 1, SP: 1, SQ: 1}},
		{"SARIMA(1,1,0)(1,1,0)[12]", Order{P: 1, D: 1, SP: 1, SD: 1}},
		{"SARIMA(2,1,1)(1,0,1)[12]", Order{P: 2, D: 1, Q: 1, SP: 1, SQ: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Fit(series, tt.order)
			if err != nil {
				t.Logf("%s rejected: %v", tt.name, err)
				return
			}

			forecasts, err := model.Predict(6)
			if err != nil {
				t.Errorf("Prediction failed: %v", err)
				return
			}
			t.Logf("%s - AICc: %.2f, forecasts: %v", model, model.AICc, forecasts)
		})
	}
}

func TestQuarterlyData(t *testing.T) {
	n := 80
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		var seasonal float64
		switch i % 4 {
		case 0:
			seasonal = -10
		case 1:
			seasonal = 5
		case 2:
			seasonal = 15
		case 3:
			seasonal = -5
		}
		values[i] = 100 + 0.5*float64(i) + seasonal + float64(i%3-1)
	}
	series, err := timeseries.New(values, 4)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}

	model, err := Fit(series, Order{P: 1, SP: 1, SD: 1})
	if err != nil {
		t.Fatalf("Failed to fit quarterly model: %v", err)
	}

	forecasts, err := model.Predict(4)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	t.Logf("Quarterly %s - AIC: %f, forecasts: %v", model, model.AIC, forecasts)
}
