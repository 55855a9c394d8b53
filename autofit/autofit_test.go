package autofit

import (
	"errors"
	"math"
	"testing"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/ets"
	"github.com/seriate/seriate/forecast"
	"github.com/seriate/seriate/timeseries"
)

func buildSeries(t *testing.T, values []float64, period int) *timeseries.Series {
	t.Helper()
	s, err := timeseries.New(values, period)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	return s
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxP != 5 || cfg.MaxQ != 5 {
		t.Errorf("Expected MaxP=MaxQ=5, got %d/%d", cfg.MaxP, cfg.MaxQ)
	}
	if cfg.MaxD != 2 || cfg.MaxSD != 1 {
		t.Errorf("Expected MaxD=2 MaxSD=1, got %d/%d", cfg.MaxD, cfg.MaxSD)
	}
	if cfg.Criterion != "aicc" {
		t.Errorf("Expected Criterion='aicc', got %s", cfg.Criterion)
	}
	if cfg.StationarityTest != "kpss" {
		t.Errorf("Expected StationarityTest='kpss', got %s", cfg.StationarityTest)
	}
}

func TestConfigValidation(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i%5-2)
	}
	series := buildSeries(t, values, 1)

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"unknown criterion", &Config{Criterion: "mdl"}},
		{"unknown stationarity test", &Config{StationarityTest: "pp"}},
		{"negative order cap", &Config{MaxP: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SARIMA(series, tt.cfg); !errors.Is(err, seriate.ErrInvalidArgument) {
				t.Errorf("SARIMA error = %v, want ErrInvalidArgument", err)
			}
			if _, err := ETS(series, tt.cfg); !errors.Is(err, seriate.ErrInvalidArgument) {
				t.Errorf("ETS error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSARIMAStationary(t *testing.T) {
	// Stationary AR(1) data
	n := 200
	phi := 0.6
	values := make([]float64, n)
	values[0] = 100
	for i := 1; i < n; i++ {
		innovation := float64(i%7-3) / 3
		values[i] = phi*(values[i-1]-100) + 100 + innovation
	}
	series := buildSeries(t, values, 1)

	result, err := SARIMA(series, &Config{MaxP: 3, MaxQ: 3})
	if err != nil {
		t.Fatalf("SARIMA search failed: %v", err)
	}

	order := result.SARIMA().Order
	t.Logf("Selected %s, criterion %.2f, evaluated %d, steps %d",
		order, result.Criterion, result.Evaluated, result.Steps)

	if order.Seasonal() {
		t.Errorf("Period-1 series selected seasonal order %s", order)
	}
	if order.D > 1 {
		t.Logf("Warning: d=%d for stationary data", order.D)
	}
	if result.Evaluated < 2 {
		t.Errorf("Only %d candidates evaluated", result.Evaluated)
	}
}

func TestSARIMATrendingData(t *testing.T) {
	n := 150
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + 0.8*float64(i) + float64(i%5-2)/2
	}
	series := buildSeries(t, values, 1)

	result, err := SARIMA(series, &Config{MaxP: 2, MaxQ: 2})
	if err != nil {
		t.Fatalf("SARIMA search failed: %v", err)
	}

	order := result.SARIMA().Order
	t.Logf("Selected %s", order)

	if order.D < 1 {
		t.Errorf("Trending data selected d=%d, want at least 1", order.D)
	}
	if order.D > 2 {
		t.Errorf("d=%d exceeds the cap of 2", order.D)
	}
}

func TestSARIMASeasonalSearch(t *testing.T) {
	n := 120
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		trend := 0.3 * float64(i)
		seasonal := 15 * math.Sin(2*math.Pi*float64(i)/float64(period))
		values[i] = 100 + trend + seasonal + float64(i%5-2)/3
	}
	series := buildSeries(t, values, period)

	result, err := SARIMA(series, &Config{MaxP: 2, MaxQ: 2, MaxSP: 1, MaxSQ: 1})
	if err != nil {
		t.Fatalf("SARIMA search failed: %v", err)
	}
	if result.Family() != forecast.FamilySARIMA {
		t.Fatalf("Result family = %s, want sarima", result.Family())
	}

	order := result.SARIMA().Order
	t.Logf("Selected %s, criterion %.2f, evaluated %d, rejected %d",
		order, result.Criterion, result.Evaluated, result.Rejected)

	if order.SD > 1 {
		t.Errorf("Seasonal differencing %d exceeds the cap of 1", order.SD)
	}
	if order.SP > 1 || order.SQ > 1 {
		t.Errorf("Seasonal order %s exceeds the caps", order)
	}

	fc, err := result.Forecast(12, 0.95)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	for h := 0; h < 12; h++ {
		if fc.Lower[h] > fc.Mean[h] || fc.Mean[h] > fc.Upper[h] {
			t.Errorf("Bounds disordered at step %d", h)
		}
	}
}

func TestSARIMADeterministic(t *testing.T) {
	n := 96
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 50 + 0.2*float64(i) + 6*math.Sin(2*math.Pi*float64(i)/12) + float64(i%7-3)/3
	}
	series := buildSeries(t, values, 12)
	cfg := &Config{MaxP: 2, MaxQ: 2, MaxSP: 1, MaxSQ: 1, Workers: 4}

	first, err := SARIMA(series, cfg)
	if err != nil {
		t.Fatalf("First search failed: %v", err)
	}
	second, err := SARIMA(series, cfg)
	if err != nil {
		t.Fatalf("Second search failed: %v", err)
	}

	if first.SARIMA().Order != second.SARIMA().Order {
		t.Errorf("Runs selected different orders: %s vs %s",
			first.SARIMA().Order, second.SARIMA().Order)
	}
	if first.Criterion != second.Criterion {
		t.Errorf("Runs selected different criteria: %f vs %f",
			first.Criterion, second.Criterion)
	}
}

func TestSARIMAADFTest(t *testing.T) {
	n := 150
	values := make([]float64, n)
	values[0] = 100
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + 0.5 + float64(i%5-2)/5
	}
	series := buildSeries(t, values, 1)

	result, err := SARIMA(series, &Config{MaxP: 2, MaxQ: 2, StationarityTest: "adf"})
	if err != nil {
		t.Fatalf("SARIMA search failed: %v", err)
	}
	t.Logf("ADF test selected %s", result.SARIMA().Order)
}

func TestSARIMANoSurvivors(t *testing.T) {
	// Too short for any candidate, including the null model.
	values := make([]float64, 15)
	for i := range values {
		values[i] = float64(i%5 - 2)
	}
	series := buildSeries(t, values, 1)

	_, err := SARIMA(series, nil)
	if !errors.Is(err, seriate.ErrModelFit) {
		t.Errorf("Error = %v, want ErrModelFit", err)
	}
}

func TestETSSearch(t *testing.T) {
	n := 96
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 120 + 0.4*float64(i) + 10*math.Sin(2*math.Pi*float64(i)/float64(period)) + float64(i%5-2)/2
	}
	series := buildSeries(t, values, period)

	result, err := ETS(series, nil)
	if err != nil {
		t.Fatalf("ETS search failed: %v", err)
	}
	if result.Family() != forecast.FamilyETS {
		t.Fatalf("Result family = %s, want ets", result.Family())
	}

	spec := result.ETS().Spec
	t.Logf("Selected %s, criterion %.2f, evaluated %d, rejected %d",
		spec, result.Criterion, result.Evaluated, result.Rejected)

	if result.Evaluated < 6 {
		t.Errorf("Only %d specifications converged", result.Evaluated)
	}

	fc, err := result.Forecast(12, 0.95)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(fc.Mean) != 12 {
		t.Errorf("Forecast length %d, want 12", len(fc.Mean))
	}
}

func TestETSNonSeasonal(t *testing.T) {
	n := 80
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 40 + 0.5*float64(i) + float64(i%5-2)
	}
	series := buildSeries(t, values, 1)

	result, err := ETS(series, nil)
	if err != nil {
		t.Fatalf("ETS search failed: %v", err)
	}

	spec := result.ETS().Spec
	if spec.Season != ets.NoSeason {
		t.Errorf("Period-1 series selected seasonal spec %s", spec)
	}
	t.Logf("Selected %s from %d candidates", spec, result.Evaluated+result.Rejected)
}

func TestETSCriterionChoice(t *testing.T) {
	n := 90
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 60 + 0.3*float64(i) + float64(i%7-3)/2
	}
	series := buildSeries(t, values, 1)

	aiccRes, err := ETS(series, &Config{Criterion: "aicc"})
	if err != nil {
		t.Fatalf("AICc search failed: %v", err)
	}
	bicRes, err := ETS(series, &Config{Criterion: "bic"})
	if err != nil {
		t.Fatalf("BIC search failed: %v", err)
	}

	t.Logf("AICc criterion selected %s (%.2f)", aiccRes.ETS().Spec, aiccRes.Criterion)
	t.Logf("BIC criterion selected %s (%.2f)", bicRes.ETS().Spec, bicRes.Criterion)
}

func TestMonthlySelectionEndToEnd(t *testing.T) {
	// Six years of monthly data: downward trend plus a yearly cycle peaking
	// in month 3 of each year.
	n := 72
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 200 - 0.15*float64(i) + 5*math.Sin(2*math.Pi*float64(i)/float64(period)) + float64(i%5-2)/2
	}
	series := buildSeries(t, values, period)
	cfg := &Config{MaxP: 2, MaxQ: 2, MaxSP: 1, MaxSQ: 1}

	sar, err := SARIMA(series, cfg)
	if err != nil {
		t.Fatalf("SARIMA search failed: %v", err)
	}
	es, err := ETS(series, cfg)
	if err != nil {
		t.Fatalf("ETS search failed: %v", err)
	}
	t.Logf("sarima %s AIC=%.2f, ets %s AIC=%.2f",
		sar.SARIMA().Order, sar.AIC(), es.ETS().Spec, es.AIC())

	best, err := forecast.SelectBest(sar.Fitted, es.Fitted)
	if err != nil {
		t.Fatalf("SelectBest failed: %v", err)
	}
	if best.AIC() > math.Min(sar.AIC(), es.AIC()) {
		t.Errorf("Selected AIC %.2f is not the minimum", best.AIC())
	}
	t.Logf("Selected %s", best)

	fc, err := best.Forecast(12, 0.95)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	// The cycle peaks at forecast step 3; allow one month of slack.
	peak := 0
	for h := 1; h < 12; h++ {
		if fc.Mean[h] > fc.Mean[peak] {
			peak = h
		}
	}
	if peak < 2 || peak > 4 {
		t.Errorf("Forecast peak at step %d, want near 3 (forecast %v)", peak, fc.Mean)
	}

	prevWidth := 0.0
	for h := 0; h < 12; h++ {
		width := fc.Upper[h] - fc.Lower[h]
		if width < prevWidth-1e-9 {
			t.Errorf("Interval width shrank at step %d: %f < %f", h, width, prevWidth)
		}
		prevWidth = width
	}
}
