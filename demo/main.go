// Package main walks the library end to end on synthetic monthly data:
// stationarity diagnostics, STL decomposition, automated SARIMA and ETS
// selection, interval forecasting against a hold-out year, and shape
// clustering of related series.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seriate/seriate/autofit"
	"github.com/seriate/seriate/cluster"
	"github.com/seriate/seriate/forecast"
	"github.com/seriate/seriate/stats"
	"github.com/seriate/seriate/stl"
	"github.com/seriate/seriate/timeseries"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	banner("seriate demonstration - decompose, select, forecast, cluster")

	series := monthlySeries()
	fmt.Printf("\nSynthetic monthly series: %d observations (%.1f to %.1f), period %d\n",
		series.Len(), series.Min(), series.Max(), series.Period())

	n := series.Len()
	train, err := series.Slice(0, n-12)
	if err != nil {
		log.Fatal().Err(err).Msg("train split")
	}
	test, err := series.Slice(n-12, n)
	if err != nil {
		log.Fatal().Err(err).Msg("test split")
	}
	fmt.Printf("Holding out the last %d months for accuracy checks\n", test.Len())

	diagnostics(train)
	decompose(train)
	best := selectModel(train)
	forecastAndScore(best, test)
	clusterShapes()

	banner("done")
}

// monthlySeries builds eight years of monthly data: an upward trend, a
// yearly cycle, and deterministic noise.
func monthlySeries() *timeseries.Series {
	n := 96
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		trend := 0.6 * float64(i)
		seasonal := 18 * math.Sin(2*math.Pi*float64(i)/12)
		noise := float64(i%7-3) / 1.5
		values[i] = 240 + trend + seasonal + noise
	}
	s, err := timeseries.New(values, 12)
	if err != nil {
		log.Fatal().Err(err).Msg("building series")
	}
	return s.WithName("monthly-demo")
}

func diagnostics(train *timeseries.Series) {
	banner("1. stationarity diagnostics")

	if adf, err := stats.ADF(train, 0); err == nil {
		fmt.Printf("   ADF:  statistic %.3f, p-value %.3f, stationary: %v\n",
			adf.Statistic, adf.PValue, adf.IsStationary)
	}
	if kpss, err := stats.KPSS(train, "c", 0); err == nil {
		fmt.Printf("   KPSS: statistic %.3f, p-value %.3f, stationary: %v\n",
			kpss.Statistic, kpss.PValue, kpss.IsStationary)
	}
	fmt.Printf("   Suggested differencing: d=%d, D=%d (seasonal strength %.2f)\n",
		stats.NDiffs(train, 2, "kpss"), stats.NSDiffs(train, 1), stats.SeasonalStrength(train))

	if acf := stats.ACFWithConfidence(train, 24); acf != nil {
		sig := acf.SignificantLags()
		if len(sig) > 8 {
			sig = sig[:8]
		}
		fmt.Printf("   Significant ACF lags (first few): %v\n", sig)
	}
}

func decompose(train *timeseries.Series) {
	banner("2. STL decomposition")

	decomp, err := stl.Decompose(train, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("decomposition")
	}

	fmt.Printf("   Seasonal strength: %.3f, trend strength: %.3f\n",
		decomp.SeasonalStrength(), decomp.TrendStrength())

	fmt.Println("   First months, observed = trend + seasonal + remainder:")
	for i := 0; i < 4; i++ {
		fmt.Printf("   %3d: %8.2f = %8.2f + %7.2f + %6.2f\n", i,
			decomp.Observed.At(i), decomp.Trend.At(i),
			decomp.Seasonal.At(i), decomp.Remainder.At(i))
	}
}

func selectModel(train *timeseries.Series) forecast.Fitted {
	banner("3. automated model selection")

	cfg := &autofit.Config{MaxP: 2, MaxQ: 2, MaxSP: 1, MaxSQ: 1}

	sar, err := autofit.SARIMA(train, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("sarima search")
	}
	fmt.Printf("   SARIMA search: %s, AICc %.2f (%d candidates, %d steps)\n",
		sar.SARIMA().Order, sar.Criterion, sar.Evaluated+sar.Rejected, sar.Steps)

	es, err := autofit.ETS(train, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("ets search")
	}
	fmt.Printf("   ETS search:    %s, AICc %.2f (%d candidates)\n",
		es.ETS().Spec, es.Criterion, es.Evaluated+es.Rejected)

	best, err := forecast.SelectBest(sar.Fitted, es.Fitted)
	if err != nil {
		log.Fatal().Err(err).Msg("model selection")
	}
	fmt.Printf("   Selected: %s (AIC %.2f vs %.2f)\n", best,
		math.Min(sar.AIC(), es.AIC()), math.Max(sar.AIC(), es.AIC()))
	return best
}

func forecastAndScore(best forecast.Fitted, test *timeseries.Series) {
	banner("4. forecast with 95% intervals")

	fc, err := best.Forecast(test.Len(), 0.95)
	if err != nil {
		log.Fatal().Err(err).Msg("forecasting")
	}

	fmt.Println("   step   forecast      95% interval      actual")
	actual := test.Values()
	for h := 0; h < fc.Horizon; h++ {
		fmt.Printf("   %4d   %8.2f   [%7.2f, %7.2f]   %7.2f\n",
			h+1, fc.Mean[h], fc.Lower[h], fc.Upper[h], actual[h])
	}

	acc := stats.Evaluate(actual, fc.Mean)
	fmt.Printf("   Hold-out accuracy: MAE %.2f, RMSE %.2f, MAPE %.2f%%\n",
		acc.MAE, acc.RMSE, acc.MAPE)
}

// clusterShapes groups nine series of three distinct shapes and prints the
// fuzzy memberships.
func clusterShapes() {
	banner("5. shape clustering")

	byLabel := make(map[string]*timeseries.Series)
	shapes := []struct {
		name string
		gen  func(i, member int) float64
	}{
		{"wave", func(i, m int) float64 {
			return 50 + 10*math.Sin(2*math.Pi*float64(i-m)/12) + 0.2*float64(m)
		}},
		{"ramp", func(i, m int) float64 {
			return 20 + 2*float64(i) + 0.2*float64(m)
		}},
		{"flat", func(i, m int) float64 {
			return 80 + 0.2*float64(m) + 0.3*float64(i%2)
		}},
	}
	for _, shape := range shapes {
		for member := 0; member < 3; member++ {
			values := make([]float64, 24)
			for i := range values {
				values[i] = shape.gen(i, member)
			}
			s, err := timeseries.New(values, 12)
			if err != nil {
				log.Fatal().Err(err).Msg("building cluster input")
			}
			byLabel[fmt.Sprintf("%s-%d", shape.name, member)] = s
		}
	}

	labels, series := cluster.Grouped(byLabel)
	assign, err := cluster.FuzzyCMeans(series, &cluster.Config{Clusters: 3, Seed: 42})
	if err != nil {
		log.Fatal().Err(err).Msg("clustering")
	}

	fmt.Printf("   Converged after %d iterations\n", assign.Iterations)
	fmt.Println("   label       memberships          dominant")
	for i, label := range labels {
		dom := assign.Dominant(i)
		_, k := assign.Membership.Dims()
		parts := make([]string, k)
		for kk := 0; kk < k; kk++ {
			parts[kk] = fmt.Sprintf("%.2f", assign.Membership.At(i, kk))
		}
		fmt.Printf("   %-9s   [%s]   cluster %d\n", label, strings.Join(parts, " "), dom)
	}
}

func banner(title string) {
	fmt.Printf("\n%s\n%s\n%s\n", strings.Repeat("=", 72), title, strings.Repeat("=", 72))
}
