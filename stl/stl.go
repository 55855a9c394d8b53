// Package stl implements seasonal-trend decomposition based on loess
// smoothing, after Cleveland et al. (1990).
package stl

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/timeseries"
)

// Config controls the decomposition. Zero values select the documented
// defaults, so &Config{} and nil behave like DefaultConfig.
type Config struct {
	// SeasonalWindow is the odd loess span, in cycles, for smoothing each
	// seasonal subseries. At least 7. Larger windows give a more slowly
	// drifting seasonal shape. Default: period+1 rounded up to odd, raised
	// to the 7 minimum.
	SeasonalWindow int

	// TrendWindow is the odd loess span for the trend component.
	// Default: nextOdd(ceil(1.5*period / (1 - 1.5/SeasonalWindow))).
	TrendWindow int

	// InnerIterations is the number of seasonal/trend refinement passes per
	// robustness cycle. Default 2.
	InnerIterations int

	// RobustIterations is the number of outer passes that reweight
	// observations by their remainder. Default 0 (no robustness loop);
	// 5 with a single inner pass is a common robust setting.
	RobustIterations int

	// Tolerance stops the inner loop early once the largest component change
	// falls below Tolerance times the observed value range. Default 1e-3.
	Tolerance float64
}

// DefaultConfig returns the default decomposition settings for the given
// seasonal period.
func DefaultConfig(period int) *Config {
	cfg := &Config{}
	cfg.fill(period)
	return cfg
}

func (c *Config) fill(period int) {
	if c.SeasonalWindow == 0 {
		c.SeasonalWindow = nextOdd(period + 1)
		if c.SeasonalWindow < 7 {
			c.SeasonalWindow = 7
		}
	}
	if c.TrendWindow == 0 {
		w := 1.5 * float64(period) / (1 - 1.5/float64(c.SeasonalWindow))
		c.TrendWindow = nextOdd(int(math.Ceil(w)))
	}
	if c.InnerIterations == 0 {
		c.InnerIterations = 2
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-3
	}
}

func (c *Config) validate() error {
	if c.SeasonalWindow < 7 || c.SeasonalWindow%2 == 0 {
		return fmt.Errorf("stl: seasonal window %d must be odd and at least 7: %w",
			c.SeasonalWindow, seriate.ErrInvalidArgument)
	}
	if c.TrendWindow < 3 || c.TrendWindow%2 == 0 {
		return fmt.Errorf("stl: trend window %d must be odd and at least 3: %w",
			c.TrendWindow, seriate.ErrInvalidArgument)
	}
	if c.InnerIterations < 1 {
		return fmt.Errorf("stl: inner iterations %d: %w", c.InnerIterations, seriate.ErrInvalidArgument)
	}
	if c.RobustIterations < 0 {
		return fmt.Errorf("stl: robust iterations %d: %w", c.RobustIterations, seriate.ErrInvalidArgument)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("stl: tolerance %g: %w", c.Tolerance, seriate.ErrInvalidArgument)
	}
	return nil
}

func nextOdd(n int) int {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// Decomposition is an additive split of a series into trend, seasonal, and
// remainder components, aligned index-for-index with the observed series:
// Observed = Trend + Seasonal + Remainder at every position.
type Decomposition struct {
	Observed  *timeseries.Series
	Trend     *timeseries.Series
	Seasonal  *timeseries.Series
	Remainder *timeseries.Series

	// SeasonalWindow records the loess span the seasonal component was
	// smoothed with.
	SeasonalWindow int
}

// SeasonalStrength measures how much of the detrended variation the seasonal
// component explains: max(0, 1 - Var(R)/Var(S+R)), in [0, 1].
func (d *Decomposition) SeasonalStrength() float64 {
	return componentStrength(d.Seasonal, d.Remainder)
}

// TrendStrength measures how much of the deseasonalized variation the trend
// explains: max(0, 1 - Var(R)/Var(T+R)), in [0, 1].
func (d *Decomposition) TrendStrength() float64 {
	return componentStrength(d.Trend, d.Remainder)
}

func componentStrength(component, remainder *timeseries.Series) float64 {
	r := remainder.Values()
	c := component.Values()
	cr := make([]float64, len(r))
	for i := range cr {
		cr[i] = c[i] + r[i]
	}
	varCR := stat.Variance(cr, nil)
	if varCR == 0 {
		return 0
	}
	s := 1 - stat.Variance(r, nil)/varCR
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Decompose splits the series into trend, seasonal, and remainder components.
// cfg may be nil for defaults. The series must cover at least two full
// seasonal cycles.
func Decompose(series *timeseries.Series, cfg *Config) (*Decomposition, error) {
	period := series.Period()
	if period < 2 {
		return nil, fmt.Errorf("stl: period %d has no seasonal cycle to extract: %w",
			period, seriate.ErrInvalidArgument)
	}
	n := series.Len()
	if n < 2*period {
		return nil, fmt.Errorf("stl: %d observations cover less than two cycles of period %d: %w",
			n, period, seriate.ErrInsufficientData)
	}

	if cfg == nil {
		cfg = &Config{}
	} else {
		c := *cfg
		cfg = &c
	}
	cfg.fill(period)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	vals := series.Values()
	valueRange := rangeOf(vals)

	trend := initialTrend(vals, period)
	seasonal := make([]float64, n)
	var rho []float64

	runInner := func() {
		detr := make([]float64, n)
		deseason := make([]float64, n)
		for it := 0; it < cfg.InnerIterations; it++ {
			for i := range vals {
				detr[i] = vals[i] - trend[i]
			}

			newSeasonal := smoothSubseries(series, detr, cfg.SeasonalWindow, rho)
			center := stat.Mean(newSeasonal, nil)
			for i := range newSeasonal {
				newSeasonal[i] -= center
			}

			for i := range vals {
				deseason[i] = vals[i] - newSeasonal[i]
			}
			newTrend := loess(deseason, cfg.TrendWindow, rho)

			delta := maxAbsDiff(trend, newTrend) + maxAbsDiff(seasonal, newSeasonal)
			copy(trend, newTrend)
			copy(seasonal, newSeasonal)

			if valueRange == 0 || delta <= cfg.Tolerance*valueRange {
				break
			}
		}
	}

	runInner()
	for r := 0; r < cfg.RobustIterations; r++ {
		rho = robustnessWeights(vals, trend, seasonal)
		runInner()
	}

	remainder := make([]float64, n)
	for i := range vals {
		remainder[i] = vals[i] - trend[i] - seasonal[i]
	}

	trendSeries, err := component(trend, series, "trend")
	if err != nil {
		return nil, err
	}
	seasonalSeries, err := component(seasonal, series, "seasonal")
	if err != nil {
		return nil, err
	}
	remainderSeries, err := component(remainder, series, "remainder")
	if err != nil {
		return nil, err
	}

	return &Decomposition{
		Observed:       series,
		Trend:          trendSeries,
		Seasonal:       seasonalSeries,
		Remainder:      remainderSeries,
		SeasonalWindow: cfg.SeasonalWindow,
	}, nil
}

func component(values []float64, src *timeseries.Series, name string) (*timeseries.Series, error) {
	s, err := timeseries.NewAt(values, src.Period(), src.Start())
	if err != nil {
		return nil, fmt.Errorf("stl: %s component: %w", name, seriate.ErrNumericInstability)
	}
	return s.WithName(name), nil
}

// smoothSubseries applies loess independently to each seasonal subseries of
// the detrended values and scatters the smooth back to series positions.
func smoothSubseries(series *timeseries.Series, detr []float64, window int, rho []float64) []float64 {
	period := series.Period()
	n := len(detr)
	out := make([]float64, n)

	idx := make([]int, 0, n/period+1)
	sub := make([]float64, 0, n/period+1)
	var subRho []float64

	for phase := 0; phase < period; phase++ {
		idx = idx[:0]
		sub = sub[:0]
		for t := 0; t < n; t++ {
			if series.Phase(t) == phase {
				idx = append(idx, t)
				sub = append(sub, detr[t])
			}
		}
		if len(idx) == 0 {
			continue
		}

		if rho != nil {
			subRho = subRho[:0]
			for _, t := range idx {
				subRho = append(subRho, rho[t])
			}
		} else {
			subRho = nil
		}

		smooth := loess(sub, window, subRho)
		for k, t := range idx {
			out[t] = smooth[k]
		}
	}
	return out
}

// initialTrend seeds the first pass with a centered moving average of window
// = period, half-weighting the endpoints for even periods and extending the
// edge values where the full window does not fit.
func initialTrend(vals []float64, period int) []float64 {
	n := len(vals)
	trend := make([]float64, n)
	half := period / 2

	firstValid, lastValid := -1, -1
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			sum = vals[i-half]*0.5 + vals[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += vals[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += vals[j]
			}
		}
		trend[i] = sum / float64(period)
		if firstValid < 0 {
			firstValid = i
		}
		lastValid = i
	}

	if firstValid < 0 {
		mean := stat.Mean(vals, nil)
		for i := range trend {
			trend[i] = mean
		}
		return trend
	}
	for i := 0; i < firstValid; i++ {
		trend[i] = trend[firstValid]
	}
	for i := lastValid + 1; i < n; i++ {
		trend[i] = trend[lastValid]
	}
	return trend
}

// robustnessWeights computes bisquare weights from the remainder, scaled by
// six times its median absolute value.
func robustnessWeights(vals, trend, seasonal []float64) []float64 {
	n := len(vals)
	absRem := make([]float64, n)
	for i := range vals {
		absRem[i] = math.Abs(vals[i] - trend[i] - seasonal[i])
	}

	sorted := make([]float64, n)
	copy(sorted, absRem)
	sort.Float64s(sorted)
	h := 6 * stat.Quantile(0.5, stat.Empirical, sorted, nil)

	rho := make([]float64, n)
	if h <= 0 {
		for i := range rho {
			rho[i] = 1
		}
		return rho
	}
	for i := range rho {
		rho[i] = bisquare(absRem[i] / h)
	}
	return rho
}

func maxAbsDiff(a, b []float64) float64 {
	max := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > max {
			max = d
		}
	}
	return max
}

func rangeOf(vals []float64) float64 {
	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}
