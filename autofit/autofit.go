// Package autofit implements automated SARIMA and ETS model selection.
package autofit

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/ets"
	"github.com/seriate/seriate/forecast"
	"github.com/seriate/seriate/sarima"
	"github.com/seriate/seriate/stats"
	"github.com/seriate/seriate/timeseries"
)

// Config holds the search configuration. Zero fields take the documented
// defaults.
type Config struct {
	MaxP  int // Maximum AR order (default: 5)
	MaxQ  int // Maximum MA order (default: 5)
	MaxSP int // Maximum seasonal AR order (default: 2)
	MaxSQ int // Maximum seasonal MA order (default: 2)
	MaxD  int // Maximum differencing order (default: 2)
	MaxSD int // Maximum seasonal differencing order (default: 1)

	Criterion        string // Information criterion: "aic", "aicc" or "bic" (default: "aicc")
	StationarityTest string // Differencing test: "kpss" or "adf" (default: "kpss")
	MaxSteps         int    // Stepwise moves accepted before stopping (default: 30)
	Workers          int    // Parallel fit limit (default: number of CPUs)
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:             5,
		MaxQ:             5,
		MaxSP:            2,
		MaxSQ:            2,
		MaxD:             2,
		MaxSD:            1,
		Criterion:        "aicc",
		StationarityTest: "kpss",
		MaxSteps:         30,
	}
}

func (c *Config) withDefaults() (Config, error) {
	var out Config
	if c != nil {
		out = *c
	}

	if out.MaxP < 0 || out.MaxQ < 0 || out.MaxSP < 0 || out.MaxSQ < 0 ||
		out.MaxD < 0 || out.MaxSD < 0 {
		return out, fmt.Errorf("autofit: negative order cap in config: %w", seriate.ErrInvalidArgument)
	}

	if out.MaxP == 0 {
		out.MaxP = 5
	}
	if out.MaxQ == 0 {
		out.MaxQ = 5
	}
	if out.MaxSP == 0 {
		out.MaxSP = 2
	}
	if out.MaxSQ == 0 {
		out.MaxSQ = 2
	}
	if out.MaxD == 0 {
		out.MaxD = 2
	}
	if out.MaxSD == 0 {
		out.MaxSD = 1
	}
	if out.MaxSteps <= 0 {
		out.MaxSteps = 30
	}
	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}

	switch out.Criterion {
	case "":
		out.Criterion = "aicc"
	case "aic", "aicc", "bic":
	default:
		return out, fmt.Errorf("autofit: unknown criterion %q: %w", out.Criterion, seriate.ErrInvalidArgument)
	}

	switch out.StationarityTest {
	case "":
		out.StationarityTest = "kpss"
	case "kpss", "adf":
	default:
		return out, fmt.Errorf("autofit: unknown stationarity test %q: %w",
			out.StationarityTest, seriate.ErrInvalidArgument)
	}

	return out, nil
}

// Result is the outcome of an automated search. The embedded Fitted exposes
// the winning model; the remaining fields describe the search itself.
type Result struct {
	forecast.Fitted

	Criterion float64 // criterion value of the winning model
	Evaluated int     // candidates that fitted successfully
	Rejected  int     // candidates that failed estimation or the root guards
	Steps     int     // stepwise moves accepted (SARIMA search only)
}

func criterionValue(ic stats.InformationCriteria, name string) float64 {
	switch name {
	case "aic":
		return ic.AIC
	case "bic":
		return ic.BIC
	default:
		return ic.AICc
	}
}

// candidate is a (p,q)(P,Q) tuple explored by the stepwise search; the
// differencing orders are fixed before the search starts.
type candidate struct {
	p, q, sp, sq int
}

func (c candidate) clip(conf Config, seasonal bool) candidate {
	c.p = min(c.p, conf.MaxP)
	c.q = min(c.q, conf.MaxQ)
	if !seasonal {
		c.sp, c.sq = 0, 0
		return c
	}
	c.sp = min(c.sp, conf.MaxSP)
	c.sq = min(c.sq, conf.MaxSQ)
	return c
}

func (c candidate) inBounds(conf Config, seasonal bool) bool {
	if c.p < 0 || c.p > conf.MaxP || c.q < 0 || c.q > conf.MaxQ {
		return false
	}
	if !seasonal {
		return c.sp == 0 && c.sq == 0
	}
	return c.sp >= 0 && c.sp <= conf.MaxSP && c.sq >= 0 && c.sq <= conf.MaxSQ
}

// neighbors is the ±1 neighborhood explored from the incumbent model.
func (c candidate) neighbors(seasonal bool) []candidate {
	if !seasonal {
		return []candidate{
			{c.p + 1, c.q, 0, 0},
			{c.p - 1, c.q, 0, 0},
			{c.p, c.q + 1, 0, 0},
			{c.p, c.q - 1, 0, 0},
			{c.p + 1, c.q + 1, 0, 0},
			{c.p - 1, c.q - 1, 0, 0},
		}
	}
	return []candidate{
		{c.p + 1, c.q, c.sp, c.sq},
		{c.p - 1, c.q, c.sp, c.sq},
		{c.p, c.q + 1, c.sp, c.sq},
		{c.p, c.q - 1, c.sp, c.sq},
		{c.p, c.q, c.sp + 1, c.sq},
		{c.p, c.q, c.sp - 1, c.sq},
		{c.p, c.q, c.sp, c.sq + 1},
		{c.p, c.q, c.sp, c.sq - 1},
	}
}

// SARIMA searches for the best SARIMA order on series using the stepwise
// method of Hyndman and Khandakar. Differencing orders are decided first by
// stationarity and seasonal-strength tests, then a fixed set of starting
// orders is fitted in parallel and the search hill-climbs through the ±1
// neighborhood of the incumbent until no neighbor improves the criterion or
// the step budget runs out. Candidates that fail estimation or the root
// guards are skipped. Returns ErrModelFit when no candidate converges.
func SARIMA(series *timeseries.Series, cfg *Config) (*Result, error) {
	conf, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	d := stats.NDiffs(series, conf.MaxD, conf.StationarityTest)
	seasonal := series.Period() >= 2 && series.Len() >= 2*series.Period()
	sd := 0
	if seasonal {
		sd = stats.NSDiffs(series, conf.MaxSD)
	}

	seeds := seedCandidates(series, d, conf, seasonal)
	visited := make(map[candidate]bool, len(seeds))
	for _, c := range seeds {
		visited[c] = true
	}

	res := &Result{}
	models := fitOrders(series, seeds, d, sd, conf)
	res.count(len(models), countFitted(models))

	bestIdx, bestVal := lowestCriterion(models, conf.Criterion)
	var best *sarima.Model
	var bestCand candidate
	if bestIdx >= 0 {
		best = models[bestIdx]
		bestCand = seeds[bestIdx]
	}

	for best != nil && res.Steps < conf.MaxSteps {
		var batch []candidate
		for _, nb := range bestCand.neighbors(seasonal) {
			if nb.inBounds(conf, seasonal) && !visited[nb] {
				visited[nb] = true
				batch = append(batch, nb)
			}
		}
		if len(batch) == 0 {
			break
		}

		models = fitOrders(series, batch, d, sd, conf)
		res.count(len(models), countFitted(models))

		idx, val := lowestCriterion(models, conf.Criterion)
		if idx < 0 || val >= bestVal {
			break
		}
		best = models[idx]
		bestCand = batch[idx]
		bestVal = val
		res.Steps++
	}

	if best == nil {
		return nil, fmt.Errorf("autofit: no SARIMA candidate converged: %w", seriate.ErrModelFit)
	}

	log.Debug().Stringer("order", best.Order).Float64("criterion", bestVal).
		Int("evaluated", res.Evaluated).Int("steps", res.Steps).Msg("sarima search finished")

	res.Fitted = forecast.FromSARIMA(best)
	res.Criterion = bestVal
	return res, nil
}

// seedCandidates builds the starting orders: the usual fixed set plus one
// suggested by the PACF and ACF cutoffs of the differenced series.
func seedCandidates(series *timeseries.Series, d int, conf Config, seasonal bool) []candidate {
	base := []candidate{
		{2, 2, 1, 1},
		{0, 0, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
	}

	diffed := series
	for i := 0; i < d; i++ {
		next, err := diffed.Diff()
		if err != nil {
			break
		}
		diffed = next
	}
	maxLag := max(conf.MaxP, conf.MaxQ)
	p0 := leadingRun(stats.PACFWithConfidence(diffed, maxLag), conf.MaxP)
	q0 := leadingRun(stats.ACFWithConfidence(diffed, maxLag), conf.MaxQ)
	if p0 > 0 || q0 > 0 {
		base = append(base, candidate{p0, q0, 0, 0})
	}

	seen := make(map[candidate]bool, len(base))
	seeds := make([]candidate, 0, len(base))
	for _, c := range base {
		c = c.clip(conf, seasonal)
		if !seen[c] {
			seen[c] = true
			seeds = append(seeds, c)
		}
	}
	return seeds
}

// leadingRun counts the consecutive significant lags starting at lag 1. A
// PACF that cuts off after lag p suggests an AR(p); an ACF that cuts off
// after lag q suggests an MA(q).
func leadingRun(c *stats.Correlogram, limit int) int {
	if c == nil {
		return 0
	}
	run := 0
	for lag := 1; lag < len(c.Values) && lag <= limit; lag++ {
		if math.Abs(c.Values[lag]) <= c.ConfBounds {
			break
		}
		run++
	}
	return run
}

// fitOrders fits every candidate in parallel. Each goroutine writes only its
// own slot; failed fits leave the slot nil.
func fitOrders(series *timeseries.Series, cands []candidate, d, sd int, conf Config) []*sarima.Model {
	models := make([]*sarima.Model, len(cands))

	g := new(errgroup.Group)
	g.SetLimit(conf.Workers)
	for i, c := range cands {
		g.Go(func() error {
			order := sarima.Order{P: c.p, D: d, Q: c.q, SP: c.sp, SD: sd, SQ: c.sq}
			m, err := sarima.Fit(series, order)
			if err != nil {
				log.Debug().Stringer("order", order).Err(err).Msg("sarima candidate rejected")
				return nil
			}
			models[i] = m
			return nil
		})
	}
	// Failed candidates are skipped, not propagated, so the group never errors.
	_ = g.Wait()

	return models
}

func countFitted(models []*sarima.Model) int {
	n := 0
	for _, m := range models {
		if m != nil {
			n++
		}
	}
	return n
}

func (r *Result) count(total, fitted int) {
	r.Evaluated += fitted
	r.Rejected += total - fitted
}

// lowestCriterion scans the slots in index order, so ties keep the earlier
// candidate and the result does not depend on goroutine timing.
func lowestCriterion(models []*sarima.Model, name string) (int, float64) {
	bestIdx := -1
	bestVal := math.Inf(1)
	for i, m := range models {
		if m == nil {
			continue
		}
		if v := criterionValue(m.InformationCriteria, name); v < bestVal {
			bestIdx, bestVal = i, v
		}
	}
	return bestIdx, bestVal
}

// ETS fits every admissible exponential smoothing specification for series in
// parallel and keeps the one with the lowest criterion. Specifications that
// fail estimation are skipped. Returns ErrModelFit when none converges.
func ETS(series *timeseries.Series, cfg *Config) (*Result, error) {
	conf, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	specs := ets.Admissible(series)
	models := make([]*ets.Model, len(specs))

	g := new(errgroup.Group)
	g.SetLimit(conf.Workers)
	for i, spec := range specs {
		g.Go(func() error {
			m, err := ets.Fit(series, spec)
			if err != nil {
				log.Debug().Stringer("spec", spec).Err(err).Msg("ets candidate rejected")
				return nil
			}
			models[i] = m
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	bestIdx := -1
	bestVal := math.Inf(1)
	for i, m := range models {
		if m == nil {
			res.Rejected++
			continue
		}
		res.Evaluated++
		if v := criterionValue(m.InformationCriteria, conf.Criterion); v < bestVal {
			bestIdx, bestVal = i, v
		}
	}

	if bestIdx < 0 {
		return nil, fmt.Errorf("autofit: no ETS specification converged: %w", seriate.ErrModelFit)
	}

	log.Debug().Stringer("spec", models[bestIdx].Spec).Float64("criterion", bestVal).
		Int("evaluated", res.Evaluated).Msg("ets search finished")

	res.Fitted = forecast.FromETS(models[bestIdx])
	res.Criterion = bestVal
	return res, nil
}
