// Package timeseries provides the immutable series container used throughout
// the library: ordered real-valued observations with a fixed seasonal period
// and a start offset tracking how many observations transforms have consumed.
package timeseries

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/seriate/seriate"
)

// Series is a regularly-spaced sequence of observations with seasonal period
// m. A Series is immutable once constructed: transforms return new values,
// and accessors copy. The start offset records the position of the first
// observation relative to the original series, so seasonal phase is preserved
// across differencing and slicing.
type Series struct {
	values []float64
	period int
	start  int
	name   string
}

// New creates a series from values with the given seasonal period. The input
// must be non-empty, gap-free (no NaN or infinite entries), and period must be
// at least 1 (1 means no seasonality).
func New(values []float64, period int) (*Series, error) {
	return NewAt(values, period, 0)
}

// NewAt is New with an explicit start offset into the seasonal cycle.
func NewAt(values []float64, period, start int) (*Series, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("timeseries: empty series: %w", seriate.ErrInvalidArgument)
	}
	if period < 1 {
		return nil, fmt.Errorf("timeseries: period %d: %w", period, seriate.ErrInvalidArgument)
	}
	if start < 0 {
		return nil, fmt.Errorf("timeseries: negative start offset %d: %w", start, seriate.ErrInvalidArgument)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("timeseries: non-finite value at index %d: %w", i, seriate.ErrInvalidArgument)
		}
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return &Series{values: vals, period: period, start: start}, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.values)
}

// Period returns the seasonal period m.
func (s *Series) Period() int {
	return s.period
}

// Start returns the offset of the first observation relative to the series
// this one was derived from.
func (s *Series) Start() int {
	return s.start
}

// Name returns the series label.
func (s *Series) Name() string {
	return s.name
}

// WithName returns a copy of the series carrying the given label.
func (s *Series) WithName(name string) *Series {
	c := s.copy()
	c.name = name
	return c
}

// At returns the observation at index i.
func (s *Series) At(i int) float64 {
	return s.values[i]
}

// Phase returns the seasonal phase of index i, accounting for the start
// offset: observations one full period apart share a phase.
func (s *Series) Phase(i int) int {
	return (s.start + i) % s.period
}

// Values returns a copy of the observations.
func (s *Series) Values() []float64 {
	vals := make([]float64, len(s.values))
	copy(vals, s.values)
	return vals
}

// Mean returns the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	return stat.Mean(s.values, nil)
}

// Variance returns the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.values) < 2 {
		return 0
	}
	return stat.Variance(s.values, nil)
}

// Std returns the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the smallest observation.
func (s *Series) Min() float64 {
	return floats.Min(s.values)
}

// Max returns the largest observation.
func (s *Series) Max() float64 {
	return floats.Max(s.values)
}

// Diff returns the first difference y[t] - y[t-1]. The result is one
// observation shorter and its start offset advances by one.
func (s *Series) Diff() (*Series, error) {
	return s.diffLag(1, "_diff")
}

// SeasonalDiff returns the seasonal difference y[t] - y[t-m] at the series
// period. The result is one period shorter and its start offset advances by
// one period, so phases are unchanged.
func (s *Series) SeasonalDiff() (*Series, error) {
	return s.diffLag(s.period, "_sdiff")
}

func (s *Series) diffLag(lag int, suffix string) (*Series, error) {
	if len(s.values) <= lag {
		return nil, fmt.Errorf("timeseries: %d observations cannot difference at lag %d: %w",
			len(s.values), lag, seriate.ErrInsufficientData)
	}
	result := make([]float64, len(s.values)-lag)
	for i := lag; i < len(s.values); i++ {
		result[i-lag] = s.values[i] - s.values[i-lag]
	}
	return &Series{
		values: result,
		period: s.period,
		start:  s.start + lag,
		name:   s.name + suffix,
	}, nil
}

// Slice returns the sub-series over [from, to). The start offset advances by
// from.
func (s *Series) Slice(from, to int) (*Series, error) {
	if from < 0 || to > len(s.values) || from >= to {
		return nil, fmt.Errorf("timeseries: slice [%d:%d) of %d observations: %w",
			from, to, len(s.values), seriate.ErrInvalidArgument)
	}
	values := make([]float64, to-from)
	copy(values, s.values[from:to])
	return &Series{
		values: values,
		period: s.period,
		start:  s.start + from,
		name:   s.name,
	}, nil
}

// MovingAverage returns the trailing simple moving average over the given
// window. Each output aligns with the last observation of its window, so the
// start offset advances by window-1.
func (s *Series) MovingAverage(window int) (*Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("timeseries: moving-average window %d: %w", window, seriate.ErrInvalidArgument)
	}
	if window > len(s.values) {
		return nil, fmt.Errorf("timeseries: window %d exceeds %d observations: %w",
			window, len(s.values), seriate.ErrInsufficientData)
	}
	result := make([]float64, len(s.values)-window+1)
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += s.values[i]
	}
	result[0] = sum / float64(window)
	for i := window; i < len(s.values); i++ {
		sum = sum - s.values[i-window] + s.values[i]
		result[i-window+1] = sum / float64(window)
	}
	return &Series{
		values: result,
		period: s.period,
		start:  s.start + window - 1,
		name:   s.name + "_ma",
	}, nil
}

// Normalize returns the z-score standardized series. A constant series is
// returned unchanged.
func (s *Series) Normalize() *Series {
	std := s.Std()
	if std == 0 {
		return s.copy()
	}
	mean := s.Mean()
	result := make([]float64, len(s.values))
	for i, v := range s.values {
		result[i] = (v - mean) / std
	}
	return &Series{
		values: result,
		period: s.period,
		start:  s.start,
		name:   s.name + "_z",
	}
}

func (s *Series) copy() *Series {
	values := make([]float64, len(s.values))
	copy(values, s.values)
	return &Series{values: values, period: s.period, start: s.start, name: s.name}
}
