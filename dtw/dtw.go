// Package dtw computes dynamic time warping distances and alignments.
package dtw

import (
	"fmt"
	"math"

	"github.com/seriate/seriate"
)

// ErrEmptySequence is returned when either input sequence has no values.
var ErrEmptySequence = fmt.Errorf("dtw: empty sequence: %w", seriate.ErrInvalidArgument)

// CostFunc measures the local cost of aligning two observations.
type CostFunc func(a, b float64) float64

// AbsoluteCost is the absolute difference |a-b|, the default local cost.
func AbsoluteCost(a, b float64) float64 {
	return math.Abs(a - b)
}

// SquaredCost is the squared difference (a-b)². It penalizes large
// deviations more heavily than AbsoluteCost.
func SquaredCost(a, b float64) float64 {
	d := a - b
	return d * d
}

// Options configures the alignment.
type Options struct {
	// Window is the Sakoe-Chiba band half-width: alignment cells keep
	// |i-j| within the window, reducing the search to O(n·w). Zero or
	// negative means no constraint. The window is widened to the length
	// difference of the inputs when smaller, otherwise no complete
	// alignment would exist.
	Window int

	// Cost is the local cost function. Nil means AbsoluteCost.
	Cost CostFunc
}

func (o *Options) resolve(n, m int) (CostFunc, int) {
	cost := AbsoluteCost
	window := 0
	if o != nil {
		if o.Cost != nil {
			cost = o.Cost
		}
		window = o.Window
	}
	if window > 0 {
		diff := n - m
		if diff < 0 {
			diff = -diff
		}
		if window < diff {
			window = diff
		}
	}
	return cost, window
}

func validate(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmptySequence
	}
	for i, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("dtw: non-finite value %f at index %d: %w", v, i, seriate.ErrInvalidArgument)
		}
	}
	for i, v := range b {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("dtw: non-finite value %f at index %d: %w", v, i, seriate.ErrInvalidArgument)
		}
	}
	return nil
}

// Distance computes the dynamic time warping distance between a and b: the
// minimal cumulative local cost over all monotonic, continuous alignments of
// the two sequences. Only two rows of the cumulative matrix are kept, so
// memory stays O(m) and the warping path is not recovered; use DistancePath
// when the alignment itself is needed.
func Distance(a, b []float64, opts *Options) (float64, error) {
	if err := validate(a, b); err != nil {
		return 0, err
	}
	n, m := len(a), len(b)
	cost, window := opts.resolve(n, m)

	// Row 0 represents the virtual start cell: only (1,1) may reach it.
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = math.Inf(1)
	}

	for i := 1; i <= n; i++ {
		lo, hi := 1, m
		if window > 0 {
			lo = max(1, i-window)
			hi = min(m, i+window)
		}
		for j := 0; j <= m; j++ {
			curr[j] = math.Inf(1)
		}
		for j := lo; j <= hi; j++ {
			best := min(prev[j-1], prev[j], curr[j-1])
			curr[j] = cost(a[i-1], b[j-1]) + best
		}
		prev, curr = curr, prev
	}

	return prev[m], nil
}

// Step is one cell of a warping path, pairing index I of the first sequence
// with index J of the second.
type Step struct {
	I, J int
}

// DistancePath computes the dynamic time warping distance together with the
// optimal warping path. The path starts at (0,0), ends at (n-1,m-1), and
// advances each index by at most one per step. Requires the full cumulative
// matrix, so memory is O(n·m).
func DistancePath(a, b []float64, opts *Options) (float64, []Step, error) {
	if err := validate(a, b); err != nil {
		return 0, nil, err
	}
	n, m := len(a), len(b)
	cost, window := opts.resolve(n, m)

	stride := m + 1
	cum := make([]float64, (n+1)*stride)
	for i := range cum {
		cum[i] = math.Inf(1)
	}
	cum[0] = 0

	for i := 1; i <= n; i++ {
		lo, hi := 1, m
		if window > 0 {
			lo = max(1, i-window)
			hi = min(m, i+window)
		}
		for j := lo; j <= hi; j++ {
			best := min(cum[(i-1)*stride+j-1], cum[(i-1)*stride+j], cum[i*stride+j-1])
			cum[i*stride+j] = cost(a[i-1], b[j-1]) + best
		}
	}

	dist := cum[n*stride+m]

	// Backtrace, preferring the diagonal on ties so the path stays short.
	path := make([]Step, 0, n+m)
	i, j := n, m
	for i > 1 || j > 1 {
		path = append(path, Step{i - 1, j - 1})
		diag := cum[(i-1)*stride+j-1]
		up := cum[(i-1)*stride+j]
		left := cum[i*stride+j-1]
		switch {
		case i > 1 && j > 1 && diag <= up && diag <= left:
			i, j = i-1, j-1
		case i > 1 && up <= left:
			i--
		default:
			j--
		}
	}
	path = append(path, Step{0, 0})

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return dist, path, nil
}
