package cluster

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/dtw"
	"github.com/seriate/seriate/timeseries"
)

// shapeSeries builds one member of a synthetic shape group. Members differ
// by a small offset, and wave members are also phase-shifted so only a
// warping distance sees them as alike.
func shapeSeries(t *testing.T, kind string, member int) *timeseries.Series {
	t.Helper()
	n := 24
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		jitter := 0.2 * float64(member)
		switch kind {
		case "wave":
			values[i] = 50 + 10*math.Sin(2*math.Pi*float64(i-member)/12) + jitter
		case "ramp":
			values[i] = 20 + 2*float64(i) + jitter
		default:
			values[i] = 80 + jitter + 0.3*float64(i%2)
		}
	}
	s, err := timeseries.New(values, 12)
	if err != nil {
		t.Fatalf("building %s series: %v", kind, err)
	}
	return s
}

func threeGroups(t *testing.T) []*timeseries.Series {
	t.Helper()
	var series []*timeseries.Series
	for _, kind := range []string{"wave", "ramp", "flat"} {
		for member := 0; member < 3; member++ {
			series = append(series, shapeSeries(t, kind, member))
		}
	}
	return series
}

func TestPairwiseDistances(t *testing.T) {
	series := threeGroups(t)

	dist, err := PairwiseDistances(series, nil)
	if err != nil {
		t.Fatalf("PairwiseDistances failed: %v", err)
	}

	n := len(series)
	for i := 0; i < n; i++ {
		if d := dist.At(i, i); d != 0 {
			t.Errorf("Diagonal entry (%d,%d) = %f, want 0", i, i, d)
		}
		for j := i + 1; j < n; j++ {
			if dist.At(i, j) != dist.At(j, i) {
				t.Errorf("Matrix not symmetric at (%d,%d)", i, j)
			}
			if dist.At(i, j) < 0 {
				t.Errorf("Negative distance at (%d,%d)", i, j)
			}
		}
	}

	// Spot-check one entry against a direct computation.
	direct, err := dtw.Distance(series[0].Values(), series[4].Values(), nil)
	if err != nil {
		t.Fatalf("direct distance: %v", err)
	}
	if got := dist.At(0, 4); got != direct {
		t.Errorf("dist(0,4) = %f, direct computation %f", got, direct)
	}

	// Same-shape pairs sit closer than cross-shape pairs.
	if dist.At(0, 1) >= dist.At(0, 3) {
		t.Errorf("Within-group distance %f not below cross-group %f", dist.At(0, 1), dist.At(0, 3))
	}
}

func TestFuzzyCMeansThreeGroups(t *testing.T) {
	series := threeGroups(t)

	assign, err := FuzzyCMeans(series, &Config{Clusters: 3, Seed: 42})
	if err != nil {
		t.Fatalf("FuzzyCMeans failed: %v", err)
	}

	if !assign.Converged {
		t.Errorf("Did not converge in %d iterations", assign.Iterations)
	}
	if len(assign.Centroids) != 3 {
		t.Fatalf("Got %d centroids, want 3", len(assign.Centroids))
	}

	// Every row is a probability vector.
	rows, cols := assign.Membership.Dims()
	if rows != len(series) || cols != 3 {
		t.Fatalf("Membership dims %dx%d, want %dx3", rows, cols, len(series))
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for kk := 0; kk < cols; kk++ {
			u := assign.Membership.At(i, kk)
			if u < 0 || u > 1 {
				t.Errorf("Membership (%d,%d) = %f outside [0,1]", i, kk, u)
			}
			sum += u
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("Row %d sums to %f, want 1", i, sum)
		}
	}

	// Each shape group shares a dominant cluster, with groups separated.
	groupCluster := make([]int, 3)
	for group := 0; group < 3; group++ {
		first := assign.Dominant(group * 3)
		groupCluster[group] = first
		for member := 0; member < 3; member++ {
			idx := group*3 + member
			dom := assign.Dominant(idx)
			if dom != first {
				t.Errorf("Series %d assigned to cluster %d, groupmates to %d", idx, dom, first)
			}
			if u := assign.Membership.At(idx, dom); u <= 0.5 {
				t.Errorf("Series %d dominant membership %f, want > 0.5", idx, u)
			}
		}
	}
	if groupCluster[0] == groupCluster[1] || groupCluster[0] == groupCluster[2] ||
		groupCluster[1] == groupCluster[2] {
		t.Errorf("Groups share dominant clusters: %v", groupCluster)
	}

	// The wave group's centroid keeps the seasonal swing.
	waveCentroid := assign.Centroids[groupCluster[0]]
	if swing := waveCentroid.Max() - waveCentroid.Min(); swing < 10 {
		t.Errorf("Wave centroid range %f, want at least 10", swing)
	}
	t.Logf("converged after %d iterations, groups %v", assign.Iterations, groupCluster)
}

func TestFuzzyCMeansDeterministic(t *testing.T) {
	cfg := &Config{Clusters: 3, Seed: 7}

	first, err := FuzzyCMeans(threeGroups(t), cfg)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := FuzzyCMeans(threeGroups(t), cfg)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if !mat.Equal(first.Membership, second.Membership) {
		t.Error("Same seed produced different memberships")
	}
	if first.Iterations != second.Iterations {
		t.Errorf("Iteration counts differ: %d vs %d", first.Iterations, second.Iterations)
	}
	for kk := range first.Centroids {
		a, b := first.Centroids[kk].Values(), second.Centroids[kk].Values()
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("Centroid %d differs at position %d", kk, i)
			}
		}
	}
}

func TestFuzzyCMeansValidation(t *testing.T) {
	series := threeGroups(t)

	tests := []struct {
		name   string
		series []*timeseries.Series
		cfg    *Config
	}{
		{"more clusters than series", series[:3], &Config{Clusters: 4}},
		{"single cluster", series, &Config{Clusters: 1}},
		{"no series", nil, &Config{Clusters: 2}},
		{"nil series entry", []*timeseries.Series{series[0], nil}, &Config{Clusters: 2}},
		{"fuzzifier at 1", series, &Config{Clusters: 3, Fuzziness: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FuzzyCMeans(tt.series, tt.cfg); !errors.Is(err, seriate.ErrInvalidArgument) {
				t.Errorf("Error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestFuzzyCMeansIterationCap(t *testing.T) {
	series := threeGroups(t)

	assign, err := FuzzyCMeans(series, &Config{Clusters: 3, Seed: 1, MaxIterations: 2})
	if err != nil {
		t.Fatalf("FuzzyCMeans failed: %v", err)
	}
	if assign.Iterations > 2 {
		t.Errorf("Ran %d iterations with a cap of 2", assign.Iterations)
	}
}

func TestGrouped(t *testing.T) {
	byLabel := map[string]*timeseries.Series{
		"west":  shapeSeries(t, "wave", 0),
		"east":  shapeSeries(t, "ramp", 0),
		"north": shapeSeries(t, "flat", 0),
	}

	labels, series := Grouped(byLabel)
	want := []string{"east", "north", "west"}
	if len(labels) != 3 || len(series) != 3 {
		t.Fatalf("Got %d labels and %d series, want 3 each", len(labels), len(series))
	}
	for i, l := range labels {
		if l != want[i] {
			t.Errorf("labels[%d] = %s, want %s", i, l, want[i])
		}
		if series[i] != byLabel[l] {
			t.Errorf("series[%d] does not match its label %s", i, l)
		}
	}
}
