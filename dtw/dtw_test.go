package dtw

import (
	"errors"
	"math"
	"testing"

	"github.com/seriate/seriate"
)

func TestDistanceIdentity(t *testing.T) {
	a := []float64{1, 3, 2, 5, 4, 2, 1}

	dist, err := Distance(a, a, nil)
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if dist != 0 {
		t.Errorf("Distance of a sequence to itself = %f, want 0", dist)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := []float64{0, 1, 2, 3, 2, 1, 0, 1, 2}
	b := []float64{1, 2, 3, 2, 1, 0}

	ab, err := Distance(a, b, nil)
	if err != nil {
		t.Fatalf("Distance(a,b) failed: %v", err)
	}
	ba, err := Distance(b, a, nil)
	if err != nil {
		t.Fatalf("Distance(b,a) failed: %v", err)
	}
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("Distance not symmetric: %f vs %f", ab, ba)
	}
	if ab < 0 {
		t.Errorf("Distance negative: %f", ab)
	}
}

func TestDistanceKnownAlignment(t *testing.T) {
	// The second 0 of a absorbs into the first alignment step, so the
	// sequences align perfectly.
	dist, err := Distance([]float64{0, 0, 1}, []float64{0, 1}, nil)
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if dist != 0 {
		t.Errorf("Distance = %f, want 0", dist)
	}
}

func TestDistanceCostFunctions(t *testing.T) {
	a := []float64{0, 2}
	b := []float64{0, 0}

	abs, err := Distance(a, b, nil)
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if abs != 2 {
		t.Errorf("Absolute cost distance = %f, want 2", abs)
	}

	sq, err := Distance(a, b, &Options{Cost: SquaredCost})
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if sq != 4 {
		t.Errorf("Squared cost distance = %f, want 4", sq)
	}
}

func TestShiftedSequenceBeatsEuclidean(t *testing.T) {
	// A one-step phase shift should warp away almost entirely, while the
	// pointwise comparison pays for the offset at every index.
	n := 40
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = math.Sin(2 * math.Pi * float64(i) / 10)
		b[i] = math.Sin(2 * math.Pi * float64(i-1) / 10)
	}

	warped, err := Distance(a, b, nil)
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}

	euclidean := 0.0
	for i := range a {
		euclidean += math.Abs(a[i] - b[i])
	}

	if warped >= euclidean {
		t.Errorf("Warped distance %f not below pointwise distance %f", warped, euclidean)
	}
	t.Logf("warped %.3f vs pointwise %.3f", warped, euclidean)
}

func TestWindowConstraint(t *testing.T) {
	// The peaks align two steps apart, which an unconstrained warp absorbs
	// completely but a band of 1 forbids.
	a := []float64{0, 0, 0, 5, 0}
	b := []float64{0, 5, 0, 0, 0}

	free, err := Distance(a, b, nil)
	if err != nil {
		t.Fatalf("Unconstrained distance failed: %v", err)
	}
	banded, err := Distance(a, b, &Options{Window: 1})
	if err != nil {
		t.Fatalf("Banded distance failed: %v", err)
	}

	if free != 0 {
		t.Errorf("Unconstrained distance = %f, want 0", free)
	}
	if banded <= free {
		t.Errorf("Band constraint should raise the distance: %f <= %f", banded, free)
	}
	if math.IsInf(banded, 1) {
		t.Error("Banded distance is infinite")
	}
	t.Logf("free %.1f vs banded %.1f", free, banded)
}

func TestWindowWidensForLengthDifference(t *testing.T) {
	a := make([]float64, 12)
	b := []float64{0, 1, 0}
	for i := range a {
		a[i] = float64(i % 3)
	}

	dist, err := Distance(a, b, &Options{Window: 1})
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if math.IsInf(dist, 1) || math.IsNaN(dist) {
		t.Errorf("Distance %f for length-mismatched inputs, want finite", dist)
	}
}

func TestDistanceValidation(t *testing.T) {
	valid := []float64{1, 2, 3}

	if _, err := Distance(nil, valid, nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Empty first sequence error = %v, want ErrEmptySequence", err)
	}
	if _, err := Distance(valid, []float64{}, nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Empty second sequence error = %v, want ErrEmptySequence", err)
	}
	if _, err := Distance(valid, nil, nil); !errors.Is(err, seriate.ErrInvalidArgument) {
		t.Errorf("Empty sequence error = %v, want ErrInvalidArgument", err)
	}
	if _, err := Distance([]float64{1, math.NaN()}, valid, nil); !errors.Is(err, seriate.ErrInvalidArgument) {
		t.Errorf("NaN input error = %v, want ErrInvalidArgument", err)
	}
	if _, _, err := DistancePath(valid, []float64{math.Inf(1)}, nil); !errors.Is(err, seriate.ErrInvalidArgument) {
		t.Errorf("Inf input error = %v, want ErrInvalidArgument", err)
	}
}

func TestDistancePath(t *testing.T) {
	a := []float64{1, 2, 3, 4, 3, 2}
	b := []float64{1, 3, 4, 2}

	dist, path, err := DistancePath(a, b, nil)
	if err != nil {
		t.Fatalf("DistancePath failed: %v", err)
	}

	if len(path) == 0 {
		t.Fatal("Path is empty")
	}
	if path[0] != (Step{0, 0}) {
		t.Errorf("Path starts at %v, want (0,0)", path[0])
	}
	if last := path[len(path)-1]; last != (Step{len(a) - 1, len(b) - 1}) {
		t.Errorf("Path ends at %v, want (%d,%d)", last, len(a)-1, len(b)-1)
	}

	for k := 1; k < len(path); k++ {
		di := path[k].I - path[k-1].I
		dj := path[k].J - path[k-1].J
		if di < 0 || di > 1 || dj < 0 || dj > 1 || (di == 0 && dj == 0) {
			t.Errorf("Illegal step from %v to %v", path[k-1], path[k])
		}
	}

	// The cumulative cost along the path is the reported distance.
	total := 0.0
	for _, s := range path {
		total += AbsoluteCost(a[s.I], b[s.J])
	}
	if math.Abs(total-dist) > 1e-12 {
		t.Errorf("Path cost %f does not match distance %f", total, dist)
	}

	direct, err := Distance(a, b, nil)
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if math.Abs(direct-dist) > 1e-12 {
		t.Errorf("Distance %f and DistancePath %f disagree", direct, dist)
	}
}

func TestDistancePathSingleElement(t *testing.T) {
	dist, path, err := DistancePath([]float64{3}, []float64{5}, nil)
	if err != nil {
		t.Fatalf("DistancePath failed: %v", err)
	}
	if dist != 2 {
		t.Errorf("Distance = %f, want 2", dist)
	}
	if len(path) != 1 || path[0] != (Step{0, 0}) {
		t.Errorf("Path = %v, want [(0,0)]", path)
	}
}
