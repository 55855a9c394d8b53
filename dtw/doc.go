// Package dtw computes dynamic time warping distances and alignments.
//
// Dynamic time warping measures the similarity of two sequences that may be
// locally stretched or shifted in time. Instead of comparing observation i
// with observation i, the algorithm searches for the monotonic alignment of
// the two index ranges that minimizes the summed local cost, so two series
// with the same shape but slightly offset peaks still come out close.
//
// # Basic Usage
//
// Compute a distance with the default absolute-difference cost:
//
//	dist, err := dtw.Distance(a, b, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("DTW distance: %.3f\n", dist)
//
// When the alignment itself is needed, DistancePath also returns the warping
// path as (i, j) index pairs:
//
//	dist, path, err := dtw.DistancePath(a, b, nil)
//	for _, step := range path {
//	    fmt.Printf("a[%d] <-> b[%d]\n", step.I, step.J)
//	}
//
// # Band Constraint
//
// A Sakoe-Chiba band bounds how far the alignment may stray from the
// diagonal, cutting the work from O(n·m) to O(n·w):
//
//	dist, err := dtw.Distance(a, b, &dtw.Options{Window: 10})
//
// The band is widened automatically when the sequences have different
// lengths, since a complete alignment must reach the opposite corner.
//
// # Cost Functions
//
// The local cost defaults to AbsoluteCost; SquaredCost penalizes large
// deviations more heavily. Any CostFunc works:
//
//	dist, err := dtw.Distance(a, b, &dtw.Options{Cost: dtw.SquaredCost})
//
// Distances are symmetric, non-negative, and zero for identical inputs.
// Empty sequences are rejected with ErrEmptySequence.
package dtw
