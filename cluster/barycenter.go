package cluster

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/seriate/seriate/dtw"
)

// medoid picks the series minimizing the weighted sum of precomputed
// distances to all others, the starting shape for barycenter refinement.
func medoid(dist *mat.SymDense, weights []float64) int {
	best := 0
	bestCost := math.Inf(1)
	for j := range weights {
		cost := 0.0
		for i, w := range weights {
			if w == 0 {
				continue
			}
			cost += w * dist.At(i, j)
		}
		if cost < bestCost {
			best, bestCost = j, cost
		}
	}
	return best
}

// barycenter refines ref by DTW barycenter averaging: each pass aligns every
// member against the current centroid and replaces each centroid value with
// the weighted mean of the member values warped onto it. Positions that
// receive no alignment weight keep their previous value.
func barycenter(ref []float64, members [][]float64, weights []float64, conf Config, opts *dtw.Options) []float64 {
	centroid := make([]float64, len(ref))
	copy(centroid, ref)

	sums := make([]float64, len(centroid))
	counts := make([]float64, len(centroid))

	for pass := 0; pass < conf.BarycenterIterations; pass++ {
		for t := range centroid {
			sums[t], counts[t] = 0, 0
		}

		for i, m := range members {
			w := weights[i]
			if w == 0 {
				continue
			}
			_, path, err := dtw.DistancePath(centroid, m, opts)
			if err != nil {
				continue
			}
			for _, st := range path {
				sums[st.I] += w * m[st.J]
				counts[st.I] += w
			}
		}

		maxShift := 0.0
		for t := range centroid {
			if counts[t] == 0 {
				continue
			}
			next := sums[t] / counts[t]
			if shift := math.Abs(next - centroid[t]); shift > maxShift {
				maxShift = shift
			}
			centroid[t] = next
		}
		if maxShift < conf.Tolerance {
			break
		}
	}
	return centroid
}
