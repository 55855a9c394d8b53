package stl

import "math"

// loess performs locally weighted linear regression over equally spaced
// observations, evaluating at every index. span is the number of nearest
// neighbors in each local window; at the boundaries the window becomes
// one-sided and the linear fit extrapolates. rho holds robustness weights
// multiplying the tricube kernel, nil meaning all ones.
func loess(ys []float64, span int, rho []float64) []float64 {
	n := len(ys)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if span > n {
		span = n
	}
	if span < 2 {
		copy(out, ys)
		return out
	}

	lo := 0
	for i := 0; i < n; i++ {
		// Slide the window right while the next point is nearer than the
		// leftmost one, keeping the span nearest neighbors of i.
		for lo+span < n && i-lo > lo+span-i {
			lo++
		}
		hi := lo + span - 1
		out[i] = fitLocal(ys, rho, lo, hi, i)
	}
	return out
}

// fitLocal fits a tricube-weighted line over window [lo, hi] and evaluates it
// at x. Falls back to the weighted mean when the window is degenerate.
func fitLocal(ys []float64, rho []float64, lo, hi, x int) float64 {
	h := math.Max(float64(x-lo), float64(hi-x))
	if h == 0 {
		return ys[x]
	}

	var sw, swx, swy, swxy, swx2 float64
	for j := lo; j <= hi; j++ {
		u := math.Abs(float64(j-x)) / h
		w := tricube(u)
		if rho != nil {
			w *= rho[j]
		}
		if w == 0 {
			continue
		}
		dx := float64(j - x)
		sw += w
		swx += w * dx
		swy += w * ys[j]
		swxy += w * dx * ys[j]
		swx2 += w * dx * dx
	}

	if sw == 0 {
		return ys[x]
	}
	denom := sw*swx2 - swx*swx
	if math.Abs(denom) < 1e-12*sw*swx2+1e-300 {
		return swy / sw
	}
	return (swx2*swy - swx*swxy) / denom
}

func tricube(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u*u
	return t * t * t
}

// bisquare is the robustness kernel used by the outer loop.
func bisquare(u float64) float64 {
	if u >= 1 {
		return 0
	}
	t := 1 - u*u
	return t * t
}
