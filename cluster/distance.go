package cluster

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/dtw"
	"github.com/seriate/seriate/timeseries"
)

// PairwiseDistances computes the symmetric matrix of DTW distances between
// every pair of series. Pairs are evaluated in parallel; the diagonal is
// zero.
func PairwiseDistances(series []*timeseries.Series, cfg *Config) (*mat.SymDense, error) {
	conf, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := validateSeries(series); err != nil {
		return nil, err
	}

	vals := make([][]float64, len(series))
	for i, s := range series {
		vals[i] = s.Values()
	}
	return pairwise(vals, conf)
}

func validateSeries(series []*timeseries.Series) error {
	if len(series) == 0 {
		return fmt.Errorf("cluster: no series: %w", seriate.ErrInvalidArgument)
	}
	for i, s := range series {
		if s == nil || s.Len() == 0 {
			return fmt.Errorf("cluster: series %d is empty: %w", i, seriate.ErrInvalidArgument)
		}
	}
	return nil
}

// pairwise runs the i<j pair evaluations as parallel tasks writing disjoint
// slots, then assembles the matrix after the barrier.
func pairwise(vals [][]float64, conf Config) (*mat.SymDense, error) {
	n := len(vals)
	type pair struct{ i, j int }
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	dists := make([]float64, len(pairs))
	opts := conf.dtwOptions()

	g := new(errgroup.Group)
	g.SetLimit(conf.Workers)
	for idx, p := range pairs {
		g.Go(func() error {
			d, err := dtw.Distance(vals[p.i], vals[p.j], opts)
			if err != nil {
				return fmt.Errorf("cluster: distance between series %d and %d: %w", p.i, p.j, err)
			}
			dists[idx] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := mat.NewSymDense(n, nil)
	for idx, p := range pairs {
		m.SetSym(p.i, p.j, dists[idx])
	}
	return m, nil
}
