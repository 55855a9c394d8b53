// Package cluster groups time series by shape with DTW-based fuzzy c-means.
package cluster

import (
	"fmt"
	"maps"
	"math"
	"math/rand"
	"runtime"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/seriate/seriate"
	"github.com/seriate/seriate/dtw"
	"github.com/seriate/seriate/timeseries"
)

// Config holds the clustering configuration. Zero fields take the documented
// defaults.
type Config struct {
	Clusters  int     // Number of clusters k (required, at least 2)
	Fuzziness float64 // Fuzzifier m > 1; larger means softer memberships (default: 2)

	MaxIterations        int     // c-means iteration cap (default: 100)
	Tolerance            float64 // Stop when no membership moves more than this (default: 1e-4)
	BarycenterIterations int     // DBA refinement passes per centroid update (default: 10)
	Seed                 int64   // Seed for the membership initialization

	Window  int          // DTW band half-width, 0 for unconstrained
	Cost    dtw.CostFunc // DTW local cost (nil = absolute difference)
	Workers int          // Parallel distance limit (default: number of CPUs)
}

func (c *Config) withDefaults() (Config, error) {
	var out Config
	if c != nil {
		out = *c
	}

	if out.Fuzziness == 0 {
		out.Fuzziness = 2
	}
	if out.Fuzziness <= 1 {
		return out, fmt.Errorf("cluster: fuzzifier %g must exceed 1: %w",
			out.Fuzziness, seriate.ErrInvalidArgument)
	}
	if out.MaxIterations <= 0 {
		out.MaxIterations = 100
	}
	if out.Tolerance <= 0 {
		out.Tolerance = 1e-4
	}
	if out.BarycenterIterations <= 0 {
		out.BarycenterIterations = 10
	}
	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}
	return out, nil
}

func (c Config) dtwOptions() *dtw.Options {
	return &dtw.Options{Window: c.Window, Cost: c.Cost}
}

// Assignment is the outcome of a clustering run. It is not mutated after
// FuzzyCMeans returns.
type Assignment struct {
	// Membership has one row per input series and one column per cluster;
	// each row sums to 1.
	Membership *mat.Dense
	// Centroids holds one barycenter series per cluster.
	Centroids []*timeseries.Series
	// Distances is the pairwise DTW distance matrix of the inputs.
	Distances *mat.SymDense

	Iterations int
	Converged  bool
}

// Dominant returns the cluster with the highest membership for series i.
func (a *Assignment) Dominant(i int) int {
	best := 0
	_, k := a.Membership.Dims()
	for kk := 1; kk < k; kk++ {
		if a.Membership.At(i, kk) > a.Membership.At(i, best) {
			best = kk
		}
	}
	return best
}

// FuzzyCMeans clusters the series into cfg.Clusters groups by shape. The
// membership matrix is seeded from cfg.Seed, centroids are computed by DTW
// barycenter averaging from membership-weighted medoids, and memberships are
// updated from the series-to-centroid distances until they stop moving or the
// iteration cap is reached. The run is deterministic for a fixed seed.
func FuzzyCMeans(series []*timeseries.Series, cfg *Config) (*Assignment, error) {
	conf, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := validateSeries(series); err != nil {
		return nil, err
	}

	n := len(series)
	k := conf.Clusters
	if k < 2 {
		return nil, fmt.Errorf("cluster: need at least 2 clusters, got %d: %w", k, seriate.ErrInvalidArgument)
	}
	if k > n {
		return nil, fmt.Errorf("cluster: %d clusters exceed %d series: %w", k, n, seriate.ErrInvalidArgument)
	}

	vals := make([][]float64, n)
	for i, s := range series {
		vals[i] = s.Values()
	}

	dist, err := pairwise(vals, conf)
	if err != nil {
		return nil, err
	}

	membership := initialMembership(n, k, conf.Seed)
	next := mat.NewDense(n, k, nil)
	opts := conf.dtwOptions()

	type centroidState struct {
		values []float64
		period int
	}
	cents := make([]centroidState, k)

	iterations := 0
	converged := false

	for it := 1; it <= conf.MaxIterations; it++ {
		// Centroid update: one independent task per cluster.
		g := new(errgroup.Group)
		g.SetLimit(conf.Workers)
		for kk := 0; kk < k; kk++ {
			g.Go(func() error {
				w := make([]float64, n)
				for i := 0; i < n; i++ {
					w[i] = math.Pow(membership.At(i, kk), conf.Fuzziness)
				}
				ref := medoid(dist, w)
				cents[kk] = centroidState{
					values: barycenter(vals[ref], vals, w, conf, opts),
					period: series[ref].Period(),
				}
				return nil
			})
		}
		_ = g.Wait()

		// Series-to-centroid distances into disjoint slots.
		cdist := make([]float64, n*k)
		g = new(errgroup.Group)
		g.SetLimit(conf.Workers)
		for i := 0; i < n; i++ {
			for kk := 0; kk < k; kk++ {
				g.Go(func() error {
					d, err := dtw.Distance(vals[i], cents[kk].values, opts)
					if err != nil {
						return fmt.Errorf("cluster: series %d to centroid %d: %w", i, kk, err)
					}
					cdist[i*k+kk] = d
					return nil
				})
			}
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		maxDelta := updateMembership(membership, next, cdist, n, k, conf.Fuzziness)
		membership, next = next, membership
		iterations = it

		log.Debug().Int("iteration", it).Float64("delta", maxDelta).Msg("membership update")
		if maxDelta < conf.Tolerance {
			converged = true
			break
		}
	}

	centroids := make([]*timeseries.Series, k)
	for kk, c := range cents {
		s, err := timeseries.New(c.values, c.period)
		if err != nil {
			return nil, fmt.Errorf("cluster: building centroid %d: %w", kk, err)
		}
		centroids[kk] = s.WithName(fmt.Sprintf("centroid-%d", kk))
	}

	log.Debug().Int("series", n).Int("clusters", k).Int("iterations", iterations).
		Bool("converged", converged).Msg("fuzzy c-means finished")

	return &Assignment{
		Membership: membership,
		Centroids:  centroids,
		Distances:  dist,
		Iterations: iterations,
		Converged:  converged,
	}, nil
}

// initialMembership builds a seeded random matrix with rows summing to 1.
func initialMembership(n, k int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(n, k, nil)
	row := make([]float64, k)
	for i := 0; i < n; i++ {
		sum := 0.0
		for kk := range row {
			row[kk] = rng.Float64() + 1e-9
			sum += row[kk]
		}
		for kk := range row {
			m.Set(i, kk, row[kk]/sum)
		}
	}
	return m
}

// updateMembership writes the new memberships into next and returns the
// largest absolute change. Rows with a zero distance to some centroid snap to
// crisp membership split across the zero-distance clusters.
func updateMembership(curr, next *mat.Dense, cdist []float64, n, k int, fuzziness float64) float64 {
	expo := 2 / (fuzziness - 1)
	maxDelta := 0.0

	for i := 0; i < n; i++ {
		zeros := 0
		for kk := 0; kk < k; kk++ {
			if cdist[i*k+kk] == 0 {
				zeros++
			}
		}

		for kk := 0; kk < k; kk++ {
			var u float64
			if zeros > 0 {
				if cdist[i*k+kk] == 0 {
					u = 1 / float64(zeros)
				}
			} else {
				sum := 0.0
				dik := cdist[i*k+kk]
				for jj := 0; jj < k; jj++ {
					sum += math.Pow(dik/cdist[i*k+jj], expo)
				}
				u = 1 / sum
			}

			if d := math.Abs(u - curr.At(i, kk)); d > maxDelta {
				maxDelta = d
			}
			next.Set(i, kk, u)
		}
	}
	return maxDelta
}

// Grouped flattens a labeled collection into parallel label and series
// slices, sorted by label so repeated runs see the same input order.
func Grouped(groups map[string]*timeseries.Series) ([]string, []*timeseries.Series) {
	labels := slices.Sorted(maps.Keys(groups))
	series := make([]*timeseries.Series, len(labels))
	for i, l := range labels {
		series[i] = groups[l]
	}
	return labels, series
}
