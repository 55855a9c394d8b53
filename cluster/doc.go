// Package cluster groups time series by shape with DTW-based fuzzy c-means.
//
// Series are compared by dynamic time warping distance, so two series with
// the same seasonal silhouette cluster together even when their peaks drift
// a step or two apart. Membership is fuzzy: each series gets a weight in
// every cluster rather than a single hard label, and each cluster is
// summarized by a barycenter series computed with DTW barycenter averaging.
//
// # Basic Usage
//
// Cluster a set of series into three groups:
//
//	assign, err := cluster.FuzzyCMeans(series, &cluster.Config{
//	    Clusters: 3,
//	    Seed:     42,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for i := range series {
//	    fmt.Printf("series %d -> cluster %d (membership %.2f)\n",
//	        i, assign.Dominant(i), assign.Membership.At(i, assign.Dominant(i)))
//	}
//
// Runs are deterministic for a fixed Seed: the membership initialization is
// the only random step, and all parallel work lands in index-addressed slots
// before aggregation.
//
// # Labeled Inputs
//
// Grouped turns a map of labeled series into label-sorted slices, keeping
// the series-to-row correspondence stable across runs:
//
//	labels, list := cluster.Grouped(byCategory)
//	assign, err := cluster.FuzzyCMeans(list, cfg)
//
// # Distance Matrix
//
// The pairwise DTW matrix is computed once per run and returned on the
// Assignment; PairwiseDistances exposes the same computation directly:
//
//	dist, err := cluster.PairwiseDistances(series, nil)
//	fmt.Printf("d(0,1) = %.2f\n", dist.At(0, 1))
//
// Pair evaluations run in parallel under the Workers limit. A Window
// constraint and a custom Cost function pass straight through to the DTW
// engine.
package cluster
