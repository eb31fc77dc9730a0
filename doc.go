// Package rho implements a robust planar-homography estimator combining
// PROSAC sampling, a Sequential Probability Ratio Test (SPRT) for early
// hypothesis rejection, a non-randomness (NR) termination test, and
// Levenberg–Marquardt (LM) refinement.
//
// Given two ordered arrays of 2D point correspondences sorted by putative
// quality (best first), Context.Estimate returns a 3x3 homography mapping
// source points to destination points, together with an inlier mask. The
// estimator tolerates a large fraction of outliers and terminates as soon
// as statistical evidence supports a decision, rather than always
// exhausting a fixed iteration budget.
//
// # Algorithm
//
//	PROSAC (prosac.go)    grows the sampling prefix from the top-ranked
//	                      correspondences outward, degenerating to plain
//	                      RANSAC once the prefix covers all points or a
//	                      convergence iteration count is reached.
//	SPRT (sprt.go)        streams through correspondences for a candidate
//	                      homography and aborts as soon as the cumulative
//	                      likelihood ratio crosses a threshold, so obviously
//	                      bad hypotheses cost only a few comparisons.
//	NR table (nrtable.go) precomputes, per prefix size, the smallest inlier
//	                      count that is unlikely to have arisen by chance;
//	                      consulted by PROSAC to tighten its termination
//	                      budget once enabled.
//	LM refiner (refine.go) polishes a candidate homography against its
//	                      current inlier set by damped Gauss-Newton.
//
// # Usage
//
//	ctx := rho.NewContext()
//	if err := ctx.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Finalize()
//
//	params := rho.DefaultParams()
//	n, h, err := ctx.Estimate(src, dst, params, nil, mask)
//
// A Context owns every scratch buffer it needs (packed points, the
// current/best inlier masks, LM matrices, the NR table) and is not safe for
// concurrent use: two goroutines estimating concurrently must each use
// their own Context.
//
// # Determinism
//
// For a fixed seed (Params.Seed) and fixed inputs, Estimate is
// deterministic: the RNG is context-local, never global.
package rho
