// C5: PROSAC controller — grows the sampling prefix from the top-ranked
// correspondences outward, degenerates to uniform RANSAC once the prefix
// covers all N points or a convergence iteration is reached, and maintains
// the dynamic iteration budget.
//
// Grounded on tsp/rng.go's deterministic sampling primitives and
// builder/impl_random_sparse.go's RNG-driven Bernoulli/uniform draw
// discipline (here RNG is always required, unlike RandomSparse's
// nil-RNG-for-degenerate-p branch, since PROSAC sampling has no
// deterministic special case).
package rho

import "math"

// minSampleSize is the number of correspondences a minimal homography
// sample needs (spec.md §3: "phNum >= 4 always").
const minSampleSize = 4

// prosacState is the PROSAC control block (spec.md §3), mutated only by
// this file's methods.
type prosacState struct {
	n uint32 // total correspondence count

	i      uint32  // current iteration count
	phNum  uint32  // current phase (prefix size)
	phEndI uint32  // integer iteration at which to advance phNum
	phEndFp float64 // fractional iteration counter

	phMax    uint32 // NR-derived terminating phase number (0 if not set)
	phNumInl uint32 // NR-derived inlier-in-prefix threshold for phMax

	numModels uint32 // total hypotheses evaluated

	ransac bool // true once degenerated to uniform RANSAC sampling
}

// newProsacState initializes the controller for n correspondences.
func newProsacState(n uint32) *prosacState {
	return &prosacState{
		n:       n,
		phNum:   minSampleSize,
		phEndFp: 1.0,
		phEndI:  1,
		ransac:  n <= minSampleSize,
	}
}

// sample draws four pairwise-distinct indices for the next hypothesis,
// honoring the current phase: during PROSAC phases, three indices come
// from [0, phNum-2] uniformly and the fourth is fixed at phNum-1 (the
// newest correspondence admitted to the prefix); once degenerated to
// RANSAC, all four are drawn uniformly from [0, n-1] (spec.md §4.5).
func (p *prosacState) sample(rng randSource) [4]uint32 {
	if p.ransac {
		a, b, c, d := sampleDistinct4(rng, int(p.n)-1)

		return [4]uint32{uint32(a), uint32(b), uint32(c), uint32(d)}
	}

	a, b, c := sampleDistinct3(rng, int(p.phNum)-2)

	return [4]uint32{uint32(a), uint32(b), uint32(c), p.phNum - 1}
}

// advance records that one more iteration/model has completed and grows
// the phase schedule, degenerating to RANSAC sampling once phNum reaches
// n or the RANSAC-convergence iteration rConvg is reached — an inclusive
// OR of the two conditions (spec.md §9, Open Question (a)).
func (p *prosacState) advance(rConvg uint32) {
	p.i++
	p.numModels++

	if p.ransac {
		return
	}

	if p.i >= p.phEndI {
		if p.phNum < p.n {
			p.phNum++
			p.phEndFp *= float64(p.phNum) / float64(p.phNum-3)
			p.phEndI = uint32(math.Ceil(p.phEndFp))
		}
	}

	if p.phNum >= p.n || p.i >= rConvg {
		p.ransac = true
	}
}

// standardBudget computes the maximum number of further iterations
// required for confidence cfd given the current best inlier count I out
// of n, per spec.md §4.5:
//
//	k = ceil(log(1-cfd) / log(1-(I/n)^4))
//
// clamped to maxI. Returns maxI unconditionally when I == 0 (no evidence
// yet to shrink the budget), when (I/n)^4 is too small for the
// denominator's logarithm to differ from zero, or when k is NaN or +Inf.
// A perfect fit (I == n) yields 0.
func standardBudget(inliers, n, maxI uint32, cfd float64) uint32 {
	if inliers == 0 || n == 0 {
		return maxI
	}
	w := float64(inliers) / float64(n)
	denom := math.Log(1 - w*w*w*w)
	if denom == 0 {
		return maxI
	}
	num := math.Log(1 - cfd)
	k := num / denom // denom may be -Inf when w == 1; k correctly evaluates to 0
	if math.IsNaN(k) || math.IsInf(k, 1) {
		return maxI
	}
	if k < 0 {
		return 0
	}
	budget := uint32(math.Ceil(k))
	if budget > maxI {
		budget = maxI
	}

	return budget
}

// checkNonRandom scans mask (in correspondence-rank order) for the
// smallest prefix size whose inlier count within that prefix meets or
// exceeds the NR table's non-randomness threshold. If found, it records
// (phMax, phNumInl) on p and reports true, signaling the driver that the
// current best is supported by a statistically non-random inlier set and
// the loop may terminate immediately (spec.md §4.5).
func (p *prosacState) checkNonRandom(tbl *nrTable, mask []byte) bool {
	if tbl.size == 0 {
		return false
	}

	limit := tbl.size
	if uint32(len(mask)) < limit {
		limit = uint32(len(mask))
	}

	var count uint32
	for idx := uint32(0); idx < limit; idx++ {
		if mask[idx] != 0 {
			count++
		}
		k := tbl.kAt(idx + 1)
		if k > 0 && count >= k {
			p.phMax = idx + 1
			p.phNumInl = count

			return true
		}
	}

	return false
}
