// C3: non-randomness (NR) table — precomputed per-support-count inlier
// thresholds used by the PROSAC controller's termination test.
//
// Grounded on matrix/ops/eigen.go's bounded-iteration shape (scan until a
// convergence condition holds, within a hard cap) adapted here to a
// combinatorial tail-probability search rather than a numerical iteration,
// since no example repo computes binomial tail probabilities.
package rho

import "math"

// nrSignificance is the fixed tail-probability threshold used to build the
// table, independent of the per-call confidence Cfd. spec.md §4.3 notes the
// table's nominal threshold is "1 - cfd at the call site", but the table is
// built once per (N, beta) pair in EnsureNRCapacity before any particular
// Estimate call's cfd is known; mirroring the reference rhorefc
// implementation, table construction uses this fixed significance level
// and PROSAC's own per-iteration k-cap (computed from the live cfd in
// prosac.go) supplies the cfd-dependent half of the termination test.
const nrSignificance = 0.05

// nrTable holds, for each support size n in [0, size), the smallest k such
// that P(Bin(n, beta) >= k) < nrSignificance. Entry 0 is zero; every other
// entry is computed, including sizes below the minimal sample size.
type nrTable struct {
	beta float64
	tbl  []uint32
	size uint32
}

// logChoose returns the natural log of C(n, k).
func logChoose(n, k int) float64 {
	lg1, _ := math.Lgamma(float64(n + 1))
	lg2, _ := math.Lgamma(float64(k + 1))
	lg3, _ := math.Lgamma(float64(n-k + 1))

	return lg1 - lg2 - lg3
}

// binomialTail returns P(Bin(n, beta) >= k).
func binomialTail(n, k int, beta float64) float64 {
	if k <= 0 {
		return 1
	}
	if k > n {
		return 0
	}
	logBeta := math.Log(beta)
	log1mBeta := math.Log(1 - beta)

	sum := 0.0
	for j := k; j <= n; j++ {
		logPMF := logChoose(n, j) + float64(j)*logBeta + float64(n-j)*log1mBeta
		sum += math.Exp(logPMF)
	}

	return sum
}

// smallestNonRandomK returns the smallest k such that
// P(Bin(n, beta) >= k) < nrSignificance, starting the scan from the
// binomial mean (n*beta) since the tail is non-increasing in k. When no
// k <= n qualifies, it returns n+1, a count no prefix of size n can reach.
func smallestNonRandomK(n int, beta float64) uint32 {
	if n <= 0 {
		return 0
	}
	start := int(math.Ceil(float64(n) * beta))
	if start < 1 {
		start = 1
	}
	for k := start; k <= n; k++ {
		if binomialTail(n, k, beta) < nrSignificance {
			return uint32(k)
		}
	}

	return uint32(n + 1)
}

// ensure grows t to cover support sizes [0, n), recomputing every entry
// when beta has changed (spec.md §4.2: "recomputing when beta changes")
// and computing only the newly added suffix when beta is unchanged and n
// grows (spec.md §4.2: "grows the NR table in place (preserving entries
// when beta is unchanged)"). n == 0 releases the table.
func (t *nrTable) ensure(n uint32, beta float64) {
	if n == 0 {
		t.tbl = nil
		t.size = 0
		t.beta = 0

		return
	}

	if t.beta != beta {
		t.tbl = make([]uint32, n)
		for i := uint32(0); i < n; i++ {
			t.tbl[i] = smallestNonRandomK(int(i), beta)
		}
		t.beta = beta
		t.size = n

		return
	}

	if n <= t.size {
		return
	}

	grown := make([]uint32, n)
	copy(grown, t.tbl)
	for i := t.size; i < n; i++ {
		grown[i] = smallestNonRandomK(int(i), beta)
	}
	t.tbl = grown
	t.size = n
}

// kAt returns the precomputed threshold for support size n, or 0 if n is
// out of the table's current capacity.
func (t *nrTable) kAt(n uint32) uint32 {
	if n >= t.size {
		return 0
	}

	return t.tbl[n]
}
