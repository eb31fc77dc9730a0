// C4: SPRT evaluator — streams through correspondences for one candidate
// homography and aborts as soon as the cumulative likelihood ratio
// crosses a decision threshold A, so a hypothesis that is obviously bad
// costs only a handful of comparisons instead of a full pass over N.
//
// Grounded on tsp/bb.go's bbEngine pattern: a dedicated struct carrying
// policy, running statistics, and small single-purpose methods, rather
// than free functions closing over shared locals.
package rho

import "math"

// sprtState holds the running SPRT hypothesis-test state (spec.md §3).
type sprtState struct {
	tM    float64 // average time to compute a model (cost units)
	mS    float64 // average number of models produced per minimal sample

	epsilon float64 // current estimate of the "good model" inlier rate
	delta   float64 // current estimate of the "bad model" inlier rate
	a       float64 // decision threshold

	ntested      uint32 // correspondences tested by the most recent model
	ntestedtotal uint32 // correspondences tested across all models this call

	good bool // whether the most recently tested model passed the full stream

	lambdaAccept float64 // likelihood-ratio multiplier on an observed inlier
	lambdaReject float64 // likelihood-ratio multiplier on an observed outlier
}

// sprtDeltaRelTol bounds how much delta must move, relatively, before A is
// recomputed — avoids re-deriving A on every single test when the estimate
// is essentially stable (spec.md §4.4).
const sprtDeltaRelTol = 0.05

// initSPRT initializes the evaluator with an initial guess for the good
// and bad inlier rates. epsilon0 is typically minInl/N; delta0 is a small
// constant (the reference estimator uses 0.01) representing the expected
// inlier rate of a random, unrelated homography.
func initSPRT(epsilon0, delta0, tM, mS float64) *sprtState {
	s := &sprtState{
		tM:      tM,
		mS:      mS,
		epsilon: epsilon0,
		delta:   delta0,
	}
	s.recomputeA()

	return s
}

// recomputeA recomputes lambdaAccept/lambdaReject and the decision
// threshold A from the current epsilon/delta/tM/mS, via the fixed-point
// iteration for the optimal SPRT threshold that minimizes the expected
// number of verifications (Chum & Matas, "Optimal Randomized RANSAC"):
//
//	C  = (1-delta)*ln((1-delta)/(1-epsilon)) + delta*ln(delta/epsilon)
//	A0 = 1 + tM*C/mS
//	A_{n+1} = A0 + ln(A_n), iterated to convergence.
func (s *sprtState) recomputeA() {
	s.lambdaAccept = s.delta / s.epsilon
	s.lambdaReject = (1 - s.delta) / (1 - s.epsilon)

	c := (1-s.delta)*math.Log((1-s.delta)/(1-s.epsilon)) + s.delta*math.Log(s.delta/s.epsilon)
	a0 := 1 + s.tM*c/s.mS

	a := a0
	for i := 0; i < 10; i++ {
		next := a0 + math.Log(a)
		if math.Abs(next-a) < 1.5e-8 {
			a = next

			break
		}
		a = next
	}
	s.a = a
}

// sprtOutcome is the result of streaming one candidate model through the
// evaluator.
type sprtOutcome struct {
	accepted bool   // false ⇒ rejected early by the likelihood-ratio test
	tested   uint32 // number of correspondences actually examined
	inliers  uint32 // inliers observed among those tested
	sumSqErr float64
}

// evaluate streams h through src/dst, testing at most len(src) points,
// aborting as soon as the cumulative likelihood ratio exceeds s.a. No
// inlier mask is written; the driver re-scores an accepted model with
// scoreAll to obtain one. ntested and ntestedtotal grow by the number of
// correspondences actually examined (spec.md §4.4: "Ntested is
// incremented by the actual number of samples examined, never the full N
// for aborted models").
func (s *sprtState) evaluate(h Homography, src, dst []Point2f, maxDSq float64) sprtOutcome {
	lambda := 1.0
	var inliers uint32
	var sumSqErr float64

	n := len(src)
	var tested uint32
	for i := 0; i < n; i++ {
		tested++
		e := transferErrSq(h, src[i], dst[i])
		if e <= maxDSq {
			inliers++
			sumSqErr += e
			lambda *= s.lambdaAccept
		} else {
			lambda *= s.lambdaReject
		}

		if lambda > s.a {
			s.updateDelta(tested, inliers)
			s.ntested = tested
			s.ntestedtotal += tested
			s.good = false

			return sprtOutcome{accepted: false, tested: tested, inliers: inliers, sumSqErr: sumSqErr}
		}
	}

	s.ntested = tested
	s.ntestedtotal += tested
	s.good = true

	return sprtOutcome{accepted: true, tested: tested, inliers: inliers, sumSqErr: sumSqErr}
}

// updateDelta folds the observed inlier fraction of a rejected model's
// tested prefix into the running delta estimate (a weighted running
// average over all correspondences tested so far this call) and
// recomputes A if delta moved by more than sprtDeltaRelTol, relatively.
func (s *sprtState) updateDelta(tested, inliers uint32) {
	if tested == 0 {
		return
	}
	observed := float64(inliers) / float64(tested)

	total := float64(s.ntestedtotal)
	newDelta := (s.delta*total + observed*float64(tested)) / (total + float64(tested))

	relChange := math.Abs(newDelta-s.delta) / math.Max(s.delta, 1e-12)
	s.delta = newDelta
	if relChange > sprtDeltaRelTol {
		s.recomputeA()
	}
}

// updateEpsilon is called by the driver when a full-pass model becomes
// the new best, folding its observed inlier ratio into epsilon and
// recomputing A.
func (s *sprtState) updateEpsilon(inliers, n uint32) {
	if n == 0 {
		return
	}
	observed := float64(inliers) / float64(n)
	if observed <= s.delta {
		observed = s.delta + 1e-6
	}
	if observed >= 1 {
		observed = 1 - 1e-6
	}
	s.epsilon = observed
	s.recomputeA()
}
