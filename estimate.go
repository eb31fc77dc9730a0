// C7: driver — ties the PROSAC controller (C5), SPRT evaluator (C4), NR
// termination test (C3), geometry kernel (C1), and LM refiner (C6)
// together into the single public Estimate operation.
//
// Grounded on tsp/solve.go's staged dispatcher shape (validate, seed,
// iterate-to-termination, finalize) and tsp/bb.go's incumbent-tracking
// loop: a running "best" is only overwritten by a strictly better
// candidate, with a documented tie-break rule for equal primary scores.
package rho

import "math"

// Estimate fits a homography mapping src[i] -> dst[i] using PROSAC
// sampling with SPRT early rejection and an optional non-randomness
// termination test, refining the result with Levenberg-Marquardt where
// requested by params.Flags.
//
// src and dst must be the same length and already sorted by decreasing
// match quality (best correspondences first) — PROSAC's sampling prefix
// is defined over this order (spec.md §3). If guess is non-nil and not
// the zero matrix, it is scored first and used to seed the running best.
// If inl is non-nil, it must have the same length as src and receives
// the final inlier mask; entries for correspondences beyond the returned
// best's support are left at 0.
//
// c must have been initialized with Init. Estimate does not retain src,
// dst, guess, or inl past its return.
func (c *Context) Estimate(src, dst []Point2f, params Params, guess *Homography, inl []byte) (inliers uint32, h Homography, err error) {
	c.mustBeInitialized()

	if err := validateEstimateArgs(src, dst, params, inl); err != nil {
		return 0, Homography{}, err
	}
	params = clampParams(params)

	n := uint32(len(src))
	c.ensureN(n, params.Seed)

	copy(c.packedSrc, src)
	copy(c.packedDst, dst)

	if params.Flags.EnableNR {
		c.nr.ensure(n, params.Beta)
	}

	maxDSq := float64(params.MaxD) * float64(params.MaxD)

	var bestH Homography
	var bestInliers uint32
	var bestSumSqErr float64
	haveBest := false

	// Seed the running best from an explicit guess, if any (spec.md §4,
	// end-to-end scenario 4: "a degenerate or zero guess is ignored").
	if guess != nil && !guess.IsZero() {
		count, sumSqErr := scoreAll(*guess, c.packedSrc, c.packedDst, maxDSq, c.bestMask)
		if count >= params.MinInl {
			bestH = *guess
			bestInliers = count
			bestSumSqErr = sumSqErr
			haveBest = true
		}
	}

	sprt := initSPRT(float64(params.MinInl)/math.Max(float64(n), 1), 0.01, 200, 1)
	prosac := newProsacState(n)

	budget := params.MaxI

	for prosac.i < budget && prosac.i < params.MaxI {
		idx := prosac.sample(c.rng)

		var sampleSrc, sampleDst [4]Point2f
		for k, ix := range idx {
			sampleSrc[k] = c.packedSrc[ix]
			sampleDst[k] = c.packedDst[ix]
		}

		cand, ok := solveHomography(sampleSrc, sampleDst)
		prosac.advance(params.RConvg)
		if !ok {
			continue
		}

		outcome := sprt.evaluate(cand, c.packedSrc, c.packedDst, maxDSq)
		if !outcome.accepted {
			continue
		}

		// Full re-score: SPRT's streaming pass writes no mask, so scoreAll
		// recomputes the count and error sum and fills c.currMask for this
		// candidate.
		count, sumSqErr := scoreAll(cand, c.packedSrc, c.packedDst, maxDSq, c.currMask)

		better := false
		if !haveBest {
			better = count >= params.MinInl
		} else if count > bestInliers {
			better = true
		} else if count == bestInliers && sumSqErr < bestSumSqErr {
			better = true
		}

		if better {
			refined := cand
			if params.Flags.EnableRefinement {
				if r, improved := c.lm.refine(cand, c.packedSrc, c.packedDst, maxDSq, c.currMask, lmMaxIters); improved {
					rc, rs := scoreAll(r, c.packedSrc, c.packedDst, maxDSq, c.currMask)
					if rc >= count {
						refined = r
						count = rc
						sumSqErr = rs
					}
				}
				if refined == cand {
					// refine used c.currMask as scratch; restore cand's mask.
					scoreAll(cand, c.packedSrc, c.packedDst, maxDSq, c.currMask)
				}
			}

			bestH = refined
			bestInliers = count
			bestSumSqErr = sumSqErr
			haveBest = true
			copy(c.bestMask, c.currMask)

			sprt.updateEpsilon(count, n)
			budget = standardBudget(count, n, params.MaxI, params.Cfd)

			if params.Flags.EnableNR && prosac.checkNonRandom(&c.nr, c.bestMask) {
				break
			}
		}
	}

	if !haveBest || bestInliers < params.MinInl {
		if inl != nil {
			for i := range inl {
				inl[i] = 0
			}
		}

		return 0, Homography{}, nil
	}

	if params.Flags.EnableFinalRefinement {
		if r, improved := c.lm.refine(bestH, c.packedSrc, c.packedDst, maxDSq, c.currMask, lmMaxIters); improved {
			rc, rs := scoreAll(r, c.packedSrc, c.packedDst, maxDSq, c.currMask)
			if rc >= bestInliers {
				bestH = r
				bestInliers = rc
				bestSumSqErr = rs
				copy(c.bestMask, c.currMask)
			}
		}
	}

	if inl != nil {
		copy(inl, c.bestMask)
	}

	return bestInliers, bestH, nil
}
