// C6: Levenberg-Marquardt refiner — polishes a candidate homography
// against its current inlier set by damped Gauss-Newton on the 8 free
// parameters.
//
// Grounded on matrix/ops/lu.go's elimination structure (applied here to
// the symmetric 8x8 normal-equations system instead of a general square
// matrix) and matrix/ops/eigen.go's damping-parameter iterate-to-convergence
// loop shape (a scalar adjusted multiplicatively on success/failure,
// bounded iteration count).
package rho

import "math"

const (
	// lmMaxIters is the default iteration cap (spec.md §4.6).
	lmMaxIters = 10

	// lmDampingMin/lmDampingMax bound the Marquardt damping parameter
	// (spec.md §9: "damping bounds ... 1e±10").
	lmDampingMin = 1e-10
	lmDampingMax = 1e+10

	// lmStopTol is the stopping tolerance on relative error decrease and
	// on parameter-update norm (spec.md §9: "1e-15 update threshold").
	lmStopTol = 1e-15
)

// lmWorkspace holds the C6 scratch buffers owned by the Context: an 8x8
// JtJ accumulator, two 8x8 scratch matrices used during the damped
// symmetric solve, and the 8-vector Jte. tmp1 receives the damped copy of
// JtJ (JtJ + lambda*I) so JtJ itself is never mutated by the solve; tmp2 is
// that copy augmented with Jte and reduced in place. Both are rebuilt on
// every solve call, and refine re-accumulates JtJ/Jte at the start of every
// iteration, including after a rejected step.
type lmWorkspace struct {
	jtJ  [8][8]float32
	tmp1 [8][8]float32
	tmp2 [8][9]float32 // augmented with Jte as the 9th column during solve
	jte  [8]float32
}

// jacobianRow computes the two Jacobian rows (d(px)/dparams, d(py)/dparams)
// and the residual (px-X, py-Y) for one correspondence under h.
func jacobianRow(h Homography, src, dst Point2f) (jx, jy [8]float32, rx, ry float32, ok bool) {
	x, y := src.X, src.Y
	w := h[6]*x + h[7]*y + h[8]
	if float32(math.Abs(float64(w))) < float32(pivotTol) {
		return jx, jy, 0, 0, false
	}
	invW := 1.0 / w
	px := (h[0]*x + h[1]*y + h[2]) * invW
	py := (h[3]*x + h[4]*y + h[5]) * invW

	jx[0], jx[1], jx[2] = x*invW, y*invW, invW
	jx[3], jx[4], jx[5] = 0, 0, 0
	jx[6], jx[7] = -px*x*invW, -px*y*invW

	jy[0], jy[1], jy[2] = 0, 0, 0
	jy[3], jy[4], jy[5] = x*invW, y*invW, invW
	jy[6], jy[7] = -py*x*invW, -py*y*invW

	return jx, jy, px - dst.X, py - dst.Y, true
}

// accumulate resets ws.jtJ/ws.jte and accumulates the Gauss-Newton normal
// equations over every correspondence whose mask entry is non-zero.
// Returns the sum of squared residuals over that set (matching
// transferErrSq's convention) for convergence bookkeeping.
func (ws *lmWorkspace) accumulate(h Homography, src, dst []Point2f, mask []byte) float64 {
	for i := range ws.jtJ {
		for j := range ws.jtJ[i] {
			ws.jtJ[i][j] = 0
		}
		ws.jte[i] = 0
	}

	var sumSqErr float64
	for idx := range src {
		if mask[idx] == 0 {
			continue
		}
		jx, jy, rx, ry, ok := jacobianRow(h, src[idx], dst[idx])
		if !ok {
			continue
		}
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				ws.jtJ[i][j] += jx[i]*jx[j] + jy[i]*jy[j]
			}
			ws.jte[i] += jx[i]*rx + jy[i]*ry
		}
		sumSqErr += float64(rx)*float64(rx) + float64(ry)*float64(ry)
	}

	return sumSqErr
}

// solve damps ws.jtJ by lambda into ws.tmp1, reduces a copy in ws.tmp2 by
// symmetric Gaussian elimination with partial pivoting, and returns the
// update step delta such that (JtJ + lambda*I) * delta = Jte. ok is false
// on a pivot too small to trust (singular damped system).
func (ws *lmWorkspace) solve(lambda float32) (delta [8]float32, ok bool) {
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			ws.tmp1[i][j] = ws.jtJ[i][j]
		}
		ws.tmp1[i][i] += lambda
	}

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			ws.tmp2[i][j] = ws.tmp1[i][j]
		}
		ws.tmp2[i][8] = ws.jte[i]
	}

	for col := 0; col < 8; col++ {
		pivotRow := col
		pivotMag := float32(math.Abs(float64(ws.tmp2[col][col])))
		for row := col + 1; row < 8; row++ {
			if m := float32(math.Abs(float64(ws.tmp2[row][col]))); m > pivotMag {
				pivotMag = m
				pivotRow = row
			}
		}
		if float64(pivotMag) < pivotTol {
			return delta, false
		}
		if pivotRow != col {
			ws.tmp2[col], ws.tmp2[pivotRow] = ws.tmp2[pivotRow], ws.tmp2[col]
		}

		pivot := ws.tmp2[col][col]
		for row := col + 1; row < 8; row++ {
			factor := ws.tmp2[row][col] / pivot
			if factor == 0 {
				continue
			}
			for k := col; k < 9; k++ {
				ws.tmp2[row][k] -= factor * ws.tmp2[col][k]
			}
		}
	}

	for row := 7; row >= 0; row-- {
		sum := ws.tmp2[row][8]
		for k := row + 1; k < 8; k++ {
			sum -= ws.tmp2[row][k] * delta[k]
		}
		pivot := ws.tmp2[row][row]
		if float64(math.Abs(float64(pivot))) < pivotTol {
			return delta, false
		}
		delta[row] = sum / pivot
	}

	return delta, true
}

// refine runs up to maxIters rounds of damped Gauss-Newton on h against
// the inlier set it induces, re-scoring against every correspondence each
// round (spec.md §4.6 step 1). It returns the refined homography and
// whether any improving step was ever taken; the caller is responsible
// for re-scoring the returned H to obtain its final mask/inlier count and
// for discarding the refinement if it did not improve on the pre-refinement
// state (spec.md §4.6: "refinement never reduces the recorded best inlier
// count").
func (ws *lmWorkspace) refine(h Homography, src, dst []Point2f, maxDSq float64, scratchMask []byte, maxIters int) (Homography, bool) {
	if maxIters <= 0 {
		maxIters = lmMaxIters
	}

	lambda := float32(1e-3)
	improved := false

	for iter := 0; iter < maxIters; iter++ {
		// Step 1: re-score against all correspondences using the current
		// H, refreshing S (spec.md §4.6).
		_, sumSqErr := scoreAll(h, src, dst, maxDSq, scratchMask)

		// Steps 2-3: accumulate JtJ/Jte over S and solve the damped system.
		ws.accumulate(h, src, dst, scratchMask)

		delta, ok := ws.solve(lambda)
		if !ok {
			lambda *= 10
			if lambda > lmDampingMax {
				break
			}

			continue
		}

		var deltaNormSq float64
		for _, d := range delta {
			deltaNormSq += float64(d) * float64(d)
		}

		// Step 4: candidate update, renormalized.
		candidate := h
		for i := 0; i < 8; i++ {
			candidate[i] -= delta[i]
		}
		candidate[8] = 1

		_, candSumSqErr := scoreAll(candidate, src, dst, maxDSq, scratchMask)

		if candSumSqErr < sumSqErr {
			relDecrease := (sumSqErr - candSumSqErr) / math.Max(sumSqErr, 1e-300)
			h = candidate
			improved = true

			lambda /= 10
			if lambda < lmDampingMin {
				lambda = lmDampingMin
			}

			// Step 5: stopping tolerances.
			if relDecrease < lmStopTol || math.Sqrt(deltaNormSq) < lmStopTol {
				break
			}
		} else {
			lambda *= 10
			if lambda > lmDampingMax {
				break
			}
		}
	}

	return h, improved
}
