// C1: geometry kernel — minimal 4-point homography solve and symmetric
// transfer-error scoring.
//
// The 4-point solve assembles the 8x9 augmented system of the homogeneous
// DLT constraints (8 equations in the 8 free parameters h0..h7, with h8
// fixed to 1) and solves it by Gaussian elimination with partial pivoting,
// grounded on matrix/ops/lu.go's elimination structure and Stage-comment
// style, adapted from a square LU factorization to a single augmented
// solve since the DLT system is not itself symmetric or square-factorable
// in a reusable way.
package rho

import "math"

// pivotTol is the absolute pivot-magnitude threshold below which the
// 4-point sample is treated as degenerate (spec.md §9: "absolute pivot
// tolerance ≈ 1e-12").
const pivotTol = 1e-12

// detEps is the minimum acceptable |det| of H's upper-left 2x2 block; a
// smaller value indicates the produced homography collapses the plane
// along one axis and the sample must be rejected (spec.md §4.1).
const detEps = 1e-8

// solveHomography computes the unique homography mapping src[i] -> dst[i]
// for i in 0..3, by Gaussian elimination with partial pivoting on the 8x9
// DLT system. ok is false if the sample is degenerate (a pivot too small
// to trust, or the resulting H has a near-singular linear part) and must
// be rejected without being counted against SPRT statistics (spec.md §4.1).
//
// Complexity: O(1) — fixed 8x9 system.
func solveHomography(src, dst [4]Point2f) (h Homography, ok bool) {
	// Stage 1: assemble the 8x9 augmented matrix (float64 for solve
	// precision; the result is rounded back to float32 at the end).
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := float64(src[i].X), float64(src[i].Y)
		X, Y := float64(dst[i].X), float64(dst[i].Y)

		r0 := &a[2*i]
		r0[0], r0[1], r0[2] = x, y, 1
		r0[3], r0[4], r0[5] = 0, 0, 0
		r0[6], r0[7] = -X*x, -X*y
		r0[8] = X

		r1 := &a[2*i+1]
		r1[0], r1[1], r1[2] = 0, 0, 0
		r1[3], r1[4], r1[5] = x, y, 1
		r1[6], r1[7] = -Y*x, -Y*y
		r1[8] = Y
	}

	// Stage 2: forward elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		// Find the largest-magnitude pivot in this column among remaining rows.
		pivotRow := col
		pivotMag := math.Abs(a[col][col])
		for row := col + 1; row < 8; row++ {
			if m := math.Abs(a[row][col]); m > pivotMag {
				pivotMag = m
				pivotRow = row
			}
		}
		if pivotMag < pivotTol {
			return Homography{}, false // degenerate sample
		}
		if pivotRow != col {
			a[col], a[pivotRow] = a[pivotRow], a[col]
		}

		// Eliminate this column from all rows below.
		pivot := a[col][col]
		for row := col + 1; row < 8; row++ {
			factor := a[row][col] / pivot
			if factor == 0 {
				continue
			}
			for k := col; k < 9; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	// Stage 3: back substitution.
	var params [8]float64
	for row := 7; row >= 0; row-- {
		sum := a[row][8]
		for k := row + 1; k < 8; k++ {
			sum -= a[row][k] * params[k]
		}
		pivot := a[row][row]
		if math.Abs(pivot) < pivotTol {
			return Homography{}, false
		}
		params[row] = sum / pivot
	}

	// Stage 4: assemble H, normalize h8=1 (already the case by construction),
	// and reject near-singular linear parts.
	for i := 0; i < 8; i++ {
		h[i] = float32(params[i])
	}
	h[8] = 1

	det := float64(h[0])*float64(h[4]) - float64(h[1])*float64(h[3])
	if math.Abs(det) < detEps {
		return Homography{}, false
	}

	return h, true
}

// project applies h to p, returning the projected point and whether the
// homogeneous denominator was safely away from zero.
func project(h Homography, p Point2f) (Point2f, bool) {
	x, y := float64(p.X), float64(p.Y)
	wx := float64(h[0])*x + float64(h[1])*y + float64(h[2])
	wy := float64(h[3])*x + float64(h[4])*y + float64(h[5])
	w := float64(h[6])*x + float64(h[7])*y + float64(h[8])
	if math.Abs(w) < pivotTol {
		return Point2f{}, false
	}

	return Point2f{X: float32(wx / w), Y: float32(wy / w)}, true
}

// transferErrSq returns the squared Euclidean distance between src
// projected by h and dst — the forward symmetric transfer error used
// throughout the estimator to decide inlier membership (spec.md §4.1).
// A failed projection (near-zero homogeneous denominator) scores as
// +Inf so the correspondence is always treated as an outlier.
func transferErrSq(h Homography, src, dst Point2f) float64 {
	proj, ok := project(h, src)
	if !ok {
		return math.Inf(1)
	}
	dx := float64(proj.X - dst.X)
	dy := float64(proj.Y - dst.Y)

	return dx*dx + dy*dy
}

// scoreAll scores every correspondence against h, writing a byte-valued
// inlier mask (0 outlier, 1 inlier) into inl and returning the inlier
// count and the sum of squared transfer errors over the inlier set (the
// deterministic secondary tie-break criterion, spec.md §4.5 / §9).
//
// Complexity: O(N).
func scoreAll(h Homography, src, dst []Point2f, maxDSq float64, inl []byte) (count uint32, sumSqErr float64) {
	for i := range src {
		e := transferErrSq(h, src[i], dst[i])
		if e <= maxDSq {
			inl[i] = 1
			count++
			sumSqErr += e
		} else {
			inl[i] = 0
		}
	}

	return count, sumSqErr
}
