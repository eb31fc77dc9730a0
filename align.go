package rho

import "unsafe"

// alignBytes is the minimum alignment (in bytes) required of every
// workspace buffer, per spec.md §4.2, so that the hot inner loops (C1
// scoring, C4 SPRT streaming, C6 JtJ accumulation) can be vectorized by
// the compiler without a misaligned-load penalty.
const alignBytes = 16

// alignedFloat32s allocates a []float32 of length n whose first element
// is aligned to alignBytes. The standard library gives no portable way
// to request aligned heap memory directly, so the slice is over-allocated
// and a sub-slice starting at the first aligned offset is returned; the
// backing array is kept alive by the returned slice's capacity, so no
// extra reference needs to be retained by the caller.
//
// This is the one place in the package that reaches for unsafe: no pack
// dependency offers aligned allocation (see DESIGN.md), and the technique
// is a standard, narrowly-scoped Go idiom.
func alignedFloat32s(n int) []float32 {
	if n <= 0 {
		return nil
	}

	const elemSize = int(unsafe.Sizeof(float32(0)))
	pad := alignBytes/elemSize - 1
	if pad < 0 {
		pad = 0
	}

	raw := make([]float32, n+pad)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	offset := (alignBytes - int(addr%alignBytes)) % alignBytes
	start := offset / elemSize

	return raw[start : start+n : start+n]
}

// alignedPoints allocates a []Point2f of length n backed by an aligned
// []float32 of length 2n: Point2f{X, Y float32} has the identical memory
// layout of two consecutive float32s (no padding), so reinterpreting the
// aligned backing array is safe and gives every hot loop over
// correspondences (C1 scoring, C4 SPRT streaming, C6 Jacobian
// accumulation) an aligned, contiguous, packed buffer per spec.md §4.2 —
// without threading a separate flat-float32 representation through every
// function that already operates on []Point2f.
func alignedPoints(n int) []Point2f {
	if n <= 0 {
		return nil
	}

	backing := alignedFloat32s(2 * n)

	return unsafe.Slice((*Point2f)(unsafe.Pointer(&backing[0])), n)
}
