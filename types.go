package rho

// Point2f is a single 2D point in either the source or destination plane.
type Point2f struct {
	X, Y float32
}

// Homography is a row-major 3x3 projective transform, normalized so that
// H[8] (the bottom-right element) equals 1.0. The zero value is the
// sentinel for "no acceptable result was found".
//
//	[ H[0] H[1] H[2] ]
//	[ H[3] H[4] H[5] ]
//	[ H[6] H[7] H[8] ]
type Homography [9]float32

// Identity returns the identity homography.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// IsZero reports whether h is the all-zero sentinel matrix.
func (h Homography) IsZero() bool {
	for _, v := range h {
		if v != 0 {
			return false
		}
	}

	return true
}

// Flags selects optional estimator behavior. It is bit-compatible in
// spirit with the three-bit external flags union described by spec.md
// §6 (RHO_FLAG_ENABLE_NR / _REFINEMENT / _FINAL_REFINEMENT), expressed
// here as a plain struct of booleans rather than functional options —
// the teacher reserves functional options for larger configs
// (builder.BuilderOption) and uses plain option structs (matrix.MatrixOptions)
// for small, fixed option sets like this one.
type Flags struct {
	// EnableNR activates the non-randomness termination test (§4.3). Requires
	// a valid Beta in (0,1).
	EnableNR bool

	// EnableRefinement LM-refines every newly accepted best model before its
	// inlier count feeds the termination estimate (§4.6).
	EnableRefinement bool

	// EnableFinalRefinement LM-refines the best model once, after the main
	// loop terminates, before it is emitted (§4.6).
	EnableFinalRefinement bool
}

// Params bundles the estimator's tunable parameters (spec.md §6).
type Params struct {
	// MaxD is the maximum transfer distance (not squared) for a correspondence
	// to count as an inlier. Must be non-negative.
	MaxD float32

	// MaxI is the maximum number of PROSAC/RANSAC iterations.
	MaxI uint32

	// RConvg is the iteration count at which sampling degenerates to uniform
	// RANSAC over all N correspondences, regardless of phase.
	RConvg uint32

	// Cfd is the required confidence in the solution, in [0,1].
	Cfd float64

	// MinInl is the minimum inlier count required to accept a result.
	// Clamped up to 4 if smaller (spec.md §7).
	MinInl uint32

	// Beta is the non-randomness beta parameter, required in (0,1) when
	// Flags.EnableNR is set.
	Beta float64

	// Flags selects optional behavior.
	Flags Flags

	// Seed seeds the context-local deterministic RNG. Zero is a valid seed
	// and yields a fixed, reproducible stream (see rng.go).
	Seed int64
}

// DefaultParams returns the reference implementation's documented sane
// defaults (spec.md §6 / rhorefc.h): maxD=3.0, maxI=2000, rConvg=2000,
// cfd=0.995, minInl=4, beta=0.35, no flags, seed=0.
func DefaultParams() Params {
	return Params{
		MaxD:   3.0,
		MaxI:   2000,
		RConvg: 2000,
		Cfd:    0.995,
		MinInl: 4,
		Beta:   0.35,
	}
}
