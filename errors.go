// Sentinel errors for the rho package.
//
// Policy (mirrors the teacher's matrix/builder packages): every error
// condition that callers may need to branch on is a package-level
// sentinel, constructed with errors.New and never string-matched.
// Sentinels are not wrapped with fmt.Errorf at their definition site;
// call sites that need context wrap with fmt.Errorf("rho: Op: %w", ErrX)
// so callers can still use errors.Is.
//
// Lifecycle misuse (double Init, use-before-Init, double Finalize) is a
// programmer error per spec and panics rather than returning an error,
// matching builder's "option constructors panic, algorithms never do"
// split applied to lifecycle instead of argument validation.
package rho

import "errors"

var (
	// ErrTooFewPoints indicates N < 4 correspondences were supplied.
	ErrTooFewPoints = errors.New("rho: fewer than 4 correspondences")

	// ErrLengthMismatch indicates src/dst/inl slices have inconsistent lengths.
	ErrLengthMismatch = errors.New("rho: src/dst/inl length mismatch")

	// ErrInvalidMaxD indicates a negative maxD was supplied.
	ErrInvalidMaxD = errors.New("rho: maxD must be non-negative")

	// ErrInvalidConfidence indicates cfd is outside [0,1].
	ErrInvalidConfidence = errors.New("rho: cfd must be in [0,1]")

	// ErrInvalidBeta indicates beta is outside (0,1) while NR is enabled.
	ErrInvalidBeta = errors.New("rho: beta must be in (0,1) when NR is enabled")

	// ErrNilBuffer indicates a required input buffer (src or dst) was nil.
	ErrNilBuffer = errors.New("rho: required buffer is nil")

	// ErrAllocation indicates an internal buffer failed to allocate.
	ErrAllocation = errors.New("rho: allocation failure")

	// ErrAlreadyInitialized is the value panicked with by Init on an
	// already-initialized Context.
	ErrAlreadyInitialized = errors.New("rho: Init called on an already-initialized Context")

	// ErrNotInitialized is the value panicked with by Estimate,
	// EnsureNRCapacity, or Finalize called before Init (or after Finalize).
	ErrNotInitialized = errors.New("rho: Context used before Init or after Finalize")
)
