// Argument validation and clamping for Estimate's inputs.
//
// Grounded on tsp/validate.go's validateAll factoring: validation lives in
// one function separate from the driver, which checks each precondition in
// turn and returns a wrapped sentinel on failure rather than a bare error
// string.
package rho

import "fmt"

// validateEstimateArgs checks src/dst/params/inl for use in Estimate,
// returning a wrapped sentinel error describing the first violation
// found. It does not mutate params; clampParams handles clamping of
// values that have a well-defined minimum rather than a hard rejection.
func validateEstimateArgs(src, dst []Point2f, params Params, inl []byte) error {
	if src == nil || dst == nil {
		return fmt.Errorf("rho: Estimate: %w", ErrNilBuffer)
	}
	if len(src) != len(dst) {
		return fmt.Errorf("rho: Estimate: %w", ErrLengthMismatch)
	}
	if inl != nil && len(inl) != len(src) {
		return fmt.Errorf("rho: Estimate: %w", ErrLengthMismatch)
	}
	if len(src) < minSampleSize {
		return fmt.Errorf("rho: Estimate: %w", ErrTooFewPoints)
	}
	if params.MaxD < 0 {
		return fmt.Errorf("rho: Estimate: %w", ErrInvalidMaxD)
	}
	if params.Cfd < 0 || params.Cfd > 1 {
		return fmt.Errorf("rho: Estimate: %w", ErrInvalidConfidence)
	}
	if params.Flags.EnableNR && (params.Beta <= 0 || params.Beta >= 1) {
		return fmt.Errorf("rho: Estimate: %w", ErrInvalidBeta)
	}

	return nil
}

// clampParams applies the spec's defined clamps rather than rejections
// (spec.md §7): MinInl below the minimal sample size is raised to it, and
// MaxI of zero is raised to 1 so the loop always attempts at least one
// hypothesis.
func clampParams(p Params) Params {
	if p.MinInl < minSampleSize {
		p.MinInl = minSampleSize
	}
	if p.MaxI == 0 {
		p.MaxI = 1
	}

	return p
}
