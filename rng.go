// Deterministic RNG utilities for PROSAC/RANSAC sampling.
//
// Grounded on tsp/rng.go: a single seeded RNG factory per context, plus
// rejection-sampling helpers for pairwise-distinct index draws. There is no
// substream derivation or shuffle helper. math/rand.Rand is not
// goroutine-safe; each Context owns exactly
// one *rand.Rand and is documented as single-owner per call (spec.md §5).
package rho

import "math/rand"

// defaultSeed is the fixed "zero" seed used when Params.Seed == 0, mirroring
// tsp.defaultRNGSeed: an arbitrary but stable value so the zero value of
// Params remains reproducible rather than accidentally unseeded.
const defaultSeed int64 = 1

// randSource is the minimal RNG surface PROSAC sampling needs; satisfied
// by *rand.Rand, and kept as an interface so sampling is testable with a
// scripted source.
type randSource interface {
	Intn(n int) int
}

// rngFromSeed returns a deterministic *rand.Rand for the given seed. Policy:
// seed == 0 uses defaultSeed; otherwise the seed is used verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultSeed
	}

	return rand.New(rand.NewSource(s))
}

// uniformIntn draws a uniform integer in [0, n) from rng. n must be > 0.
func uniformIntn(rng randSource, n int) int {
	return rng.Intn(n)
}

// sampleDistinct3 draws three pairwise-distinct indices uniformly from
// [0, hi] (inclusive) via rejection sampling, per spec.md §4.5's PROSAC
// sampling rule ("three distinct indices uniformly from [0, phNum-2]").
// hi must be >= 2 for three distinct values to exist.
func sampleDistinct3(rng randSource, hi int) (a, b, c int) {
	span := hi + 1
	a = uniformIntn(rng, span)
	for {
		b = uniformIntn(rng, span)
		if b != a {
			break
		}
	}
	for {
		c = uniformIntn(rng, span)
		if c != a && c != b {
			break
		}
	}

	return a, b, c
}

// sampleDistinct4 draws four pairwise-distinct indices uniformly from
// [0, hi] via rejection sampling, used once PROSAC has degenerated to
// uniform RANSAC sampling over all N correspondences (spec.md §4.5).
func sampleDistinct4(rng randSource, hi int) (a, b, c, d int) {
	span := hi + 1
	a = uniformIntn(rng, span)
	for {
		b = uniformIntn(rng, span)
		if b != a {
			break
		}
	}
	for {
		c = uniformIntn(rng, span)
		if c != a && c != b {
			break
		}
	}
	for {
		d = uniformIntn(rng, span)
		if d != a && d != b && d != c {
			break
		}
	}

	return a, b, c, d
}
