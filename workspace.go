// C2: workspace — the Context aggregate that exclusively owns every
// scratch buffer the estimator needs across its lifecycle (init, zero or
// more Estimate calls, finalize).
//
// Grounded on tsp/bb.go's bbEngine: a single struct holding policy,
// owned buffers, and running state, with sub-views into that struct
// rather than independently heap-allocated objects (spec.md §9's design
// note: "do not model them as independent heap objects").
package rho

import (
	"fmt"
	"math/rand"
)

// Context is the estimator's lifecycle-managed workspace. It exclusively
// owns every internal buffer (packed points, current/best inlier masks,
// LM matrices, NR table) for the duration it is used; the caller owns the
// Context itself and must not share one Context across concurrent calls
// (spec.md §5).
//
// The zero value is not usable; construct with NewContext and call Init
// before the first Estimate.
type Context struct {
	initialized bool

	rng *rand.Rand

	nr nrTable

	// Packed, aligned correspondence buffers refreshed at the start of
	// every Estimate call (spec.md §4.2).
	packedSrc []Point2f
	packedDst []Point2f

	// Current and best model scratch, sized to the correspondence count
	// of the most recent Estimate call.
	currMask []byte
	bestMask []byte

	lm lmWorkspace
}

// NewContext allocates an uninitialized Context. Call Init before use.
func NewContext() *Context {
	return &Context{}
}

// Init marks the context live and seeds its RNG; the aligned point and
// mask buffers are allocated by the first Estimate call that needs them
// (ensureN). Re-entering Init on an already-initialized context is a
// programming error and panics,
// per spec.md §4.2 ("Re-entering init on a live context is a programming
// error").
func (c *Context) Init() error {
	if c.initialized {
		panic(fmt.Errorf("rho: Init: %w", ErrAlreadyInitialized))
	}

	c.rng = rngFromSeed(defaultSeed)
	c.initialized = true

	return nil
}

// EnsureNRCapacity grows (or, for n == 0, releases) the context's
// non-randomness table so it covers at least n support sizes at the
// given beta. Safe to call whether or not NR is actually enabled for any
// particular Estimate call. Must be called on an initialized context.
func (c *Context) EnsureNRCapacity(n uint32, beta float64) error {
	c.mustBeInitialized()

	c.nr.ensure(n, beta)

	return nil
}

// Finalize releases every buffer owned by c. Double-finalizing is a
// programming error and panics (spec.md §4.2: "double-finalize is a
// programming error").
func (c *Context) Finalize() {
	if !c.initialized {
		panic(fmt.Errorf("rho: Finalize: %w", ErrNotInitialized))
	}

	c.rng = nil
	c.nr = nrTable{}
	c.packedSrc = nil
	c.packedDst = nil
	c.currMask = nil
	c.bestMask = nil
	c.lm = lmWorkspace{}
	c.initialized = false
}

func (c *Context) mustBeInitialized() {
	if !c.initialized {
		panic(fmt.Errorf("rho: %w", ErrNotInitialized))
	}
}

// ensureN grows the packed point and mask scratch buffers to hold n
// correspondences and reseeds the RNG from seed, so every Estimate call
// starts from the same stream for the same seed.
func (c *Context) ensureN(n uint32, seed int64) {
	if cap(c.packedSrc) < int(n) {
		c.packedSrc = alignedPoints(int(n))
		c.packedDst = alignedPoints(int(n))
		c.currMask = make([]byte, n)
		c.bestMask = make([]byte, n)
	} else {
		c.packedSrc = c.packedSrc[:n]
		c.packedDst = c.packedDst[:n]
		c.currMask = c.currMask[:n]
		c.bestMask = c.bestMask[:n]
	}

	c.rng = rngFromSeed(seed)
}
