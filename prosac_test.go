package rho

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProsacState_RansacWhenTooFewPoints(t *testing.T) {
	t.Parallel()

	p := newProsacState(4)
	require.True(t, p.ransac)
}

func TestProsacState_SampleIndicesWithinPhaseBounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	p := newProsacState(100)

	for i := 0; i < 500; i++ {
		idx := p.sample(rng)
		seen := map[uint32]bool{}
		for _, ix := range idx {
			if p.ransac {
				require.Less(t, ix, uint32(100))
			} else {
				require.Less(t, ix, p.phNum)
			}
			require.False(t, seen[ix], "sampled indices must be pairwise distinct")
			seen[ix] = true
		}
		p.advance(2000)
	}
}

func TestProsacState_AdvanceDegeneratesAtRConvg(t *testing.T) {
	t.Parallel()

	p := newProsacState(1000)
	for i := 0; i < 10; i++ {
		p.advance(10)
	}
	require.True(t, p.ransac)
}

func TestProsacState_AdvanceDegeneratesWhenPhaseReachesN(t *testing.T) {
	t.Parallel()

	p := newProsacState(5)
	require.False(t, p.ransac)
	for i := 0; i < 100 && !p.ransac; i++ {
		p.advance(1_000_000)
	}
	require.True(t, p.ransac)
	require.GreaterOrEqual(t, p.phNum, uint32(5))
}

func TestStandardBudget_PerfectFitCollapsesToZero(t *testing.T) {
	t.Parallel()

	b := standardBudget(50, 50, 2000, 0.995)
	require.Equal(t, uint32(0), b)
}

func TestStandardBudget_NoEvidenceReturnsMaxI(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint32(2000), standardBudget(0, 50, 2000, 0.995))
}

func TestStandardBudget_NeverExceedsMaxI(t *testing.T) {
	t.Parallel()

	b := standardBudget(5, 50, 2000, 0.995)
	require.LessOrEqual(t, b, uint32(2000))
}

func TestProsacState_CheckNonRandom(t *testing.T) {
	t.Parallel()

	var tbl nrTable
	tbl.ensure(10, 0.3)

	mask := make([]byte, 10)
	for i := range mask {
		mask[i] = 1 // every prefix is entirely inliers: must trip non-random quickly
	}

	p := newProsacState(10)
	require.True(t, p.checkNonRandom(&tbl, mask))
	require.Greater(t, p.phMax, uint32(0))
	require.Equal(t, p.phMax, p.phNumInl)
}
