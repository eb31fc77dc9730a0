package rho

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNRTable_EnsureGrowsAndShrinks(t *testing.T) {
	t.Parallel()

	var tbl nrTable
	tbl.ensure(10, 0.3)
	require.Equal(t, uint32(10), tbl.size)
	require.InDelta(t, 0.3, tbl.beta, 0)

	first := make([]uint32, tbl.size)
	copy(first, tbl.tbl)

	// Growing with the same beta must preserve every previously computed
	// entry (spec.md §4.2).
	tbl.ensure(20, 0.3)
	require.Equal(t, uint32(20), tbl.size)
	for i, v := range first {
		require.Equal(t, v, tbl.tbl[i], "entry %d must be preserved on growth", i)
	}

	// n == 0 releases the table entirely.
	tbl.ensure(0, 0.3)
	require.Equal(t, uint32(0), tbl.size)
	require.Nil(t, tbl.tbl)
}

func TestNRTable_BetaChangeRecomputesFully(t *testing.T) {
	t.Parallel()

	var tbl nrTable
	tbl.ensure(10, 0.3)
	low := tbl.kAt(9)

	tbl.ensure(10, 0.8)
	require.InDelta(t, 0.8, tbl.beta, 0)
	high := tbl.kAt(9)

	// A larger beta (higher assumed random-match rate) requires a larger
	// inlier count before a prefix is judged non-random.
	require.Greater(t, high, low)
}

func TestNRTable_KAtOutOfRangeIsZero(t *testing.T) {
	t.Parallel()

	var tbl nrTable
	tbl.ensure(5, 0.3)
	require.Equal(t, uint32(0), tbl.kAt(5))
	require.Equal(t, uint32(0), tbl.kAt(100))
}

func TestBinomialTail_MonotonicNonIncreasing(t *testing.T) {
	t.Parallel()

	const n = 30
	prev := 1.0
	for k := 0; k <= n; k++ {
		p := binomialTail(n, k, 0.4)
		require.LessOrEqual(t, p, prev+1e-9)
		prev = p
	}
}

func TestSmallestNonRandomK_IsConsistentWithTail(t *testing.T) {
	t.Parallel()

	k := smallestNonRandomK(50, 0.3)
	require.Less(t, binomialTail(50, int(k), 0.3), nrSignificance)
	if k > 0 {
		require.GreaterOrEqual(t, binomialTail(50, int(k)-1, 0.3), nrSignificance)
	}
}
