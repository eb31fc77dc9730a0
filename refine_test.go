package rho

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLMRefine_NeverWorsensInlierCount(t *testing.T) {
	t.Parallel()

	src, dst := affineFixture()
	h := Homography{2, 0, 1, 0, 1, 0.5, 0, 0, 1}
	maxDSq := 1e-6

	mask := make([]byte, len(src))
	beforeCount, _ := scoreAll(h, src, dst, maxDSq, mask)

	var ws lmWorkspace
	refined, _ := ws.refine(h, src, dst, maxDSq, mask, lmMaxIters)

	afterMask := make([]byte, len(src))
	afterCount, _ := scoreAll(refined, src, dst, maxDSq, afterMask)

	require.GreaterOrEqual(t, afterCount, beforeCount)
}

func TestLMRefine_ConvergesToExactFitFromPerturbedStart(t *testing.T) {
	t.Parallel()

	src, dst := affineFixture()
	maxDSq := 1e-2

	// Perturb the true homography slightly and confirm refinement pulls it
	// back toward full support.
	h := Homography{2.05, 0.01, 1.03, -0.02, 0.98, 0.47, 0.001, -0.002, 1}
	mask := make([]byte, len(src))

	var ws lmWorkspace
	refined, improved := ws.refine(h, src, dst, maxDSq, mask, lmMaxIters)
	require.True(t, improved)

	finalMask := make([]byte, len(src))
	count, _ := scoreAll(refined, src, dst, maxDSq, finalMask)
	require.Equal(t, uint32(len(src)), count)
}

func TestJacobianRow_DegenerateDenominator(t *testing.T) {
	t.Parallel()

	h := Homography{1, 0, 0, 0, 1, 0, 1, 0, 0}
	_, _, _, _, ok := jacobianRow(h, Point2f{X: 0, Y: 1}, Point2f{X: 0, Y: 1})
	require.False(t, ok)
}

func TestLMSolve_UndampedZeroSystemIsSingular(t *testing.T) {
	t.Parallel()

	var ws lmWorkspace
	// An all-zero JtJ/Jte with zero damping has only zero pivots, so the
	// solve reports failure.
	_, ok := ws.solve(0)
	require.False(t, ok)
}
