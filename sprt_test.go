package rho

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSPRT_AcceptsModelThatMatchesEveryPoint(t *testing.T) {
	t.Parallel()

	src, dst := affineFixture()
	h := Homography{2, 0, 1, 0, 1, 0.5, 0, 0, 1}

	s := initSPRT(float64(4)/float64(len(src)), 0.01, 200, 1)
	out := s.evaluate(h, src, dst, 1e-6)

	require.True(t, out.accepted)
	require.Equal(t, uint32(len(src)), out.tested)
	require.Equal(t, uint32(len(src)), out.inliers)
}

func TestSPRT_NeverExceedsActualTestedCount(t *testing.T) {
	t.Parallel()

	// The identity matches only the first of these points, forcing an early
	// SPRT rejection; ntested must equal the number of correspondences
	// actually examined before the abort, never the full N
	// (spec.md §4.4).
	src := make([]Point2f, 200)
	dst := make([]Point2f, 200)
	for i := range src {
		src[i] = Point2f{X: float32(i), Y: float32(i)}
		dst[i] = Point2f{X: float32(i) * 7, Y: float32(i) * 11} // inconsistent with the identity except at i == 0
	}

	s := initSPRT(0.5, 0.01, 200, 1)
	out := s.evaluate(Identity(), src, dst, 1e-6)

	require.False(t, out.accepted)
	require.Less(t, out.tested, uint32(len(src)), "SPRT must abort well before exhausting all correspondences")
	require.Equal(t, out.tested, s.ntested)
	require.LessOrEqual(t, s.ntested, uint32(len(src)))
}

func TestSPRT_RecomputeA_PositiveThreshold(t *testing.T) {
	t.Parallel()

	s := initSPRT(0.5, 0.01, 200, 1)
	require.Greater(t, s.a, 1.0)
	require.Greater(t, s.lambdaAccept, 0.0)
	require.Greater(t, s.lambdaReject, 0.0)
}

func TestSPRT_UpdateEpsilonClampsAwayFromDelta(t *testing.T) {
	t.Parallel()

	s := initSPRT(0.5, 0.2, 200, 1)
	s.updateEpsilon(0, 100) // observed ratio 0, below delta: must clamp above delta
	require.Greater(t, s.epsilon, s.delta)

	s.updateEpsilon(100, 100) // observed ratio 1: must clamp below 1
	require.Less(t, s.epsilon, 1.0)
}
