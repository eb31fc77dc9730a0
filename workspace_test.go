package rho

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// recoverErr runs f, expecting it to panic with a value wrapping an error,
// and returns that error.
func recoverErr(t *testing.T, f func()) (recovered error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value must be an error")
		recovered = err
	}()
	f()

	return nil
}

func TestContext_InitThenFinalize(t *testing.T) {
	t.Parallel()

	c := NewContext()
	require.NoError(t, c.Init())
	c.Finalize()
}

func TestContext_DoubleInitPanics(t *testing.T) {
	t.Parallel()

	c := NewContext()
	require.NoError(t, c.Init())
	defer c.Finalize()

	err := recoverErr(t, func() { _ = c.Init() })
	require.True(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestContext_DoubleFinalizePanics(t *testing.T) {
	t.Parallel()

	c := NewContext()
	require.NoError(t, c.Init())
	c.Finalize()

	err := recoverErr(t, func() { c.Finalize() })
	require.True(t, errors.Is(err, ErrNotInitialized))
}

func TestContext_UseBeforeInitPanics(t *testing.T) {
	t.Parallel()

	c := NewContext()
	err := recoverErr(t, func() { _ = c.EnsureNRCapacity(10, 0.3) })
	require.True(t, errors.Is(err, ErrNotInitialized))
}

func TestContext_EnsureNRCapacityGrowsAndShrinks(t *testing.T) {
	t.Parallel()

	c := NewContext()
	require.NoError(t, c.Init())
	defer c.Finalize()

	require.NoError(t, c.EnsureNRCapacity(50, 0.3))
	require.Equal(t, uint32(50), c.nr.size)

	require.NoError(t, c.EnsureNRCapacity(0, 0.3))
	require.Equal(t, uint32(0), c.nr.size)
}
