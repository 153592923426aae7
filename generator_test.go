package stackful

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorYieldSequence(t *testing.T) {
	const n = 100
	g := NewGenerator(func(y *YieldHandle[int, int], _ int) int {
		for i := 0; i < n; i++ {
			r := y.Yeet(i)
			require.Equal(t, i+1, r)
		}
		return 1024
	})
	defer g.Close()

	for i := 0; i < n; i++ {
		state := g.Resume(i)
		v, ok := state.Yielded()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	state := g.Resume(n)
	v, ok := state.Complete()
	require.True(t, ok)
	require.Equal(t, 1024, v)
}

func TestGeneratorResumeAfterCompletionPanics(t *testing.T) {
	g := NewGenerator(func(_ *YieldHandle[int, int], r int) int {
		return r
	})
	defer g.Close()

	state := g.Resume(7)
	_, ok := state.Complete()
	require.True(t, ok)

	require.PanicsWithValue(t, ErrResumeAfterCompletion, func() {
		g.Resume(0)
	})
}

func TestGeneratorPanicRoundTrip(t *testing.T) {
	sentinel := errors.New("boom")
	g := NewGenerator(func(_ *YieldHandle[int, int], _ int) int {
		panic(sentinel)
	})
	defer g.Close()

	require.PanicsWithError(t, "stackful: panic recovered from coroutine: boom", func() {
		g.Resume(0)
	})
}

func TestGeneratorCloseBeforeFirstResumeIsNoop(t *testing.T) {
	g := NewGenerator(func(_ *YieldHandle[int, int], r int) int { return r })
	require.NoError(t, g.Close())
}

func TestGeneratorAbortiveDropRunsScopedReleases(t *testing.T) {
	released := false
	g := NewGenerator(func(y *YieldHandle[int, int], _ int) int {
		defer func() { released = true }()
		y.Yeet(0)
		return 0
	})

	state := g.Resume(0)
	_, ok := state.Yielded()
	require.True(t, ok)
	require.False(t, released)

	require.NoError(t, g.Close())
	require.True(t, released)
}

func TestGeneratorStackSizeOption(t *testing.T) {
	g := NewGenerator(func(y *YieldHandle[int, int], _ int) int {
		y.Yeet(0)
		return 0
	}, WithStackSize(4*pageSize()))
	defer g.Close()

	state := g.Resume(0)
	_, ok := state.Yielded()
	require.True(t, ok)
}

func TestGeneratorMetricsRecordsStackAndSwitchCounts(t *testing.T) {
	m := NewMetrics()
	g := NewGenerator(func(y *YieldHandle[int, int], _ int) int {
		y.Yeet(1)
		return 0
	}, WithGeneratorMetrics(m))

	state := g.Resume(0)
	_, ok := state.Yielded()
	require.True(t, ok)
	require.Equal(t, 1, m.Switch.Sample())
	require.Equal(t, 1, g.Metrics().Count)

	require.NoError(t, g.Close())
	stats := m.StackCacheStats()
	require.Equal(t, int64(1), stats.Allocs)
	require.Equal(t, int64(1), stats.Frees)
}

func TestGeneratorMetricsZeroWithoutOption(t *testing.T) {
	g := NewGenerator(func(_ *YieldHandle[int, int], r int) int { return r })
	defer g.Close()
	g.Resume(0)
	require.Equal(t, LatencySnapshot{}, g.Metrics())
}
