package stackful

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGeneratorNestedResumeDuringYeet exercises spec.md §8's nested
// scenario: an outer generator, mid-yeet, constructs and fully drives
// an inner generator before continuing, proving that resuming a second
// generator from inside a suspended Yeet call is well-defined and does
// not corrupt the outer's yield handle — round-trip equality of passed
// values holds at every level.
func TestGeneratorNestedResumeDuringYeet(t *testing.T) {
	const outerN = 100
	const innerToken = 777

	outer := NewGenerator(func(y *YieldHandle[int, int], _ int) int {
		for i := 0; i < outerN; i++ {
			r := y.Yeet(i)
			require.Equal(t, i+1, r)

			if i == outerN-1 {
				inner := NewGenerator(func(iy *YieldHandle[int, int], ir int) int {
					echoed := iy.Yeet(innerToken)
					return echoed + ir
				})
				state := inner.Resume(0)
				v, ok := state.Yielded()
				require.True(t, ok)
				require.Equal(t, innerToken, v)

				state = inner.Resume(3)
				done, ok := state.Complete()
				require.True(t, ok)
				require.Equal(t, 3, done)
				require.NoError(t, inner.Close())

				// Outer yields i one more time, as the spec's concrete
				// nested scenario requires, proving the outer's yield
				// handle survived the inner generator's full lifecycle.
				r = y.Yeet(i)
				require.Equal(t, i+1, r)
			}
		}
		return 1000
	})
	defer outer.Close()

	state := outer.Resume(0)
	for i := 0; i < outerN; i++ {
		v, ok := state.Yielded()
		require.True(t, ok)
		require.Equal(t, i, v)
		state = outer.Resume(i + 1)

		if i == outerN-1 {
			v, ok = state.Yielded()
			require.True(t, ok)
			require.Equal(t, outerN-1, v)
			state = outer.Resume(i + 1)
		}
	}

	done, ok := state.Complete()
	require.True(t, ok)
	require.Equal(t, 1000, done)
}
