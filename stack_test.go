package stackful

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackCacheRoundTrip(t *testing.T) {
	stackCache.Store(0)

	s, cached := allocateStack(stackSize)
	require.False(t, cached)
	require.NotZero(t, s.addr)
	require.Equal(t, uintptr(stackSize), s.size)

	s.release()
	require.NotZero(t, stackCache.Load())

	s2, cached2 := allocateStack(stackSize)
	require.True(t, cached2)
	require.Equal(t, s.addr, s2.addr)
	s2.release()
}

func TestStackCacheNonDefaultSizeBypassesCache(t *testing.T) {
	stackCache.Store(0)

	size := uintptr(stackSize) * 2
	s, cached := allocateStack(size)
	require.False(t, cached)
	s.release()
	require.Zero(t, stackCache.Load(), "non-default-sized stacks must never populate the single slot")
}

// TestStackCacheConcurrentAllocateRelease exercises the single-slot
// cache's lock-free swap/CAS discipline (spec.md §5, "Shared
// resources") from many goroutines at once: every allocate/release
// pair must still observe a consistent, non-aliased stack, whether it
// came from the cache or a fresh mapping.
func TestStackCacheConcurrentAllocateRelease(t *testing.T) {
	stackCache.Store(0)

	const goroutines = 16
	const iterations = 50

	var wg sync.WaitGroup
	var fromCache atomic.Int64
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				s, cached := allocateStack(stackSize)
				if cached {
					fromCache.Add(1)
				}
				require.NotZero(t, s.addr)
				s.release()
			}
		}()
	}
	wg.Wait()

	// Not a hard requirement of correctness, but with 16*50 round
	// trips through a single slot, at least some should have hit.
	require.Greater(t, fromCache.Load(), int64(0))
}
