//go:build !windows

package stackful

import (
	"golang.org/x/sys/unix"
)

// pageSize returns the OS page size, memoized after the first call.
// Grounded on original_source/src/page_size.rs's AtomicUsize cache,
// ported to the unix.Getpagesize() call the teacher's poller_linux.go
// uses the same golang.org/x/sys/unix package for (a different
// syscall, same package convention).
func pageSize() uintptr {
	if p := pageSizeCache.Load(); p != 0 {
		return p
	}
	p := uintptr(unix.Getpagesize())
	if p < 4096 {
		panic("stackful: page size must be no smaller than 4KiB")
	}
	pageSizeCache.Store(p)
	return p
}

// allocateStack reserves a guarded stack of the given size, preferring
// the process-wide single-slot cache over a fresh mapping when size
// matches the package default (only default-sized stacks are cached).
// The second return value reports whether the cache was used.
func allocateStack(size uintptr) (stack, bool) {
	if size == stackSize {
		if addr := stackCache.Swap(0); addr != 0 {
			return stack{addr: addr, size: stackSize}, true
		}
	}
	return mapStack(size), false
}

// release returns the stack to the cache if it's default-sized and the
// cache is empty, otherwise unmaps it. Must be called at most once per
// allocateStack() call.
func (s stack) release() {
	if s.size == stackSize && stackCache.CompareAndSwap(0, s.addr) {
		return
	}
	unmapStack(s)
}

// bottom is the numerically low end of the mapping, where the guard
// page begins.
func (s stack) bottom() uintptr { return s.addr }

// mapStack reserves size bytes of anonymous, private, read/write
// memory and marks the lowest page inaccessible as a guard region.
//
// Mapping failure is fatal by contract (spec.md §4.1, §7): stack
// exhaustion at startup is not a recoverable condition, so this
// panics rather than returning an error.
func mapStack(size uintptr) stack {
	b, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|mapStackFlag())
	if err != nil {
		panic("stackful: failed to allocate fiber stack: " + err.Error())
	}
	addr := sliceAddr(b)

	if err := unix.Mprotect(b[:pageSize()], unix.PROT_NONE); err != nil {
		panic("stackful: failed to protect fiber stack guard page: " + err.Error())
	}

	return stack{addr: addr, size: size}
}

func unmapStack(s stack) {
	b := addrSlice(s.addr, int(s.size))
	if err := unix.Munmap(b); err != nil {
		panic("stackful: failed to release fiber stack: " + err.Error())
	}
}
