package stackful

import "sync/atomic"

// stackSize is the default size, in bytes, of every fiber stack this
// module allocates, matching original_source/src/fiber.rs's 0x200000
// constant. WithStackSize (options.go) can override it per Generator;
// only stacks of exactly this default size are eligible for the
// single-slot cache.
const stackSize = 0x200000 // 2 MiB

// stackCache holds at most one retired stack's bottom address, so that
// programs that churn through short-lived generators don't pay the
// mmap/mprotect cost on every allocation. Zero means empty.
//
// Race-lose on publish (release) falls back to unmapping; race-lose on
// consume (allocate) falls back to allocating fresh. No lock is used.
// Not used on Windows (see stack_windows.go).
var stackCache atomic.Uintptr

// pageSizeCache memoizes the OS page size after the first lookup.
var pageSizeCache atomic.Uintptr

// stack is a single fiber's execution stack: a contiguous mapping with
// a guard region at the numerically low end and the usable region
// running up to top(). It is owned by exactly one Generator at a time.
type stack struct {
	addr uintptr
	size uintptr
}

// top is the initial stack pointer handed to fiberEnterAsm: the
// numerically high end of the mapping, where a downward-growing stack
// starts.
func (s stack) top() uintptr { return s.addr + s.size }
