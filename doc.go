// Package stackful implements a stackful coroutine core: a fiber and
// context-switch substrate, a typed [Generator] abstraction layered on
// top of it, and an async bridge ([RunSyncAsAsync] / [Wait]) that lets
// ordinary synchronous Go functions suspend at arbitrary call depth and
// resume under the control of an external cooperative driver.
//
// # Architecture
//
// Four layers, leaves first:
//
//   - The stack provider (stack.go, stack_unix.go, stack_windows.go)
//     allocates a guarded, fixed-size execution stack, backed by a
//     one-slot process-wide cache.
//   - The context-switch primitive (fiber.go, fiber_amd64.s,
//     fiber_arm64.s) exposes three raw ABI entry points that pivot
//     between stacks, exchanging an opaque stack pointer and a single
//     untyped payload word.
//   - [Generator] turns that primitive into a typed, resumable
//     computation, exchanging strongly-typed yield/resume/return values
//     and propagating panics across the fiber boundary.
//   - The async bridge ([RunSyncAsAsync], [Wait]) drives a Generator
//     from a [Future]'s Poll method, maintaining a goroutine-local
//     chain of coroutine contexts so nested sync-over-async calls
//     resolve to the right frame.
//
// # Platform support
//
// Hand-written context-switch assembly ships for amd64 and arm64. Other
// architectures panic at the first fiber operation rather than silently
// miscompiling. Windows uses the OS fiber API's absence of a real guard
// page as a documented limitation: [Generator] still constructs, but
// guard-page-dependent diagnostics are unavailable and the stack cache
// is bypassed.
//
// # Usage
//
//	g := stackful.NewGenerator(func(y *stackful.YieldHandle[int, int], start int) string {
//	    r := y.Yeet(start)
//	    return fmt.Sprintf("resumed with %d", r)
//	})
//	defer g.Close()
//
//	state := g.Resume(1)
//	v, _ := state.Yielded()   // 1
//	state = g.Resume(42)
//	s, _ := state.Complete()  // "resumed with 42"
//
// Sync-over-async bridging:
//
//	fut := stackful.RunSyncAsAsync(func() string {
//	    stackful.Wait(someAsyncFuture)
//	    return "done"
//	})
//	result, ready := fut.Poll(pollCtx)
//
// # Error handling
//
// Fatal resource exhaustion (stack mmap/mprotect failure) aborts the
// process; it is unrecoverable by contract. A panic raised inside a
// generator body is captured and re-raised at the resumer as a
// [*PanicError]. Resuming a completed generator panics with
// [ErrResumeAfterCompletion].
package stackful
