package stackful

import "sync"

// coroCtx is the per-invocation record linking a run-sync-as-async body
// to its current outer poll context, forming a goroutine-local LIFO
// across nesting levels (spec.md §4.4, §9's "Thread-local coroutine
// chain"). Its Yield type is always unit and its Resume type is always
// *coroCtx regardless of the awaited T, so — unlike Generator itself —
// it does not need to be generic.
//
// Grounded on original_source/src/future.rs's Context struct (parent,
// yielder, panicking, ctx), with Rust's Cell<Option<&'static ...>>
// fields replaced by plain pointers under Go's GC.
type coroCtx struct {
	parent    *coroCtx
	yielder   *YieldHandle[struct{}, *coroCtx]
	ctx       *PollContext
	panicking bool
}

// coroChains maps a goroutine id to the coroutine context currently
// installed on it. Go has no thread_local!; this is the goroutine-local
// analog, keyed the way the teacher's loop.go pins its owning goroutine
// (getGoroutineID, goroutineid.go). Safe because fibers here are
// strictly thread-affine (spec.md §5): at most one goroutine ever reads
// or writes a given key.
var coroChains sync.Map // uint64 -> *coroCtx

func currentCoroCtx() *coroCtx {
	v, ok := coroChains.Load(getGoroutineID())
	if !ok {
		return nil
	}
	return v.(*coroCtx)
}

// installCoroCtx pushes c onto the calling goroutine's chain, recording
// the previous head as c.parent.
func installCoroCtx(c *coroCtx) {
	c.parent = currentCoroCtx()
	coroChains.Store(getGoroutineID(), c)
}

// popCurrentCoroCtx removes the calling goroutine's current head and
// returns it, restoring its parent (or clearing the chain entirely if
// there was none).
func popCurrentCoroCtx() *coroCtx {
	gid := getGoroutineID()
	v, ok := coroChains.Load(gid)
	if !ok {
		return nil
	}
	cur := v.(*coroCtx)
	if cur.parent != nil {
		coroChains.Store(gid, cur.parent)
	} else {
		coroChains.Delete(gid)
	}
	return cur
}

// Cancelable is implemented by awaitables that own resources needing
// explicit release when dropped mid-flight, such as the Future returned
// by RunSyncAsAsync. Go has no destructors, so cancellation that the
// original source triggers by simply dropping the outer awaitable
// (spec.md §4.4's "Cancellation") is instead an explicit Close call.
type Cancelable interface {
	Close() error
}

// syncAsyncFuture is the Future returned by RunSyncAsAsync. Each Poll
// resumes the underlying Generator with a fresh coroCtx carrying this
// drive's PollContext, mirroring
// original_source/src/future.rs's StackfulFuture::poll.
type syncAsyncFuture[T any] struct {
	gen    *Generator[struct{}, T, *coroCtx]
	logger Logger
}

// RunSyncAsAsync wraps f so it becomes a driveable Future: each Poll
// runs f on a dedicated fiber stack until it either completes or
// suspends inside a Wait call (spec.md §4.4). f may call Wait at
// arbitrary depth, including recursively through further
// RunSyncAsAsync/Wait pairs.
func RunSyncAsAsync[T any](f func() T, opts ...BridgeOption) Future[T] {
	cfg := resolveBridgeOptions(opts)
	gen := NewGenerator(func(y *YieldHandle[struct{}, *coroCtx], c *coroCtx) T {
		c.yielder = y
		installCoroCtx(c)
		// Pop on exit unless a pending Wait already popped us while
		// unwinding the drop-panic (c.panicking); see waitYeet.
		defer func() {
			if cur := currentCoroCtx(); cur != nil && !cur.panicking {
				popCurrentCoroCtx()
			}
		}()
		return f()
	}, cfg.genOpts...)
	if cfg.logger != nil {
		cfg.logger.Log(LogEntry{Level: LevelDebug, Category: "bridge", Message: "constructed run-sync-as-async future"})
	}
	return &syncAsyncFuture[T]{gen: gen, logger: cfg.logger}
}

// Poll implements Future.
func (sf *syncAsyncFuture[T]) Poll(cx *PollContext) (T, bool) {
	c := &coroCtx{ctx: cx}
	state := sf.gen.Resume(c)
	if v, ok := state.Complete(); ok {
		if sf.logger != nil {
			sf.logger.Log(LogEntry{Level: LevelDebug, Category: "bridge", Message: "run-sync-as-async future completed"})
		}
		return v, true
	}
	var zero T
	return zero, false
}

// Close drops the future. If it is currently suspended inside a Wait
// call, this drives the Generator's abort protocol (spec.md §4.3/§4.4's
// "Cancellation"), running the body's deferred releases before the
// stack is released.
func (sf *syncAsyncFuture[T]) Close() error {
	return sf.gen.Close()
}

// Wait blocks the caller until fut is ready, without blocking the
// underlying OS thread when called from inside a RunSyncAsAsync body:
// it suspends the enclosing fiber instead and lets the outer driver's
// next Poll resume it. Called outside any such body, it falls back to
// opts' (or the default) BlockingExecutor.
func Wait[T any](fut Future[T], opts ...BridgeOption) T {
	cur := currentCoroCtx()
	if cur == nil {
		cfg := resolveBridgeOptions(opts)
		v := cfg.executor.RunBlocking(func(cx *PollContext) (any, bool) {
			return fut.Poll(cx)
		})
		return v.(T)
	}
	for {
		if v, ok := fut.Poll(cur.ctx); ok {
			return v
		}
		popCurrentCoroCtx()
		yielder := cur.yielder
		next := waitYeet(yielder)
		next.yielder = yielder
		installCoroCtx(next)
		cur = next
	}
}

// waitYeet performs the actual suspend-and-resume, arming a guard that
// marks the (now current, i.e. parent) coroCtx as panicking if the
// yeet unwinds via the drop-panic rather than returning normally —
// ported from original_source/src/future.rs's PanicGuard.
func waitYeet(yielder *YieldHandle[struct{}, *coroCtx]) (next *coroCtx) {
	defer func() {
		if rec := recover(); rec != nil {
			if c := currentCoroCtx(); c != nil {
				c.panicking = true
			}
			panic(rec)
		}
	}()
	return yielder.Yeet(struct{}{})
}
