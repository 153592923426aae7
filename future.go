package stackful

import "sync"

// Waker is the callback an awaitable arms against whatever will make it
// ready later. Waking more than once, or after the awaitable has
// already reported ready, must be harmless (spec.md §6's "External
// polling/waker protocol").
type Waker interface {
	Wake()
}

// PollContext is the value a single poll is threaded through. It is
// only valid for the duration of that one poll and carries the Waker
// an awaitable re-arms when it reports not ready.
type PollContext struct {
	waker Waker
}

// NewPollContext builds a PollContext backed by w.
func NewPollContext(w Waker) *PollContext { return &PollContext{waker: w} }

// Waker returns the context's waker, possibly nil.
func (cx *PollContext) Waker() Waker { return cx.waker }

// Future is a driveable awaitable: Poll either returns the completed
// value, or arms cx's Waker and reports not ready. It is the Go analog
// of original_source/src/future.rs's std::future::Future bound.
type Future[T any] interface {
	Poll(cx *PollContext) (T, bool)
}

type funcFuture[T any] func(cx *PollContext) (T, bool)

func (f funcFuture[T]) Poll(cx *PollContext) (T, bool) { return f(cx) }

// Ready returns a Future that is already complete with v and never
// touches cx's Waker.
func Ready[T any](v T) Future[T] {
	return funcFuture[T](func(*PollContext) (T, bool) { return v, true })
}

// Deferred is an externally-resolvable Future, adapted from the
// teacher's promise.go subscriber/mutex pattern (promise.subscribers,
// promise.Resolve's fanOut) but collapsed to the single Waker the poll
// protocol exposes instead of a list of subscriber channels: a
// Deferred has at most one live poller at a time, same as every other
// awaitable in this bridge.
type Deferred[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
	waker Waker
}

// NewDeferred returns an unresolved Deferred.
func NewDeferred[T any]() *Deferred[T] { return &Deferred[T]{} }

// Resolve settles d with v. Subsequent calls are no-ops, matching the
// teacher's promise.Resolve's "if p.state != Pending { return }" guard.
func (d *Deferred[T]) Resolve(v T) {
	d.mu.Lock()
	if d.ready {
		d.mu.Unlock()
		return
	}
	d.ready = true
	d.value = v
	w := d.waker
	d.waker = nil
	d.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// Poll implements Future.
func (d *Deferred[T]) Poll(cx *PollContext) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ready {
		return d.value, true
	}
	d.waker = cx.Waker()
	var zero T
	return zero, false
}
