package stackful

import "sync"

// BlockingExecutor is the fallback driver Wait uses when it is called
// outside any run-sync-as-async context (spec.md §4.4: "delegate to the
// external blocking executor"). RunBlocking is erased over the awaited
// type via a bare poll closure rather than a generic method, the same
// untyped-payload discipline spec.md §9 prescribes for the context
// switch ABI: the executor never learns the concrete T, only that poll
// returns (value, ready).
type BlockingExecutor interface {
	RunBlocking(poll func(cx *PollContext) (any, bool)) any
}

// chanWaker is a one-shot Waker backed by a channel close, used by
// defaultBlockingExecutor to park between polls instead of spinning.
type chanWaker struct {
	once sync.Once
	ch   chan struct{}
}

func newChanWaker() *chanWaker { return &chanWaker{ch: make(chan struct{})} }

func (w *chanWaker) Wake() { w.once.Do(func() { close(w.ch) }) }

// defaultBlockingExecutor drives a Future to completion on the calling
// goroutine, adapted from the teacher's Promisify goroutine+recover
// pattern (promisify.go in the original tree): there the loop goroutine
// handed resolution back across a channel-backed Promise; here there is
// no event loop thread to hand back to, so the calling goroutine itself
// parks on a channel-backed Waker between polls.
type defaultBlockingExecutor struct{}

func (defaultBlockingExecutor) RunBlocking(poll func(cx *PollContext) (any, bool)) any {
	for {
		w := newChanWaker()
		cx := NewPollContext(w)
		if v, ok := poll(cx); ok {
			return v
		}
		<-w.ch
	}
}
