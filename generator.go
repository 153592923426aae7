package stackful

import (
	"runtime"
	"time"
	"unsafe"
)

// dropSignal is the private, zero-sized sentinel panic value used to
// unwind a suspended fiber's stack when its owning Generator is
// dropped. Its type is never exported, so only this package can
// recognize — and swallow — it (spec.md §4.3/§9).
type dropSignal struct{}

// GeneratorState is the tagged result of a single Resume call: either
// the body suspended with a Yield value, or it ran to completion with
// a Return value.
type GeneratorState[Y, R any] struct {
	yielded  Y
	complete R
	done     bool
}

// Yielded reports whether this state is a suspension (as opposed to
// completion), and if so, the yielded value.
func (s GeneratorState[Y, R]) Yielded() (Y, bool) {
	if s.done {
		var zero Y
		return zero, false
	}
	return s.yielded, true
}

// Complete reports whether this state is a completion, and if so, the
// return value.
func (s GeneratorState[Y, R]) Complete() (R, bool) {
	if !s.done {
		var zero R
		return zero, false
	}
	return s.complete, true
}

// YieldHandle is handed to the generator body on entry and is the
// only way it can suspend. It must not escape the body invocation
// (spec.md §3's "Lifetime is exactly the body invocation").
type YieldHandle[Y, Resume any] struct {
	outer stackPointer
}

// Yeet suspends the current fiber, handing y to the resumer, and
// blocks until the generator is resumed again, returning the value it
// was resumed with. If the owning Generator was dropped while this
// call was suspended, Yeet never returns normally: it raises
// dropSignal instead, which must be allowed to propagate so deferred
// releases in the body run (never recover it in user code).
func (h *YieldHandle[Y, Resume]) Yeet(y Y) Resume {
	result := fiberSwitchLeaveAsm(h.outer, uintptr(unsafe.Pointer(&y)))
	h.outer = result.sp
	if result.payload == 0 {
		panic(dropSignal{})
	}
	return *(*Resume)(unsafe.Pointer(result.payload))
}

// genState is the Generator lifecycle, adapted from the teacher's
// LoopState atomic state machine (state.go):
//
//	genFresh -> [Resume] -> genSuspended | genDone
//	genSuspended -> [Resume] -> genSuspended | genDone
//	genDone is terminal.
type genState uint32

const (
	genFresh genState = iota
	genSuspended
	genDone
)

// enterPayload is constructed on the caller's stack ahead of the
// first Resume and read back out by fiberTrampolineAsm once it is
// running on the fresh fiber stack. fiberEnterAsm doesn't return
// until the trampoline has finished reading it, so its lifetime is
// safe despite living in a caller-local variable.
type enterPayload struct {
	run    func(callerSP stackPointer)
	resume unsafe.Pointer
}

// g.finished is written by run (above) into the Generator itself
// immediately before the final switch-out, and is how this module
// signals "the peer completed" to the resumer — see fiber.go's
// switchResult doc on this deviation from literally threading
// Option<StackPointer> through the raw ABI.

// Generator is a typed, stackful, resumable computation. See
// spec.md §3/§4.3 for the full state-machine contract.
type Generator[Y, R, Resume any] struct {
	st        stack
	state     genState
	gsp       stackPointer
	finished  bool
	body      func(*YieldHandle[Y, Resume], Resume) R
	outcome   generatorOutcome[R]
	id        uint64
	handle    *genHandle
	stackSize uintptr
	metrics   *Metrics
}

type generatorOutcome[R any] struct {
	value R
	panic any
	isErr bool
}

// NewGenerator constructs a Generator that has not yet started. The
// stack is allocated lazily, on the first Resume, matching
// original_source/src/generator.rs (Stack::allocate happens in
// StackfulGenerator::new, but no user code runs until the first
// resume).
func NewGenerator[Y, R, Resume any](body func(*YieldHandle[Y, Resume], Resume) R, opts ...GeneratorOption) *Generator[Y, R, Resume] {
	cfg := resolveGeneratorOptions(opts)
	g := &Generator[Y, R, Resume]{body: body, stackSize: cfg.stackSize, metrics: cfg.metrics}
	g.id, g.handle = registerGenerator()
	logStack(LevelDebug, "generator", "constructed generator")
	return g
}

// Resume drives the generator forward, supplying arg as the value the
// suspended Yeet call (or, on the first call, the body itself)
// receives. Resuming a Done generator panics with
// ErrResumeAfterCompletion: spec.md §9 treats this as a precondition
// violation to be flagged loudly, not silently tolerated.
func (g *Generator[Y, R, Resume]) Resume(arg Resume) GeneratorState[Y, R] {
	switch g.state {
	case genDone:
		panic(ErrResumeAfterCompletion)
	case genFresh:
		return g.firstResume(arg)
	default:
		return g.subsequentResume(arg)
	}
}

func (g *Generator[Y, R, Resume]) firstResume(arg Resume) GeneratorState[Y, R] {
	st, hit := allocateStack(g.stackSize)
	g.st = st
	if g.metrics != nil {
		g.metrics.recordStackAlloc()
		if hit {
			g.metrics.recordStackHit()
		} else {
			g.metrics.recordStackMiss()
		}
	}

	resumeArg := arg
	var yielder YieldHandle[Y, Resume]

	entry := enterPayload{resume: unsafe.Pointer(&resumeArg)}
	entry.run = func(callerSP stackPointer) {
		yielder.outer = callerSP
		r := *(*Resume)(entry.resume)
		func() {
			// runBody already converts any ordinary panic into
			// g.outcome; the only thing that can still escape here is
			// a re-raised dropSignal from Close's abortive-drop
			// protocol, which just ends the fiber with no outcome.
			defer func() {
				if rec := recover(); rec != nil {
					if _, ok := rec.(dropSignal); !ok {
						panic(rec)
					}
				}
			}()
			g.outcome = g.runBody(&yielder, r)
		}()
		g.finished = true
		// yielder.outer tracks whoever most recently resumed us,
		// updated on every Yeet; the original callerSP argument is
		// stale once at least one yield has happened.
		fiberSwitchLeaveAsm(yielder.outer, 0)
	}

	if runtime.GOOS == "windows" {
		logStack(LevelWarn, "generator", "guard-page-dependent features are unavailable on windows")
	}
	start := g.switchStart()
	result := fiberEnterAsm(stackPointer(g.st.top()), uintptr(unsafe.Pointer(&entry)))
	g.recordSwitch(start)
	return g.afterSwitch(result)
}

func (g *Generator[Y, R, Resume]) subsequentResume(arg Resume) GeneratorState[Y, R] {
	resumeArg := arg
	start := g.switchStart()
	result := fiberSwitchEnterAsm(g.gsp, uintptr(unsafe.Pointer(&resumeArg)))
	g.recordSwitch(start)
	return g.afterSwitch(result)
}

// switchStart returns the time a context switch began, or the zero
// value when no Metrics is attached (avoiding a time.Now() syscall on
// the hot path when nobody is watching).
func (g *Generator[Y, R, Resume]) switchStart() time.Time {
	if g.metrics == nil {
		return time.Time{}
	}
	return time.Now()
}

// recordSwitch records the latency of a fiberEnterAsm/fiberSwitchEnterAsm
// round trip if a Metrics is attached.
func (g *Generator[Y, R, Resume]) recordSwitch(start time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.Switch.Record(time.Since(start))
}

// afterSwitch decodes the outcome of a switch into the fiber.
// Completion is signaled out-of-band via g.finished (set by run,
// generator.go's firstResume, immediately before its final
// switch-out), not by a null stack pointer. Otherwise result.sp is
// the fiber's freshly-suspended pointer, computed by the asm during
// the very switch that just returned control here.
func (g *Generator[Y, R, Resume]) afterSwitch(result switchResult) GeneratorState[Y, R] {
	if g.finished {
		g.state = genDone
		out := g.outcome
		if out.isErr {
			panic(&PanicError{Value: out.panic})
		}
		return GeneratorState[Y, R]{complete: out.value, done: true}
	}
	g.state = genSuspended
	g.gsp = result.sp
	y := *(*Y)(unsafe.Pointer(result.payload))
	return GeneratorState[Y, R]{yielded: y}
}

// runBody is invoked on the fiber stack. It catches any panic other
// than dropSignal and packages it for the resumer, matching
// original_source/src/generator.rs's `enter` function's catch_unwind.
func (g *Generator[Y, R, Resume]) runBody(y *YieldHandle[Y, Resume], r Resume) (out generatorOutcome[R]) {
	defer func() {
		if rec := recover(); rec != nil {
			if _, ok := rec.(dropSignal); ok {
				panic(rec) // re-raise for fiberTrampolineAsm's catch to see
			}
			out = generatorOutcome[R]{panic: rec, isErr: true}
		}
	}()
	out = generatorOutcome[R]{value: g.body(y, r)}
	return out
}

// Close releases the generator's resources. If the generator is
// suspended, it first drives the drop-panic protocol so that deferred
// releases inside the body run before the stack is released
// (spec.md §4.3's "Abortive drop").
func (g *Generator[Y, R, Resume]) Close() error {
	if g.state == genDone && g.st.size == 0 {
		return ErrGeneratorClosed
	}
	if g.state == genSuspended {
		g.finished = false
		fiberSwitchEnterAsm(g.gsp, 0)
		if !g.finished {
			panic("stackful: generator did not unwind on drop")
		}
	}
	g.state = genDone
	if g.st.size != 0 {
		g.st.release()
		g.st = stack{}
		if g.metrics != nil {
			g.metrics.recordStackFree()
		}
	}
	unregisterGenerator(g.id)
	return nil
}

// Metrics returns a snapshot of this generator's fiber-switch latency
// distribution, or the zero LatencySnapshot if it was constructed
// without WithGeneratorMetrics.
func (g *Generator[Y, R, Resume]) Metrics() LatencySnapshot {
	if g.metrics == nil {
		return LatencySnapshot{}
	}
	return g.metrics.Switch.Snapshot()
}
