package stackful

import "unsafe"

// stackPointer is the opaque, non-forgeable token referencing a
// suspended fiber's saved registers plus return address.
type stackPointer uintptr

// switchResult is the two-word aggregate every context-switch entry
// point returns: the peer's new suspended stack pointer plus the
// untyped payload word it handed back. This mirrors
// original_source/src/fiber.rs's SwitchResult, except completion is
// signaled out-of-band (see generator.go's Generator.finished) rather than
// by a null stack pointer: this package's trampoline always leaves a
// technically-valid, merely unused, suspended pointer behind even on
// its final switch-out.
type switchResult struct {
	sp      stackPointer
	payload uintptr
}

// fiberTrampolineAsm is the single, fixed entry point every fresh
// fiber starts at (called from fiber_amd64.s/fiber_arm64.s's
// fiberEnterAsm once the stack has been pivoted). It recovers the
// boxed enterPayload and hands off to its run closure, which drives
// the generator body and performs every switch-out itself (including
// the final one, targeting whichever caller most recently resumed it
// rather than the original one); see generator.go's firstResume.
//
//go:nosplit
func fiberTrampolineAsm(callerSP stackPointer, payloadAddr uintptr) {
	entry := (*enterPayload)(unsafe.Pointer(payloadAddr))
	entry.run(callerSP)
}
