//go:build (amd64 || arm64) && !windows

package stackful

// The three ABI entry points. Implemented in per-architecture
// assembly (fiber_amd64.s, fiber_arm64.s); see those files and
// DESIGN.md for the calling convention.
//
// fiberEnterAsm always transfers control to the single, fixed,
// package-scoped fiberTrampolineAsm symbol (fiber.go) rather than
// taking a function pointer argument: every Generator[Y,R,Resume]
// instantiation shares one non-generic trampoline and recovers its
// type information from the boxed payload, so the ABI itself stays
// monomorphic the way spec.md §6 describes it.
//
// All three are NOSPLIT, mirroring the discipline the Go runtime
// itself uses for systemstack/gogo/mcall in asm_$GOARCH.s: a raw
// stack pivot must not trigger Go's stack-growth check mid-switch,
// because for one leg of the switch the live SP does not match what
// the running goroutine's g.stack bounds say it should be.
//
// Restricted to the platforms fiber_amd64.s/fiber_arm64.s actually
// ship for: fiber_stub.go and fiber_windows_stub.go declare the same
// three symbols, with bodies, everywhere else.
//
//go:noescape
func fiberEnterAsm(newTop stackPointer, payload uintptr) switchResult

//go:noescape
func fiberSwitchEnterAsm(target stackPointer, payload uintptr) switchResult

//go:noescape
func fiberSwitchLeaveAsm(target stackPointer, payload uintptr) switchResult
