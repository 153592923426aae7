//go:build windows

package stackful

// Windows uses the OS fiber API (CreateFiber/SwitchToFiber) rather
// than this module's hand-written asm context switch, and that
// backend isn't implemented here (see stack_windows.go). These stubs
// exist only so the package builds on windows/amd64 and
// windows/arm64 without a duplicate-symbol clash against
// fiber_asm.go's bodyless declarations, which are restricted to
// !windows.

func fiberEnterAsm(newTop stackPointer, payload uintptr) switchResult {
	panic("stackful: windows fiber backend is not implemented by this module (out of scope per spec.md §1)")
}

func fiberSwitchEnterAsm(target stackPointer, payload uintptr) switchResult {
	panic("stackful: windows fiber backend is not implemented by this module (out of scope per spec.md §1)")
}

func fiberSwitchLeaveAsm(target stackPointer, payload uintptr) switchResult {
	panic("stackful: windows fiber backend is not implemented by this module (out of scope per spec.md §1)")
}
