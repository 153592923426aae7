//go:build !windows

package stackful

import "unsafe"

// sliceAddr returns the address of a byte slice's backing array.
func sliceAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// addrSlice reinterprets a raw address and length as a byte slice,
// for handing off to unix.Mprotect/Munmap which operate on []byte.
func addrSlice(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}
