//go:build linux

package stackful

import "golang.org/x/sys/unix"

// mapStackFlag returns the platform's stack-direction hint flag for
// mmap, or zero where the host doesn't support one (spec.md §4.1/§6).
func mapStackFlag() int { return unix.MAP_STACK }
