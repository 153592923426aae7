//go:build !linux && !windows

package stackful

// mapStackFlag is treated as zero on platforms lacking a stack-hint
// flag for mmap (e.g. darwin), per spec.md §4.1/§6.
func mapStackFlag() int { return 0 }
