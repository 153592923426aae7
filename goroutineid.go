package stackful

import "runtime"

// getGoroutineID extracts the running goroutine's id by parsing the
// "goroutine N [...]" header runtime.Stack always writes first, the
// same technique the teacher's loop.go uses (getGoroutineID there) to
// recognize its own loop goroutine. Go has no public API for this; it
// is the standard workaround across the ecosystem for anything that
// needs goroutine-local identity.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
