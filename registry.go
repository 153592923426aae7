package stackful

import (
	"sync"
	"sync/atomic"
	"weak"
)

// genHandle is the tiny, non-generic object every Generator allocates
// and retains for its own lifetime. The package-level registry tracks
// it (not the Generator itself) via weak.Pointer, because
// weak.Pointer[T] is itself generic and Generator[Y,R,Resume] has a
// different concrete type per instantiation — a single map can't hold
// weak pointers to arbitrarily-typed generators directly. Since
// genHandle is reachable only through its owning Generator, it becomes
// collectible at exactly the moment the Generator does.
type genHandle struct {
	id uint64
}

var generatorRegistry = struct {
	mu   sync.Mutex
	data map[uint64]weak.Pointer[genHandle]
}{data: make(map[uint64]weak.Pointer[genHandle])}

var nextGeneratorID atomic.Uint64

// registerGenerator allocates a fresh id and tracks it via a weak
// pointer, adapted from the teacher's registry.go (weak.Pointer[promise]
// registry), trimmed of the ring-buffer scavenger per DESIGN.md: this
// module's generators number in the tens during tests, not thousands,
// so a direct sync.Map-style walk in DebugLiveGenerators is sufficient.
func registerGenerator() (uint64, *genHandle) {
	id := nextGeneratorID.Add(1)
	h := &genHandle{id: id}
	wp := weak.Make(h)

	generatorRegistry.mu.Lock()
	generatorRegistry.data[id] = wp
	generatorRegistry.mu.Unlock()

	return id, h
}

// unregisterGenerator removes id from the registry. Safe to call more
// than once for the same id.
func unregisterGenerator(id uint64) {
	generatorRegistry.mu.Lock()
	delete(generatorRegistry.data, id)
	generatorRegistry.mu.Unlock()
}

// DebugLiveGenerators returns the number of constructed Generators that
// have neither been Close()d nor garbage collected. Intended for
// leak-sensitive tests (spec.md §8 scenarios 4-5's "thread-local context
// must be null after" assertion, generalized to "no generator outlives
// its owner"), not production monitoring.
func DebugLiveGenerators() int {
	generatorRegistry.mu.Lock()
	defer generatorRegistry.mu.Unlock()

	live := 0
	for id, wp := range generatorRegistry.data {
		if wp.Value() != nil {
			live++
		} else {
			delete(generatorRegistry.data, id)
		}
	}
	return live
}
