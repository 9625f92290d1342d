package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InvokeFunc is the callable body of a tool implementation.
type InvokeFunc func(ctx context.Context, args []string) (string, error)

// Factory builds an implementation from the free-form config block of a
// manifest. A factory runs once per manifest load; the returned InvokeFunc
// may be called concurrently afterwards.
type Factory func(cfg map[string]any) (InvokeFunc, error)

var (
	implMu    sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterImpl adds a named implementation factory to the global registry.
// Builtin implementations register themselves in init; applications may add
// their own before constructing a Registry. Registering the same key twice
// panics, matching the behavior expected of init-time wiring mistakes.
func RegisterImpl(key string, f Factory) {
	implMu.Lock()
	defer implMu.Unlock()
	if _, exists := factories[key]; exists {
		panic(fmt.Sprintf("tool: implementation %q registered twice", key))
	}
	factories[key] = f
}

func lookupImpl(key string) (Factory, bool) {
	implMu.RLock()
	defer implMu.RUnlock()
	f, ok := factories[key]
	return f, ok
}

// ImplKeys returns the sorted keys of all registered implementations.
func ImplKeys() []string {
	implMu.RLock()
	defer implMu.RUnlock()
	keys := make([]string, 0, len(factories))
	for k := range factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
