// Package hookset provides the pluggable strategy layer behind URN
// resolution. Implementations are registered under dotted-path identifiers
// and selected by configuration; the resolver only ever sees the
// resolver.Hookset interface.
package hookset

import (
	"sort"
	"sync"

	"github.com/scaife-viewer/ctsresolver/core/inventory"
	"github.com/scaife-viewer/ctsresolver/core/resolver"
)

// Deps carries the collaborators a hookset implementation may need.
type Deps struct {
	// Corpus is the text inventory resolved against.
	Corpus *inventory.Corpus

	// CloudIndexer selects cloud-specific index-metadata fields.
	CloudIndexer bool
}

// Factory constructs a hookset implementation from its dependencies.
type Factory func(deps Deps) (resolver.Hookset, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register registers a hookset factory under a dotted-path identifier.
// Registering an empty path or nil factory is a no-op.
func Register(path string, factory Factory) {
	if path == "" || factory == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[path] = factory
}

// Lookup returns the factory registered under path.
func Lookup(path string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[path]
	return f, ok
}

// List returns all registered dotted paths, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for path := range registry {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Clear removes all registered factories (for testing).
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Factory)
}
