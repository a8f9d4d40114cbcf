package hookset

import (
	"sync"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/resolver"
	"github.com/scaife-viewer/ctsresolver/internal/logging"
)

// Binding resolves a configured hookset path exactly once and memoizes the
// result for the process lifetime. Construct a fresh Binding per test for
// isolation; swapping implementations requires a configuration change and
// a new Binding, not a runtime mutation.
type Binding struct {
	path string
	deps Deps

	once    sync.Once
	hookset resolver.Hookset
	err     error
}

// NewBinding creates a binding for the given dotted path. Resolution is
// deferred to the first Active call.
func NewBinding(path string, deps Deps) *Binding {
	return &Binding{path: path, deps: deps}
}

// Active returns the memoized hookset, resolving it on first call. The
// once-guard makes initialization safe under concurrent first calls.
func (b *Binding) Active() (resolver.Hookset, error) {
	b.once.Do(func() {
		factory, ok := Lookup(b.path)
		if !ok {
			b.err = apperrors.NewHooksetLoad(b.path, "not registered")
			return
		}
		hs, err := factory(b.deps)
		if err != nil {
			b.err = apperrors.NewHooksetLoad(b.path, "factory failed: "+err.Error())
			return
		}
		if hs == nil {
			b.err = apperrors.NewHooksetLoad(b.path, "factory returned no implementation")
			return
		}
		b.hookset = hs
		logging.HooksetLoaded(b.path)
	})
	return b.hookset, b.err
}

// Path returns the configured dotted path.
func (b *Binding) Path() string {
	return b.path
}
