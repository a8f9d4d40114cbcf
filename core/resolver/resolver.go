// Package resolver orchestrates CTS URN resolution: parse, normalize,
// cache lookup, and hookset-driven resolution on a miss.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/scaife-viewer/ctsresolver/core/cache"
	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/urn"
	"github.com/scaife-viewer/ctsresolver/internal/logging"
)

// Entity is the result of resolving a URN. Callers must treat it as
// read-only; it is owned by the cache once stored.
type Entity struct {
	// URN is the canonical (normalized) URN string.
	URN string `json:"urn"`

	// Kind is the resolved node kind ("textgroup", "work", "version",
	// "exemplar", or "textpart").
	Kind string `json:"kind"`

	// Depth is the resolved hierarchy depth.
	Depth int `json:"depth"`

	// IsPassage reports whether the entity is passage-level.
	IsPassage bool `json:"is_passage"`

	// TextContent is the passage text for passage-level entities.
	TextContent string `json:"text_content,omitempty"`

	// Metadata holds catalog metadata for the resolved node.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Hookset supplies the overridable behaviors behind resolution. Deployments
// substitute implementations via the hookset registry without touching the
// resolver.
type Hookset interface {
	// ResolvePassage maps a normalized URN to a concrete entity. It returns
	// an error wrapping errors.ErrNotFound when no entity matches.
	ResolvePassage(ctx context.Context, u *urn.URN) (*Entity, error)

	// BuildIndexMetadata produces the search-index document for an entity.
	BuildIndexMetadata(e *Entity) (map[string]interface{}, error)
}

// HooksetSource yields the active hookset. Implementations must resolve the
// configured binding at most once and memoize it (see the hookset package).
type HooksetSource interface {
	Active() (Hookset, error)
}

// Resolver resolves raw URN strings to entities. It is stateless per call
// and safe for concurrent use provided the cache store and hookset are.
type Resolver struct {
	source HooksetSource
	store  cache.Store
	label  string
	policy urn.NormalizationPolicy
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStore sets the resolution cache store.
func WithStore(store cache.Store) Option {
	return func(r *Resolver) { r.store = store }
}

// WithLabel sets the cache partition label (default "cts-resolver").
func WithLabel(label string) Option {
	return func(r *Resolver) { r.label = label }
}

// WithPolicy sets the URN normalization policy.
func WithPolicy(policy urn.NormalizationPolicy) Option {
	return func(r *Resolver) { r.policy = policy }
}

// WithTTL sets the cache TTL for stored entities (0 = backend default).
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) { r.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver backed by the given hookset source.
func New(source HooksetSource, opts ...Option) *Resolver {
	r := &Resolver{
		source: source,
		label:  cache.DefaultResolverLabel,
		policy: urn.DefaultPolicy(),
		logger: logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = cache.NewMemoryStore(cache.DefaultConfig())
	}
	return r
}

// Resolve resolves a raw URN string to an entity.
//
// Errors: ErrEmptyURN or ErrMalformedURN from parsing (no cache access is
// attempted for unparsable input), ErrNotFound when the hookset reports no
// match (never cached), ErrHooksetLoad when the configured hookset is
// unusable. Cache failures never fail the call.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Entity, error) {
	started := time.Now()

	u, err := urn.Parse(raw)
	if err != nil {
		return nil, err
	}

	key := urn.Normalize(u, r.policy)
	keyStr := key.String()

	if cached, ok := r.store.Get(r.label, keyStr); ok {
		if entity, ok := cached.(*Entity); ok {
			logging.ResolveEvent(keyStr, "cache_hit", time.Since(started))
			return entity, nil
		}
		// Foreign value under our key: drop it and resolve fresh.
		r.store.Invalidate(r.label, keyStr)
	}

	hs, err := r.source.Active()
	if err != nil {
		return nil, err
	}

	entity, err := hs.ResolvePassage(ctx, key)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			// Not-found results are never cached; the underlying corpus
			// may gain the entity later.
			logging.ResolveEvent(keyStr, "not_found", time.Since(started))
		}
		return nil, err
	}

	// Best effort: a failed store only costs the caching benefit.
	r.store.Set(r.label, keyStr, entity, r.ttl)
	logging.ResolveEvent(keyStr, "resolved", time.Since(started))
	return entity, nil
}

// Invalidate drops the cache entry for a raw URN, if present.
func (r *Resolver) Invalidate(raw string) error {
	keyStr, err := urn.NormalizeString(raw, r.policy)
	if err != nil {
		return err
	}
	r.store.Invalidate(r.label, keyStr)
	return nil
}

// IndexMetadata builds the search-index document for an entity through the
// active hookset.
func (r *Resolver) IndexMetadata(e *Entity) (map[string]interface{}, error) {
	hs, err := r.source.Active()
	if err != nil {
		return nil, err
	}
	return hs.BuildIndexMetadata(e)
}

// CacheStats returns statistics for the resolver's cache partition.
func (r *Resolver) CacheStats() cache.Stats {
	return r.store.Stats(r.label)
}
