package cache

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultResolverLabel is the cache partition used for resolution results.
const DefaultResolverLabel = "cts-resolver"

// Store is a label-addressed key/value store. Labels partition entries by
// purpose; keys within a label are independent of keys under other labels.
//
// Get is purely a lookup and never triggers resolution; a miss is reported
// by the boolean, never by an error.
type Store interface {
	// Get retrieves a value. The boolean is false on a miss.
	Get(label, key string) (interface{}, bool)

	// Set stores a value with an optional TTL (0 = backend default).
	Set(label, key string, value interface{}, ttl time.Duration)

	// Invalidate removes a value.
	Invalidate(label, key string)

	// Stats returns statistics for a label's partition.
	Stats(label string) Stats
}

// FallibleStore is implemented by backends whose operations can fail
// (e.g., networked caches). Wrap one with NewResilient to obtain a Store
// that degrades failures to misses and no-ops.
type FallibleStore interface {
	Get(label, key string) (interface{}, bool, error)
	Set(label, key string, value interface{}, ttl time.Duration) error
	Invalidate(label, key string) error
	Stats(label string) Stats
}

// MemoryStore is an in-process Store backed by one LRU cache per label.
type MemoryStore struct {
	mu     sync.Mutex
	config Config
	labels map[string]*lruCache[string, interface{}]
}

// NewMemoryStore creates a MemoryStore. Each label gets its own LRU
// partition built from config.
func NewMemoryStore(config Config) *MemoryStore {
	return &MemoryStore{
		config: config,
		labels: make(map[string]*lruCache[string, interface{}]),
	}
}

// partition returns the cache for a label, creating it on first use.
func (s *MemoryStore) partition(label string) *lruCache[string, interface{}] {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.labels[label]
	if !ok {
		c = newLRUCache[string, interface{}](s.config)
		s.labels[label] = c
	}
	return c
}

// Get retrieves a value from the label's partition.
func (s *MemoryStore) Get(label, key string) (interface{}, bool) {
	return s.partition(label).Get(key)
}

// Set stores a value in the label's partition.
func (s *MemoryStore) Set(label, key string, value interface{}, ttl time.Duration) {
	c := s.partition(label)
	if ttl > 0 {
		c.PutTTL(key, value, ttl)
		return
	}
	c.Put(key, value)
}

// Invalidate removes a value from the label's partition.
func (s *MemoryStore) Invalidate(label, key string) {
	s.partition(label).Remove(key)
}

// Stats returns statistics for the label's partition.
func (s *MemoryStore) Stats(label string) Stats {
	return s.partition(label).Stats()
}

// Resilient wraps a FallibleStore so that backend failures never surface:
// a failed Get is a miss, a failed Set or Invalidate is a no-op. Failures
// are logged and counted, nothing more.
type Resilient struct {
	backend FallibleStore
	logger  *slog.Logger

	mu       sync.Mutex
	failures int64
}

// NewResilient wraps a fallible backend. A nil logger falls back to
// slog.Default.
func NewResilient(backend FallibleStore, logger *slog.Logger) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resilient{backend: backend, logger: logger}
}

// Get retrieves a value, reporting backend errors as misses.
func (r *Resilient) Get(label, key string) (interface{}, bool) {
	value, ok, err := r.backend.Get(label, key)
	if err != nil {
		r.recordFailure("get", label, key, err)
		return nil, false
	}
	return value, ok
}

// Set stores a value, swallowing backend errors.
func (r *Resilient) Set(label, key string, value interface{}, ttl time.Duration) {
	if err := r.backend.Set(label, key, value, ttl); err != nil {
		r.recordFailure("set", label, key, err)
	}
}

// Invalidate removes a value, swallowing backend errors.
func (r *Resilient) Invalidate(label, key string) {
	if err := r.backend.Invalidate(label, key); err != nil {
		r.recordFailure("invalidate", label, key, err)
	}
}

// Stats returns statistics for the label's partition.
func (r *Resilient) Stats(label string) Stats {
	return r.backend.Stats(label)
}

// Failures returns the number of backend failures swallowed so far.
func (r *Resilient) Failures() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

func (r *Resilient) recordFailure(op, label, key string, err error) {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()

	r.logger.Warn("cache backend failure",
		"operation", op,
		"label", label,
		"key", key,
		"error", err.Error())
}
