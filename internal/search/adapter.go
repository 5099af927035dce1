package search

import (
	"context"
	"sort"
	"sync"
)

// CheckMethod declares how an adapter establishes presence.
type CheckMethod string

const (
	// CheckAPI means the adapter performs a real request and maps a
	// structured response into a Result.
	CheckAPI CheckMethod = "api"
	// CheckRedirect means the adapter cannot confirm presence; it always
	// reports found together with a deep link for manual inspection.
	CheckRedirect CheckMethod = "redirect"
)

// Adapter abstracts a search engine provider for one platform. Implementations
// own their vendor-specific request construction and response normalization;
// the engine only ever sees the common Result shape. Adapters must be safe to
// invoke concurrently from independent runs and should translate transport or
// parsing failures into a StatusError Result (or an error) rather than
// panicking.
type Adapter interface {
	// ID returns the registry key, e.g. "github".
	ID() string
	// Name returns the human-readable platform name.
	Name() string
	// CheckMethod reports whether results are verified or redirect-only.
	CheckMethod() CheckMethod
	// Search looks the query up on the platform.
	Search(ctx context.Context, q Query) (Result, error)
}

// Registry maps platform ids to adapters. Adding a platform means
// registering a new Adapter, not branching inside the engine. Registration
// normally happens once at startup; lookups are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its ID, replacing any previous entry.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.ID()] = a
}

// Lookup resolves a platform id. Unknown ids are a reportable condition for
// the caller, never a panic.
func (r *Registry) Lookup(id string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[id]
	return a, ok
}

// IDs returns the registered platform ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}
