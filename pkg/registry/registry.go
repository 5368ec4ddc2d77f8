package registry

import (
	"log/slog"
	"sync"
	"time"

	"github.com/surface-dev/surface/pkg/props"
)

// Registry is the sole authority over the id to entry mapping for one
// provider instance. All operations are linearizable with respect to
// one another: mutation and lookup both go through the registry mutex.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // registration order for List

	ids idGenerator

	logger  *slog.Logger
	metrics metricsCollector
	subs    subscribers
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "registry")
	return r
}

// Register stores a new entry and returns its freshly allocated id.
// The initial props are deep copied, never aliased, so the caller's map
// stays independent of the stored one. Register never fails for
// well-formed input.
func (r *Registry) Register(name, description string, component any, initialProps props.Map, schema any) string {
	e := &entry{
		name:         name,
		description:  description,
		component:    component,
		props:        initialProps.Clone(),
		schema:       schema,
		registeredAt: time.Now(),
	}
	if e.props == nil {
		e.props = make(props.Map)
	}

	r.mu.Lock()
	e.id = r.ids.next()
	r.entries[e.id] = e
	r.order = append(r.order, e.id)
	r.mu.Unlock()

	r.metrics.registered.Add(1)
	r.logger.Debug("component registered", "id", e.id, "name", name, "props", len(e.props))

	r.subs.notify(Change{Kind: ChangeRegistered, ID: e.id})
	return e.id
}

// Get returns a snapshot of the entry for id, or false if absent.
// The snapshot's props are a deep copy; readers never observe a
// half-applied update.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.RUnlock()
		return Entry{}, false
	}
	snap := e.snapshot()
	r.mu.RUnlock()
	return snap, true
}

// Remove deletes the entry for id and reports whether it existed.
// The id is retired: it will never be allocated again by this registry.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	_, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.entries, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.metrics.removed.Add(1)
	r.logger.Debug("component removed", "id", id)

	r.subs.notify(Change{Kind: ChangeRemoved, ID: id})
	return true
}

// List returns snapshots of all entries in registration order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.entries[id]; ok {
			out = append(out, e.snapshot())
		}
	}
	r.mu.RUnlock()
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	n := len(r.entries)
	r.mu.RUnlock()
	return n
}
