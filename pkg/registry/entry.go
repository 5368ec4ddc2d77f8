package registry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/surface-dev/surface/pkg/props"
)

// Entry is a registered interactable component.
//
// ID, Name, and Description are immutable after registration. Component
// is an opaque handle to a renderable unit; the registry never inspects
// it. PropsSchema is an opaque validation capability recorded at
// registration; the update path does not consult it (see
// Registry.ValidateUpdate for the opt-in strict path).
type Entry struct {
	ID           string
	Name         string
	Description  string
	Component    any
	Props        props.Map
	PropsSchema  any
	RegisteredAt time.Time
}

// Schema is the optional validation capability a PropsSchema may
// implement. It is never invoked by Update; callers that want strict
// behavior use Registry.ValidateUpdate before committing.
type Schema interface {
	// Validate checks a full props mapping against the schema.
	Validate(p props.Map) error
}

// entry is the stored form. Props is owned by the registry and mutated
// only under the registry lock.
type entry struct {
	id           string
	name         string
	description  string
	component    any
	props        props.Map
	schema       any
	registeredAt time.Time
}

// snapshot returns a caller-owned copy of the entry. Props is deep
// copied so later updates cannot leak into the snapshot.
func (e *entry) snapshot() Entry {
	return Entry{
		ID:           e.id,
		Name:         e.name,
		Description:  e.description,
		Component:    e.component,
		Props:        e.props.Clone(),
		PropsSchema:  e.schema,
		RegisteredAt: e.registeredAt,
	}
}

// idGenerator allocates ids unique for the lifetime of one registry
// instance. Ids are never reused, even after removal.
type idGenerator struct {
	counter atomic.Uint64
}

// next returns a fresh id of the form "c<n>".
func (g *idGenerator) next() string {
	return fmt.Sprintf("c%d", g.counter.Add(1))
}
