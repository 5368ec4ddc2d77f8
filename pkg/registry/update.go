package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surface-dev/surface/pkg/props"
)

// UpdateStatus is the outcome of an Update call. Outcomes are values,
// not errors: a missing id or an empty partial mapping is an expected
// caller condition. The three shapes are:
//
//	"Updated successfully"
//	"Error: Component with ID <id> not found"
//	"Warning: No props provided for component with ID <id>"
type UpdateStatus string

// StatusUpdated is the success status.
const StatusUpdated UpdateStatus = "Updated successfully"

const (
	errorPrefix   = "Error: "
	warningPrefix = "Warning: "
)

// statusNotFound reports an id with no matching entry.
func statusNotFound(id string) UpdateStatus {
	return UpdateStatus(fmt.Sprintf("Error: Component with ID %s not found", id))
}

// statusNoProps reports an empty partial mapping.
func statusNoProps(id string) UpdateStatus {
	return UpdateStatus(fmt.Sprintf("Warning: No props provided for component with ID %s", id))
}

// OK reports whether the status is the success outcome.
func (s UpdateStatus) OK() bool {
	return s == StatusUpdated
}

// IsWarning reports whether the status is a warning outcome.
func (s UpdateStatus) IsWarning() bool {
	return strings.HasPrefix(string(s), warningPrefix)
}

// IsError reports whether the status is an error outcome.
func (s UpdateStatus) IsError() bool {
	return strings.HasPrefix(string(s), errorPrefix)
}

// String returns the literal status text.
func (s UpdateStatus) String() string {
	return string(s)
}

// Update applies a partial props mapping to the entry for id.
//
// Every key present in partial overwrites the stored value for that key
// as a whole-value replacement: a nested mapping fully replaces the
// previous nested mapping, with no recursive merge of its siblings.
// Keys absent from partial keep their prior values, and keys new to the
// entry are added; the props mapping is open-ended and a recorded
// schema does not gate which keys may appear. Writing a key to the
// value it already holds is the ordinary success path.
//
// All keys of one call are committed in a single pass under the write
// lock; no reader can observe some keys applied and others not. On a
// missing id or an empty partial the registry is left untouched and the
// matching non-success status is returned.
func (r *Registry) Update(id string, partial props.Map) UpdateStatus {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		r.metrics.updatesNotFound.Add(1)
		r.logger.Debug("update for unknown component", "id", id)
		return statusNotFound(id)
	}
	if len(partial) == 0 {
		r.mu.Unlock()
		r.metrics.updatesEmpty.Add(1)
		r.logger.Debug("update with no props", "id", id)
		return statusNoProps(id)
	}

	keys := make([]string, 0, len(partial))
	for k, v := range partial {
		e.props[k] = v.Clone()
		keys = append(keys, k)
	}
	r.mu.Unlock()

	sort.Strings(keys)
	r.metrics.updatesApplied.Add(1)
	r.metrics.keysWritten.Add(uint64(len(keys)))
	r.logger.Debug("component updated", "id", id, "keys", len(keys))

	r.subs.notify(Change{Kind: ChangeUpdated, ID: id, Keys: keys})
	return StatusUpdated
}

// ValidateUpdate checks what the entry's props would look like after
// Update(id, partial) against the entry's recorded schema, without
// committing anything. It is the opt-in strict path: Update itself
// never consults the schema.
//
// It returns ErrNotFound for a missing id and nil when the entry has no
// schema, the schema does not implement Schema, or the prospective
// props pass validation.
func (r *Registry) ValidateUpdate(id string, partial props.Map) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.RUnlock()
		return ErrNotFound
	}
	schema, capable := e.schema.(Schema)
	if !capable {
		r.mu.RUnlock()
		return nil
	}
	merged := e.props.Clone()
	r.mu.RUnlock()

	for k, v := range partial {
		merged[k] = v
	}
	return schema.Validate(merged)
}
