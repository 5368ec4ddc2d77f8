// Package registry owns interactable component entries and applies
// partial props updates to them.
//
// A Registry maps opaque string ids to entries. Each entry carries
// immutable descriptive metadata, an opaque renderable handle, and an
// open-ended props mapping that only the registry's Update path may
// mutate. Updates are shallow: every supplied key wholly replaces the
// stored value for that key, nested structures included, and keys not
// supplied are left untouched. An update is applied as one atomic pass
// under the registry lock, so readers never observe a half-written
// mapping.
//
// Update outcomes are reported as literal status strings rather than
// errors: a missing id and an empty partial mapping are expected caller
// conditions, not faults.
//
// A Registry is an explicitly constructed object scoped to a single
// provider instance. Construct one per session, thread the reference to
// whoever needs it, and discard it when the session ends.
package registry
