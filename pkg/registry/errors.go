package registry

import "errors"

// Sentinel errors for the error-returning paths. The Update engine
// itself reports statuses, not errors; these cover the surrounding
// surface (validation, hosts, transports).
var (
	// ErrNotFound is returned when an id has no matching entry.
	ErrNotFound = errors.New("registry: component not found")
)
