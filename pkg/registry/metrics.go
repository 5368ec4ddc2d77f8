package registry

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of registry counters.
type Stats struct {
	// Entries
	Active     int
	Registered uint64
	Removed    uint64

	// Updates
	UpdatesApplied  uint64
	UpdatesEmpty    uint64
	UpdatesNotFound uint64
	KeysWritten     uint64

	// Timestamp
	CollectedAt time.Time
}

// metricsCollector holds the registry's atomic counters.
type metricsCollector struct {
	registered      atomic.Uint64
	removed         atomic.Uint64
	updatesApplied  atomic.Uint64
	updatesEmpty    atomic.Uint64
	updatesNotFound atomic.Uint64
	keysWritten     atomic.Uint64
}

// Stats collects and returns registry metrics.
func (r *Registry) Stats() Stats {
	return Stats{
		Active:          r.Len(),
		Registered:      r.metrics.registered.Load(),
		Removed:         r.metrics.removed.Load(),
		UpdatesApplied:  r.metrics.updatesApplied.Load(),
		UpdatesEmpty:    r.metrics.updatesEmpty.Load(),
		UpdatesNotFound: r.metrics.updatesNotFound.Load(),
		KeysWritten:     r.metrics.keysWritten.Load(),
		CollectedAt:     time.Now(),
	}
}
