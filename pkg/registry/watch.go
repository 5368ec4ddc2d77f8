package registry

import "sync"

// ChangeKind is the type of registry change.
type ChangeKind uint8

const (
	ChangeRegistered ChangeKind = iota // Entry added
	ChangeUpdated                      // Props replaced for one or more keys
	ChangeRemoved                      // Entry deleted
)

// String returns the string representation of the ChangeKind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeRegistered:
		return "Registered"
	case ChangeUpdated:
		return "Updated"
	case ChangeRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// Change describes one committed registry mutation. For ChangeUpdated,
// Keys holds the written top-level keys in sorted order.
type Change struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id"`
	Keys []string   `json:"keys,omitempty"`
}

// WatchFunc receives committed changes. It runs synchronously on the
// mutating goroutine, after the registry lock has been released; it
// must not block and may call back into the registry.
type WatchFunc func(Change)

// subscribers fans committed changes out to watchers.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]WatchFunc
}

func (s *subscribers) add(fn WatchFunc) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]WatchFunc)
	}
	s.next++
	s.fns[s.next] = fn
	return s.next
}

func (s *subscribers) remove(id int) {
	s.mu.Lock()
	delete(s.fns, id)
	s.mu.Unlock()
}

func (s *subscribers) notify(c Change) {
	s.mu.Lock()
	if len(s.fns) == 0 {
		s.mu.Unlock()
		return
	}
	fns := make([]WatchFunc, 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Subscribe registers fn to receive every committed change. The
// returned function cancels the subscription.
func (r *Registry) Subscribe(fn WatchFunc) (cancel func()) {
	id := r.subs.add(fn)
	return func() { r.subs.remove(id) }
}
