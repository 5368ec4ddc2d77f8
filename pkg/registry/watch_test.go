package registry

import (
	"testing"

	"github.com/surface-dev/surface/pkg/props"
)

func TestSubscribeReceivesChanges(t *testing.T) {
	r := newTestRegistry()

	var got []Change
	cancel := r.Subscribe(func(c Change) { got = append(got, c) })
	defer cancel()

	id := r.Register("c", "", nil, nil, nil)
	r.Update(id, props.Map{"b": props.Int(2), "a": props.Int(1)})
	r.Update(id, props.Map{})          // warning, no commit, no event
	r.Update("missing", props.Map{})   // error, no commit, no event
	r.Remove(id)

	if len(got) != 3 {
		t.Fatalf("received %d changes, want 3: %v", len(got), got)
	}
	if got[0].Kind != ChangeRegistered || got[0].ID != id {
		t.Errorf("first change = %+v", got[0])
	}
	if got[1].Kind != ChangeUpdated || got[1].ID != id {
		t.Errorf("second change = %+v", got[1])
	}
	if len(got[1].Keys) != 2 || got[1].Keys[0] != "a" || got[1].Keys[1] != "b" {
		t.Errorf("updated keys = %v, want sorted [a b]", got[1].Keys)
	}
	if got[2].Kind != ChangeRemoved || got[2].ID != id {
		t.Errorf("third change = %+v", got[2])
	}
}

func TestSubscribeCancel(t *testing.T) {
	r := newTestRegistry()

	count := 0
	cancel := r.Subscribe(func(Change) { count++ })

	r.Register("c", "", nil, nil, nil)
	cancel()
	r.Register("c2", "", nil, nil, nil)

	if count != 1 {
		t.Errorf("received %d changes after cancel, want 1", count)
	}
}

func TestWatcherMayReenterRegistry(t *testing.T) {
	r := newTestRegistry()

	cancel := r.Subscribe(func(c Change) {
		// Callbacks run after the lock is released, so lookups are safe.
		if c.Kind == ChangeUpdated {
			if _, ok := r.Get(c.ID); !ok {
				t.Errorf("entry %s not visible from watcher", c.ID)
			}
		}
	})
	defer cancel()

	id := r.Register("c", "", nil, nil, nil)
	r.Update(id, props.Map{"k": props.Int(1)})
}

func TestChangeKindString(t *testing.T) {
	cases := map[ChangeKind]string{
		ChangeRegistered: "Registered",
		ChangeUpdated:    "Updated",
		ChangeRemoved:    "Removed",
		ChangeKind(9):    "Unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
