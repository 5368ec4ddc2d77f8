package host

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/surface-dev/surface/pkg/props"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenGetClose(t *testing.T) {
	h := New(nil, testLogger())
	defer h.Shutdown()

	s, err := h.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.ID == "" || s.Registry == nil {
		t.Fatalf("session incomplete: %+v", s)
	}

	if got := h.Get(s.ID); got != s {
		t.Error("Get should return the opened session")
	}
	if h.Get("nope") != nil {
		t.Error("Get of unknown id should return nil")
	}
	if h.Count() != 1 {
		t.Errorf("Count = %d, want 1", h.Count())
	}

	if err := h.Close(s.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.Get(s.ID) != nil {
		t.Error("Get after Close should return nil")
	}
	if err := h.Close(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Close = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	h := New(nil, testLogger())
	defer h.Shutdown()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		s, err := h.Open()
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	h := New(nil, testLogger())
	defer h.Shutdown()

	a, _ := h.Open()
	b, _ := h.Open()

	id := a.Registry.Register("c", "", nil, props.Map{"v": props.Int(1)}, nil)
	if _, ok := b.Registry.Get(id); ok {
		t.Error("entry registered in session A is visible in session B")
	}
}

func TestMaxSessions(t *testing.T) {
	h := New(&Config{MaxSessions: 1}, testLogger())
	defer h.Shutdown()

	if _, err := h.Open(); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := h.Open(); !errors.Is(err, ErrMaxSessions) {
		t.Errorf("second Open = %v, want ErrMaxSessions", err)
	}
}

func TestIdleSweep(t *testing.T) {
	h := New(&Config{
		IdleTimeout:     20 * time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	}, testLogger())
	defer h.Shutdown()

	h.Open()

	// Poll Count only; Get would refresh the idle clock.
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Count() != 0 {
		t.Error("idle session was not swept")
	}
}

func TestCallbacks(t *testing.T) {
	h := New(nil, testLogger())
	defer h.Shutdown()

	var opened, closed int
	h.SetOnOpen(func(*Session) { opened++ })
	h.SetOnClose(func(*Session) { closed++ })

	s, _ := h.Open()
	h.Close(s.ID)

	if opened != 1 || closed != 1 {
		t.Errorf("callbacks: opened=%d closed=%d, want 1/1", opened, closed)
	}
}

func TestShutdown(t *testing.T) {
	h := New(nil, testLogger())

	h.Open()
	h.Open()
	h.Shutdown()

	if h.Count() != 0 {
		t.Errorf("Count after Shutdown = %d, want 0", h.Count())
	}
	if _, err := h.Open(); !errors.Is(err, ErrShutdown) {
		t.Errorf("Open after Shutdown = %v, want ErrShutdown", err)
	}

	// Second Shutdown is a no-op.
	h.Shutdown()
}

func TestStats(t *testing.T) {
	h := New(nil, testLogger())
	defer h.Shutdown()

	a, _ := h.Open()
	h.Open()
	h.Close(a.ID)

	st := h.Stats()
	if st.Active != 1 || st.TotalOpened != 2 || st.TotalClosed != 1 || st.Peak != 2 {
		t.Errorf("stats = %+v", st)
	}
}
