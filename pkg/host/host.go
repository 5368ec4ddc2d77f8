package host

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/surface-dev/surface/pkg/registry"
)

// Sentinel errors for host operations.
var (
	// ErrSessionNotFound is returned when a session id does not exist.
	ErrSessionNotFound = errors.New("host: session not found")

	// ErrMaxSessions is returned when the session limit is reached.
	ErrMaxSessions = errors.New("host: max sessions reached")

	// ErrShutdown is returned when the host has been shut down.
	ErrShutdown = errors.New("host: shut down")
)

// Session couples a registry to one controller session.
type Session struct {
	// ID is the opaque session identifier.
	ID string

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	// Registry is the session's component registry. It lives exactly
	// as long as the session.
	Registry *registry.Registry

	// lastActive is the last lookup time, as unix nanos.
	lastActive atomic.Int64
}

// LastActive returns the time of the most recent lookup.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Config configures a Host.
type Config struct {
	// MaxSessions caps concurrently open sessions. Zero means no cap.
	MaxSessions int

	// IdleTimeout closes sessions with no lookups for this long.
	// Zero disables idle cleanup.
	IdleTimeout time.Duration

	// CleanupInterval is how often idle sessions are swept.
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxSessions:     10000,
		IdleTimeout:     30 * time.Minute,
		CleanupInterval: 30 * time.Second,
	}
}

// Host manages all open sessions and their registries.
type Host struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	config *Config
	logger *slog.Logger

	// Cleanup
	cleanupTicker *time.Ticker
	done          chan struct{}
	cleanupDone   chan struct{}
	closed        atomic.Bool

	// Metrics
	totalOpened atomic.Uint64
	totalClosed atomic.Uint64
	peak        int

	// Callbacks
	onOpen  func(*Session)
	onClose func(*Session)
}

// New creates a Host with the given configuration.
func New(config *Config, logger *slog.Logger) *Host {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	h := &Host{
		sessions:    make(map[string]*Session),
		config:      config,
		logger:      logger.With("component", "host"),
		done:        make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}

	if config.IdleTimeout > 0 {
		interval := config.CleanupInterval
		if interval <= 0 {
			interval = 30 * time.Second
		}
		h.cleanupTicker = time.NewTicker(interval)
		go h.cleanupLoop()
	} else {
		close(h.cleanupDone)
	}

	return h
}

// SetOnOpen sets the callback invoked after a session opens.
func (h *Host) SetOnOpen(fn func(*Session)) {
	h.mu.Lock()
	h.onOpen = fn
	h.mu.Unlock()
}

// SetOnClose sets the callback invoked after a session closes.
func (h *Host) SetOnClose(fn func(*Session)) {
	h.mu.Lock()
	h.onClose = fn
	h.mu.Unlock()
}

// generateSessionID generates a cryptographically random session id.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Weak session ids are worse than crashing.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// Open creates a new session with its own registry.
func (h *Host) Open() (*Session, error) {
	if h.closed.Load() {
		return nil, ErrShutdown
	}

	s := &Session{
		ID:        generateSessionID(),
		CreatedAt: time.Now(),
		Registry:  registry.New(registry.WithLogger(h.logger)),
	}
	s.touch()

	h.mu.Lock()
	if h.config.MaxSessions > 0 && len(h.sessions) >= h.config.MaxSessions {
		h.mu.Unlock()
		return nil, ErrMaxSessions
	}
	h.sessions[s.ID] = s
	if len(h.sessions) > h.peak {
		h.peak = len(h.sessions)
	}
	onOpen := h.onOpen
	h.mu.Unlock()

	h.totalOpened.Add(1)
	h.logger.Debug("session opened", "session_id", s.ID)

	if onOpen != nil {
		onOpen(s)
	}
	return s, nil
}

// Get returns the session for id, or nil if absent. A successful
// lookup refreshes the session's idle clock.
func (h *Host) Get(id string) *Session {
	h.mu.RLock()
	s := h.sessions[id]
	h.mu.RUnlock()
	if s != nil {
		s.touch()
	}
	return s
}

// Close ends the session for id and discards its registry.
func (h *Host) Close(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(h.sessions, id)
	onClose := h.onClose
	h.mu.Unlock()

	h.totalClosed.Add(1)
	h.logger.Debug("session closed", "session_id", id, "components", s.Registry.Len())

	if onClose != nil {
		onClose(s)
	}
	return nil
}

// Count returns the number of open sessions.
func (h *Host) Count() int {
	h.mu.RLock()
	n := len(h.sessions)
	h.mu.RUnlock()
	return n
}

// Stats is a snapshot of host counters.
type Stats struct {
	Active      int
	TotalOpened uint64
	TotalClosed uint64
	Peak        int
}

// Stats collects host metrics.
func (h *Host) Stats() Stats {
	h.mu.RLock()
	active := len(h.sessions)
	peak := h.peak
	h.mu.RUnlock()

	return Stats{
		Active:      active,
		TotalOpened: h.totalOpened.Load(),
		TotalClosed: h.totalClosed.Load(),
		Peak:        peak,
	}
}

// Shutdown closes all sessions and stops the cleanup loop. The host
// cannot be reused afterwards.
func (h *Host) Shutdown() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}

	if h.cleanupTicker != nil {
		close(h.done)
		h.cleanupTicker.Stop()
		<-h.cleanupDone
	}

	h.mu.Lock()
	ids := make([]string, 0, len(h.sessions))
	for id := range h.sessions {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Close(id)
	}
	h.logger.Info("host shut down", "sessions_closed", len(ids))
}

// cleanupLoop sweeps idle sessions until Shutdown.
func (h *Host) cleanupLoop() {
	defer close(h.cleanupDone)
	for {
		select {
		case <-h.cleanupTicker.C:
			h.sweepIdle()
		case <-h.done:
			return
		}
	}
}

// sweepIdle closes sessions idle past the configured timeout.
func (h *Host) sweepIdle() {
	cutoff := time.Now().Add(-h.config.IdleTimeout)

	h.mu.RLock()
	var idle []string
	for id, s := range h.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range idle {
		if err := h.Close(id); err == nil {
			h.logger.Info("idle session closed", "session_id", id)
		}
	}
}
