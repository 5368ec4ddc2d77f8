package control

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/surface-dev/surface/pkg/registry"
)

// changeBuffer is the per-connection change queue depth. A watcher that
// falls this far behind is disconnected rather than allowed to stall
// the registry's mutating goroutine.
const changeBuffer = 256

// handleWatch upgrades to WebSocket and streams committed registry
// changes for the session as JSON frames.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromRequest(w, r)
	if sess == nil {
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("watch upgrade failed", "session_id", sess.ID, "error", err)
		return
	}

	logger := s.logger.With("session_id", sess.ID)
	logger.Debug("watcher connected")

	changes := make(chan registry.Change, changeBuffer)
	overflow := make(chan struct{})
	cancel := sess.Registry.Subscribe(func(c registry.Change) {
		select {
		case changes <- c:
		default:
			// Slow consumer; drop the connection, not the commit.
			select {
			case <-overflow:
			default:
				close(overflow)
			}
		}
	})
	defer cancel()

	done := make(chan struct{})

	// Reader exists only to surface the close handshake.
	go func() {
		defer close(done)
		conn.SetReadLimit(1024)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(s.config.PingInterval)
	defer pingTicker.Stop()
	defer conn.Close()

	for {
		select {
		case c := <-changes:
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteDeadline))
			if err := conn.WriteJSON(c); err != nil {
				logger.Debug("watcher write failed", "error", err)
				return
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-overflow:
			logger.Warn("watcher too slow, disconnecting")
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteDeadline))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "change feed overflow"))
			return

		case <-done:
			logger.Debug("watcher disconnected")
			return
		}
	}
}

// checkOrigin enforces the configured origin allowlist. An empty list
// allows all origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
