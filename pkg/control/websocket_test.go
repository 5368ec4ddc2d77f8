package control

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/surface-dev/surface/pkg/host"
	"github.com/surface-dev/surface/pkg/props"
	"github.com/surface-dev/surface/pkg/registry"
)

func dialWatch(t *testing.T, ts *httptest.Server, sid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + sid + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWatchStreamsChanges(t *testing.T) {
	s, h := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	sess, err := h.Open()
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	conn := dialWatch(t, ts, sess.ID)

	// The handler subscribes just after the handshake completes; give
	// it a moment before mutating the registry.
	time.Sleep(100 * time.Millisecond)

	id := sess.Registry.Register("c", "", nil, nil, nil)
	sess.Registry.Update(id, props.Map{"text": props.String("Hi"), "count": props.Int(1)})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first registry.Change
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first change: %v", err)
	}
	if first.Kind != registry.ChangeRegistered || first.ID != id {
		t.Errorf("first change = %+v", first)
	}

	var second registry.Change
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read second change: %v", err)
	}
	if second.Kind != registry.ChangeUpdated || second.ID != id {
		t.Errorf("second change = %+v", second)
	}
	if len(second.Keys) != 2 || second.Keys[0] != "count" || second.Keys[1] != "text" {
		t.Errorf("updated keys = %v, want sorted [count text]", second.Keys)
	}
}

func TestWatchUnknownSession(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/nope/watch"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial to unknown session should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("handshake response = %+v", resp)
	}
}

func TestWatchOriginCheck(t *testing.T) {
	h := host.New(nil, testLogger())
	t.Cleanup(h.Shutdown)
	cfg := DefaultConfig()
	cfg.Logger = testLogger()
	cfg.AllowedOrigins = []string{"https://allowed.example"}
	s := New(h, cfg)

	ts := httptest.NewServer(s)
	defer ts.Close()

	sess, _ := h.Open()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/sessions/" + sess.ID + "/watch"

	// Disallowed origin is rejected during the handshake.
	hdr := http.Header{"Origin": []string{"https://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(url, hdr); err == nil {
		t.Error("dial with disallowed origin should fail")
	}

	// Allowed origin connects.
	hdr = http.Header{"Origin": []string{"https://allowed.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, hdr)
	if err != nil {
		t.Fatalf("dial with allowed origin: %v", err)
	}
	conn.Close()
}
