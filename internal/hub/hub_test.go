package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dial upgrades one client against a throwaway server and hands back both ends.
func dial(t *testing.T) (*Session, *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	var (
		mu      sync.Mutex
		session *Session
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		mu.Lock()
		session = NewSession(conn)
		mu.Unlock()
	}))
	t.Cleanup(srv.Close)

	client, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })

	// The handler runs on its own goroutine; wait for the session.
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		s := session
		mu.Unlock()
		if s != nil {
			t.Cleanup(s.Close)
			return s, client
		}
		if time.Now().After(deadline) {
			t.Fatalf("server session never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	h := New()
	inRoom, inClient := dial(t)
	_, outClient := dial(t)

	h.Join("r1", inRoom)
	h.Broadcast("r1", "newQRCode", map[string]string{"qrCode": "tok-1"})

	f := readFrame(t, inClient)
	if f.Event != "newQRCode" {
		t.Errorf("event = %q, want newQRCode", f.Event)
	}

	// The unsubscribed client gets nothing.
	_ = outClient.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var raw json.RawMessage
	if err := outClient.ReadJSON(&raw); err == nil {
		t.Errorf("unsubscribed client received %s", raw)
	}
}

func TestRemoveStopsDelivery(t *testing.T) {
	h := New()
	s, client := dial(t)
	h.Join("r1", s)
	h.Remove(s)

	h.Broadcast("r1", "updateAttendees", nil)
	_ = client.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var raw json.RawMessage
	if err := client.ReadJSON(&raw); err == nil {
		t.Errorf("removed session received %s", raw)
	}
}

func TestDropRoomReleasesChannel(t *testing.T) {
	h := New()
	s, client := dial(t)
	h.Join("r1", s)
	h.DropRoom("r1")

	h.Broadcast("r1", "roomDeleted", "r1")
	_ = client.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var raw json.RawMessage
	if err := client.ReadJSON(&raw); err == nil {
		t.Errorf("session in dropped room received %s", raw)
	}
}
