package telemetry

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/abs/pkg/component"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

func TestHubBroadcastsLifecycleEvents(t *testing.T) {
	hub := NewHub()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	hub.now = func() time.Time { return fixed }
	conn := dialHub(t, hub)

	hub.ComponentInitialized("Tabs")
	hub.ComponentDestroyed("Tabs")
	hub.InitFailed(errors.New("boom"))
	hub.PassCompleted(component.Report{Kind: component.PassBulk, Discovered: 3}, 1500*time.Microsecond)

	ev := readEvent(t, conn)
	if ev.Type != EventInitialized || ev.Tag != "Tabs" || !ev.Time.Equal(fixed) {
		t.Errorf("event 1 = %+v", ev)
	}
	if ev := readEvent(t, conn); ev.Type != EventDestroyed {
		t.Errorf("event 2 = %+v", ev)
	}
	if ev := readEvent(t, conn); ev.Type != EventFailed || ev.Error != "boom" {
		t.Errorf("event 3 = %+v", ev)
	}
	ev = readEvent(t, conn)
	if ev.Type != EventPass || ev.Report == nil || ev.Report.Discovered != 3 || ev.DurationMS != 1.5 {
		t.Errorf("event 4 = %+v", ev)
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubWithoutClients(t *testing.T) {
	hub := NewHub()
	// Broadcasting with nobody listening is a no-op.
	hub.ComponentInitialized("Tabs")
	if hub.ClientCount() != 0 {
		t.Error("unexpected clients")
	}
}
