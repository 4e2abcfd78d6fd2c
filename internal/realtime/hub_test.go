package realtime

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecophos-dev/ecophos/internal/services"
	"github.com/gorilla/websocket"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) services.Event {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var event services.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read: %v", err)
	}
	return event
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcastsToEveryClient(t *testing.T) {
	hub := NewHub(nil, nil)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	a := dial(t, server.URL)
	b := dial(t, server.URL)

	for _, conn := range []*websocket.Conn{a, b} {
		if got := readEvent(t, conn); got.Type != "connected" {
			t.Fatalf("expected welcome event, got %q", got.Type)
		}
	}
	waitForClients(t, hub, 2)

	hub.Publish(services.Event{Type: services.EventContactCreated, Data: map[string]string{"id": "c1"}})

	for _, conn := range []*websocket.Conn{a, b} {
		got := readEvent(t, conn)
		if got.Type != services.EventContactCreated {
			t.Errorf("expected %s, got %s", services.EventContactCreated, got.Type)
		}
	}
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := NewHub(nil, nil)
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	conn := dial(t, server.URL)
	readEvent(t, conn)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	hub.Publish(services.Event{Type: services.EventNewsDeleted})
}

func TestHubLogsDeadlineFailures(t *testing.T) {
	var buf bytes.Buffer
	hub := NewHub(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), nil)

	conns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := hub.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- conn
	}))
	defer server.Close()

	dial(t, server.URL)

	var serverConn *websocket.Conn
	select {
	case serverConn = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
	}
	serverConn.Close()

	if hub.extendRead(&client{conn: serverConn}) {
		t.Fatal("expected read deadline on a closed connection to fail")
	}
	if !strings.Contains(buf.String(), "failed to set websocket read deadline") {
		t.Errorf("expected deadline failure to be logged, got %q", buf.String())
	}
}
