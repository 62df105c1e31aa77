package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTest(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, b *Broadcaster, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, b.ClientCount())
}

func TestPublishReachesClient(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(b)
	defer srv.Close()
	defer b.Close()

	conn := dialTest(t, srv)
	defer conn.Close()
	waitForClients(t, b, 1)

	sent := Update{
		Body:   BodyState{X: 1.5, Y: 2.25, Grounded: true, GroundID: "window-top:7"},
		Landed: true,
		Stats:  StatsState{Steps: 42, Landings: 1},
	}
	b.Publish(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Update
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got != sent {
		t.Errorf("Expected %+v, got %+v", sent, got)
	}
}

func TestDisconnectedClientRemoved(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(b)
	defer srv.Close()
	defer b.Close()

	conn := dialTest(t, srv)
	waitForClients(t, b, 1)

	conn.Close()
	waitForClients(t, b, 0)

	// Publishing with no clients must be a no-op
	b.Publish(Update{})
}

func TestCloseRejectsNewConnections(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(b)
	defer srv.Close()

	b.Close()

	conn := dialTest(t, srv)
	defer conn.Close()

	// The server side closes immediately; the client sees an error on read
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected read error from a closed broadcaster")
	}
	if b.ClientCount() != 0 {
		t.Errorf("Expected 0 clients after Close, got %d", b.ClientCount())
	}
}
