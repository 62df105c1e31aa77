// Package stream broadcasts engine state over websocket for external
// frontends. It is entirely optional: the physics engine never imports it.
package stream

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// BodyState is the wire snapshot of the simulated body.
type BodyState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VelX     float64 `json:"velX"`
	VelY     float64 `json:"velY"`
	Grounded bool    `json:"grounded"`
	GroundID string  `json:"groundId,omitempty"`
}

// StatsState mirrors the engine's diagnostic counters.
type StatsState struct {
	Steps           uint64 `json:"steps"`
	Rebuilds        uint64 `json:"rebuilds"`
	RebuildsSkipped uint64 `json:"rebuildsSkipped"`
	Landings        uint64 `json:"landings"`
	WallHits        uint64 `json:"wallHits"`
	SafetyNetHits   uint64 `json:"safetyNetHits"`
}

// Update is one published frame. Event flags are one-shot: they reflect the
// step that produced the frame, not a latched state.
type Update struct {
	Body           BodyState  `json:"body"`
	Landed         bool       `json:"landed"`
	StartedFalling bool       `json:"startedFalling"`
	HitWallLeft    bool       `json:"hitWallLeft"`
	HitWallRight   bool       `json:"hitWallRight"`
	NearLeftEdge   bool       `json:"nearLeftEdge"`
	NearRightEdge  bool       `json:"nearRightEdge"`
	Stats          StatsState `json:"stats"`
}

// Broadcaster fans published updates out to every connected websocket
// client. Clients whose writes fail are dropped. All methods are safe for
// concurrent use; the publisher and the HTTP server run on different
// goroutines.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the connection. A drain
// goroutine consumes inbound frames so close handshakes are noticed.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: upgrade failed: %v", err)
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	go b.drain(conn)
}

func (b *Broadcaster) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	b.remove(conn)
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
	conn.Close()
}

// Publish sends the update to every client. Write failures drop the client
// rather than blocking future frames.
func (b *Broadcaster) Publish(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		if err := conn.WriteJSON(u); err != nil {
			delete(b.clients, conn)
			conn.Close()
		}
	}
}

// ClientCount reports the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects all clients and rejects future connections.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}
