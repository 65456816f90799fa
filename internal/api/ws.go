package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gecko435/affiliate-niche-finder-app/internal/analysis"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The dashboard is served from a different origin in development
		return true
	},
}

// ProgressHub fans analysis progress events out to connected websocket
// clients. A slow client drops events instead of blocking the run.
type ProgressHub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	logger  *logger.Logger
}

// NewProgressHub creates an empty hub.
func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		clients: make(map[chan []byte]struct{}),
		logger:  log.WithField("module", "ws"),
	}
}

// Broadcast sends one progress event to every connected client.
func (h *ProgressHub) Broadcast(p analysis.Progress) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client buffer full; drop the event
		}
	}
}

func (h *ProgressHub) subscribe() chan []byte {
	ch := make(chan []byte, clientSendSize)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *ProgressHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// Handle upgrades the connection and streams progress events until the
// client disconnects
// GET /ws/progress
func (h *ProgressHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	send := h.subscribe()
	defer h.unsubscribe(send)
	defer conn.Close()

	done := make(chan struct{})

	// Read loop exists only to observe the close handshake
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
