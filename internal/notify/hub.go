package notify

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second
	// sendBuffer is the per-client event backlog. A client whose buffer is
	// full is dropped rather than awaited.
	sendBuffer = 32
)

// Hub broadcasts events to connected websocket clients. Delivery is best
// effort: each client gets a buffered queue and its own writer, and a client
// that stops reading or falls behind is dropped. Publish never blocks on
// client I/O.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	ws   *websocket.Conn
	send chan wsEvent
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Handler upgrades the request to a websocket and keeps the connection
// registered until the client goes away. Inbound messages are discarded.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade: %v", err)
			return
		}
		defer ws.Close()

		cl := &client{ws: ws, send: make(chan wsEvent, sendBuffer)}
		h.register(cl)
		go cl.writeLoop()
		log.Printf("[info] websocket client connected, %d active", h.Count())

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}
		h.drop(cl)
		log.Printf("[info] websocket client disconnected, %d active", h.Count())
	}
}

// writeLoop drains the client's queue onto the wire. A write that errors or
// exceeds writeWait kills the connection, which in turn fails the read loop
// and unregisters the client.
func (c *client) writeLoop() {
	defer c.ws.Close()
	for msg := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteJSON(msg); err != nil {
			log.Printf("websocket write: %v", err)
			return
		}
	}
}

// Publish queues the event for every connected client. A client whose queue
// is full is disconnected instead of waited on.
func (h *Hub) Publish(event string, payload any) {
	msg := wsEvent{Event: event, Data: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			log.Printf("websocket client too slow, dropping")
			close(cl.send)
			cl.ws.Close()
			delete(h.clients, cl)
		}
	}
}

// Count reports the number of active connections. Diagnostic only.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

// drop unregisters the client and closes its queue, unless Publish already
// evicted it.
func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
}
