// file: websocket/hub.go
package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"zerosync-web/logger"
	"zerosync-web/models"
)

// SessionSource answers "getSession" requests from tabs.
type SessionSource interface {
	Session(visitorID string) models.Session
}

// Hub tracks open connections per visitor.
type Hub struct {
	mu       sync.RWMutex
	visitors map[string]map[*Connection]struct{}
	source   SessionSource
	upgrader websocket.Upgrader
}

// NewHub creates a hub accepting browser connections from allowedOrigins.
// Requests without an Origin header (non-browser clients) are accepted.
func NewHub(allowedOrigins []string, source SessionSource) *Hub {
	h := &Hub{
		visitors: make(map[string]map[*Connection]struct{}),
		source:   source,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := set["*"]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			logger.Warn.Printf("[CheckOrigin] malformed origin %q", origin)
			return false
		}
		if _, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]; ok {
			return true
		}
		// Same host as the request itself.
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		logger.Warn.Printf("[CheckOrigin] rejected origin %q", origin)
		return false
	}
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.visitors[c.visitorID]
	if !ok {
		conns = make(map[*Connection]struct{})
		h.visitors[c.visitorID] = conns
	}
	conns[c] = struct{}{}
	logger.Debug.Printf("[register] visitor=%s now has %d tabs", c.visitorID, len(conns))
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.visitors[c.visitorID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.visitors, c.visitorID)
	}
	c.close()
}

// Count is the number of open connections across all visitors.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.visitors {
		n += len(conns)
	}
	return n
}

// sendToVisitor queues msg on every tab the visitor has open. Slow tabs drop
// the message rather than block the sender.
func (h *Hub) sendToVisitor(visitorID string, msg []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.visitors[visitorID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			logger.Warn.Printf("Dropping message for visitor=%s connection %v", visitorID, c.conn.RemoteAddr())
		}
	}
	return delivered
}

// enqueue sends to a single connection if it is still registered.
func (h *Hub) enqueue(c *Connection, msg []byte) {
	if msg == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.visitors[c.visitorID][c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		logger.Warn.Printf("Dropping reply for visitor=%s connection %v", c.visitorID, c.conn.RemoteAddr())
	}
}

// CloseAll disconnects every tab; used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conns := range h.visitors {
		for c := range conns {
			c.close()
		}
		delete(h.visitors, id)
	}
}
