package ws

import (
	"sync"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	View() string
}

// Hub tracks live carousel sessions by view key ("list", "panel:3").
type Hub struct {
	mu    sync.RWMutex
	views map[string]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{views: make(map[string]map[Conn]struct{})}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	vs, ok := h.views[c.View()]
	if !ok {
		vs = make(map[Conn]struct{})
		h.views[c.View()] = vs
	}
	vs[c] = struct{}{}
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if vs, ok := h.views[c.View()]; ok {
		delete(vs, c)
		if len(vs) == 0 {
			delete(h.views, c.View())
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, vs := range h.views {
		n += len(vs)
	}
	return n
}

func (h *Hub) CountView(view string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.views[view])
}

// CloseAll закрывает все сессии; их read loop завершится и остановит таймеры.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]Conn, 0)
	for _, vs := range h.views {
		for c := range vs {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
