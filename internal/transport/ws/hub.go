package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/domain"
)

// Hub tracks live connections and room broadcast groups. It is the lobby's
// Notifier: every delivery is a non-blocking TrySend, nothing is retried.
type Hub struct {
	mu     sync.RWMutex
	conns  map[domain.SessionID]*conn
	groups map[domain.RoomID]map[domain.SessionID]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[domain.SessionID]*conn),
		groups: make(map[domain.RoomID]map[domain.SessionID]struct{}),
	}
}

// register installs a connection for a session, closing any previous one
// for the same token.
func (h *Hub) register(sid domain.SessionID, c *conn) {
	h.mu.Lock()
	old := h.conns[sid]
	h.conns[sid] = c
	h.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// unregister removes the connection only if it is still the current one, so
// a reconnect that already replaced it is left alone. Reports whether the
// connection was current; only then may its teardown touch session state.
func (h *Hub) unregister(sid domain.SessionID, c *conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[sid] == c {
		delete(h.conns, sid)
		return true
	}
	return false
}

func (h *Hub) JoinGroup(roomID domain.RoomID, sid domain.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[roomID]
	if !ok {
		g = make(map[domain.SessionID]struct{})
		h.groups[roomID] = g
	}
	g[sid] = struct{}{}
}

func (h *Hub) LeaveGroup(roomID domain.RoomID, sid domain.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.groups[roomID]; ok {
		delete(g, sid)
		if len(g) == 0 {
			delete(h.groups, roomID)
		}
	}
}

func (h *Hub) ToSession(sid domain.SessionID, v any) {
	b, ok := marshal(v)
	if !ok {
		return
	}
	h.mu.RLock()
	c := h.conns[sid]
	h.mu.RUnlock()
	if c != nil {
		_ = c.TrySend(b)
	}
}

func (h *Hub) ToRoom(roomID domain.RoomID, v any) {
	b, ok := marshal(v)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sid := range h.groups[roomID] {
		if c := h.conns[sid]; c != nil {
			_ = c.TrySend(b)
		}
	}
}

func (h *Hub) Broadcast(v any) {
	b, ok := marshal(v)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		_ = c.TrySend(b)
	}
}

func (h *Hub) Disconnect(sid domain.SessionID) {
	h.mu.RLock()
	c := h.conns[sid]
	h.mu.RUnlock()
	if c != nil {
		c.Close()
	}
}

func marshal(v any) ([]byte, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("marshal event")
		return nil, false
	}
	return b, true
}
