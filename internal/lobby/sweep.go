package lobby

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/domain"
)

// Run drives the periodic idle sweep until the context is canceled. This is
// the only autonomous state transition in the system.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep deletes rooms whose creation time is older than the idle TTL and
// that are either empty or still waiting on an unclaimed reservation, then
// broadcasts a fresh room-list snapshot. Safe to run between any
// join/disconnect because it takes the same lock they do.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	var expired []domain.RoomID
	for _, room := range m.reg.all() {
		if !room.CreatedAt.Before(cutoff) {
			continue
		}
		if room.Len() == 0 || m.pending.has(room.ID) {
			expired = append(expired, room.ID)
		}
	}
	for _, id := range expired {
		// Courtesy close to the (empty) broadcast group.
		m.notifier.ToRoom(id, noticeEvent{Type: EventRoomKicked, Message: "room closed after sitting idle"})
		m.pending.delete(id)
		m.reg.delete(id)
		log.Info().Str("module", "lobby").Str("room", string(id)).Msg("idle room swept")
	}
	m.broadcastRoomListLocked()
}
