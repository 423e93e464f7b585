package lobby

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/domain"
)

// Administrative pass-through operations. Authentication happens at the
// transport; by the time these run the caller is trusted.

// AdminRoom is a summary plus the full roster, for the dashboard.
type AdminRoom struct {
	RoomSummary
	Roster []PlayerView `json:"roster"`
}

func (m *Manager) AllRooms() []RoomSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RoomSummary, 0, m.reg.len())
	for _, room := range m.reg.all() {
		out = append(out, summarize(room))
	}
	newestFirst(out)
	return out
}

func (m *Manager) AdminRooms() []AdminRoom {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AdminRoom, 0, m.reg.len())
	for _, room := range m.reg.all() {
		out = append(out, AdminRoom{RoomSummary: summarize(room), Roster: playerViews(room)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out
}

type Stats struct {
	TotalRooms   int           `json:"totalRooms"`
	TotalPlayers int           `json:"totalPlayers"`
	WaitingRooms int           `json:"waitingRooms"`
	PlayingRooms int           `json:"playingRooms"`
	FullRooms    int           `json:"fullRooms"`
	PrivateRooms int           `json:"privateRooms"`
	PendingRooms int           `json:"pendingRooms"`
	Uptime       time.Duration `json:"uptime"`
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{TotalRooms: m.reg.len(), PendingRooms: m.pending.len(), Uptime: time.Since(m.startedAt)}
	for _, room := range m.reg.all() {
		s.TotalPlayers += room.Len()
		switch room.Status {
		case domain.StatusWaiting:
			s.WaitingRooms++
		case domain.StatusPlaying:
			s.PlayingRooms++
		}
		if room.IsFull() {
			s.FullRooms++
		}
		if room.Private {
			s.PrivateRooms++
		}
	}
	return s
}

// DeleteRoom notifies and force-disconnects every occupant, then removes
// the room entirely.
func (m *Manager) DeleteRoom(id domain.RoomID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.reg.get(id)
	if !ok {
		return ErrRoomNotFound
	}

	m.notifier.ToRoom(id, noticeEvent{Type: EventRoomKicked, Message: "room deleted by admin"})
	m.evictAllLocked(room)
	m.pending.delete(id)
	m.reg.delete(id)
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(id)).Msg("room deleted by admin")
	return nil
}

// ClearRoom kicks every occupant and resets the room to a joinable waiting
// state, keeping the room itself alive.
func (m *Manager) ClearRoom(id domain.RoomID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.reg.get(id)
	if !ok {
		return 0, ErrRoomNotFound
	}

	kicked := room.Len()
	m.notifier.ToRoom(id, noticeEvent{Type: EventRoomKicked, Message: "room cleared by admin"})
	m.evictAllLocked(room)
	room.ClearMembers()
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(id)).Int("kicked", kicked).Msg("room cleared by admin")
	return kicked, nil
}

// evictAllLocked unbinds and force-disconnects every occupant with a live
// connection. The transport teardown will re-enter Disconnect, which finds
// nothing left and no-ops.
func (m *Manager) evictAllLocked(room *domain.Room) {
	for _, p := range room.Players() {
		if p.Session == "" {
			continue
		}
		m.sessions.unbind(p.Session)
		m.notifier.LeaveGroup(room.ID, p.Session)
		m.notifier.Disconnect(p.Session)
	}
}

// KickPlayer removes one participant. If the kicked participant held host
// status, host handover runs exactly as it would on disconnect.
func (m *Manager) KickPlayer(id domain.RoomID, pid domain.ParticipantID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.reg.get(id)
	if !ok {
		return "", ErrRoomNotFound
	}
	p, ok := room.Participant(pid)
	if !ok {
		return "", ErrPlayerNotFound
	}

	if p.Session != "" {
		m.notifier.ToSession(p.Session, noticeEvent{Type: EventKickedByAdmin, Message: "you were kicked by an admin"})
		m.sessions.unbind(p.Session)
		m.notifier.LeaveGroup(room.ID, p.Session)
		m.notifier.Disconnect(p.Session)
	}
	wasHost := p.IsHost && p.Session != "" && p.Session == room.ActualHost
	room.RemoveParticipant(pid)

	m.notifier.ToRoom(room.ID, playerKickedEvent{Type: EventPlayerKicked, PlayerName: p.Name})
	if wasHost && room.Len() > 0 {
		m.migrateHostLocked(room)
	}
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(id)).Str("player", p.Name).Msg("player kicked by admin")
	return p.Name, nil
}

// SetPrivacy toggles room visibility. A playing or full room cannot be made
// private.
func (m *Manager) SetPrivacy(id domain.RoomID, private bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.reg.get(id)
	if !ok {
		return ErrRoomNotFound
	}
	if private && (room.Status == domain.StatusPlaying || room.IsFull()) {
		return ErrInvalidParameters
	}

	room.Private = private
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(id)).Bool("private", private).Msg("privacy toggled")
	return nil
}

// SystemMessage pushes a colored server notice to one room.
func (m *Manager) SystemMessage(id domain.RoomID, text, color string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reg.get(id); !ok {
		return ErrRoomNotFound
	}
	if color == "" {
		color = "red"
	}
	m.notifier.ToRoom(id, systemMessageEvent{Type: EventSystemMessage, Text: "[server] " + text, Color: color})
	return nil
}
