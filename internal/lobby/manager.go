// Package lobby is the room/session lifecycle core: creation, admission,
// host migration, disconnect handling and idle reclamation. One mutex guards
// the registry, the session directory and the pending-reservation table, and
// every operation runs to completion under it, so state transitions are
// serialized by construction.
package lobby

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/domain"
)

const (
	defaultMaxPlayers = 4
	minPlayers        = 2
	maxPlayersCap     = 100

	defaultIdleTTL       = 5 * time.Minute
	defaultSweepInterval = 30 * time.Second
)

type Options struct {
	// IdleTTL is measured from room creation, not from the moment the room
	// last emptied. A room that fills and empties repeatedly is still swept
	// at a fixed offset from creation.
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type Manager struct {
	mu       sync.Mutex
	reg      *registry
	sessions *sessionDirectory
	pending  *pendingTable
	notifier Notifier

	idleTTL    time.Duration
	sweepEvery time.Duration
	startedAt  time.Time
	now        func() time.Time
}

func NewManager(n Notifier, opts Options) *Manager {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	return &Manager{
		reg:        newRegistry(),
		sessions:   newSessionDirectory(),
		pending:    newPendingTable(),
		notifier:   n,
		idleTTL:    opts.IdleTTL,
		sweepEvery: opts.SweepInterval,
		startedAt:  time.Now(),
		now:        time.Now,
	}
}

// CreateParams are shared by both creation paths.
type CreateParams struct {
	PlayerName string
	RoomName   string
	MaxPlayers int
	Private    bool
	Password   string
}

type CreateResult struct {
	RoomID     domain.RoomID
	PlayerID   domain.ParticipantID
	Color      string
	InviteCode string
}

func (p *CreateParams) validate() error {
	if p.MaxPlayers == 0 {
		p.MaxPlayers = defaultMaxPlayers
	}
	if p.PlayerName == "" || p.RoomName == "" {
		return fmt.Errorf("%w: player and room name required", ErrInvalidParameters)
	}
	if len(p.PlayerName) > domain.MaxParticipantNameLen {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, domain.ErrNameTooLong)
	}
	if len(p.RoomName) > domain.MaxRoomNameLen {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, domain.ErrRoomNameTooLong)
	}
	if p.MaxPlayers < minPlayers || p.MaxPlayers > maxPlayersCap {
		return fmt.Errorf("%w: maxPlayers out of range", ErrInvalidParameters)
	}
	if p.Private && p.Password == "" {
		return fmt.Errorf("%w: private room requires a password", ErrInvalidParameters)
	}
	return nil
}

// Reserve creates a room before any real-time connection exists. The
// prospective host participant has no owning connection and no host flag
// yet; both are granted when a connection claims the reservation.
func (m *Manager) Reserve(params CreateParams) (*CreateResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	host, err := domain.NewParticipant(params.PlayerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.reg.allocate()
	room := domain.NewRoom(id, params.RoomName, params.MaxPlayers, params.Private, params.Password, "", host, domain.UnboundHost())
	m.reg.put(room)
	m.pending.put(id, host.ID)

	log.Info().Str("module", "lobby").Str("room", string(id)).Str("host", params.PlayerName).Msg("room reserved, waiting for host connection")
	return &CreateResult{RoomID: id, PlayerID: host.ID, Color: host.Color}, nil
}

// Create is the direct path: the calling connection becomes host
// immediately and an invite code is issued.
func (m *Manager) Create(sid domain.SessionID, params CreateParams) (*CreateResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	host, err := domain.NewParticipant(params.PlayerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.reg.allocate()
	invite := NewInviteCode()
	room := domain.NewRoom(id, params.RoomName, params.MaxPlayers, params.Private, params.Password, invite, host, domain.BoundHost(sid))
	m.reg.put(room)
	m.sessions.bind(sid, id, host.ID)
	m.notifier.JoinGroup(id, sid)
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(id)).Str("sid", string(sid)).Msg("room created")
	return &CreateResult{RoomID: id, PlayerID: host.ID, Color: host.Color, InviteCode: invite}, nil
}

// Claim binds a newly established connection to a pending reservation, if
// one is waiting for its host. Linear in the number of reservations, which
// stay few and short-lived. At most one reservation is claimed per call.
func (m *Manager) Claim(sid domain.SessionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	claimed := false
	m.pending.each(func(roomID domain.RoomID, pid domain.ParticipantID) bool {
		room, ok := m.reg.get(roomID)
		if !ok {
			// Room swept underneath its reservation.
			m.pending.delete(roomID)
			return false
		}
		host, ok := room.Participant(pid)
		if !ok || host.Session != "" {
			return false
		}

		host.Session = sid
		host.IsHost = true
		room.ActualHost = sid
		m.sessions.bind(sid, roomID, pid)
		m.notifier.JoinGroup(roomID, sid)
		m.pending.delete(roomID)

		m.notifier.ToSession(sid, hostVerifiedEvent{
			Type:     EventHostVerified,
			Success:  true,
			RoomID:   roomID,
			PlayerID: pid,
			Room:     snapshot(room),
		})
		log.Info().Str("module", "lobby").Str("room", string(roomID)).Str("sid", string(sid)).Msg("host verified")
		claimed = true
		return true
	})
	return claimed
}

type JoinParams struct {
	RoomID     domain.RoomID
	PlayerName string
	Password   string
	InviteCode string
}

// Join admits a live connection into a room. Checks run in a fixed order,
// each its own failure mode, and nothing is mutated until all pass.
func (m *Manager) Join(sid domain.SessionID, params JoinParams) (*RoomSnapshot, error) {
	if params.PlayerName == "" || len(params.PlayerName) > domain.MaxParticipantNameLen {
		return nil, fmt.Errorf("%w: bad player name", ErrInvalidParameters)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.reg.get(params.RoomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Private && room.Password != params.Password {
		return nil, ErrBadPassword
	}
	if params.InviteCode != "" && room.InviteCode != params.InviteCode {
		return nil, ErrBadInvite
	}
	// A reserved room stays inadmissible until its host connection claims
	// it, same as a room that already left waiting.
	if room.Status != domain.StatusWaiting || m.pending.has(room.ID) {
		return nil, ErrGameAlreadyStarted
	}
	if room.IsFull() {
		return nil, ErrRoomFull
	}

	p, err := domain.NewParticipant(params.PlayerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	p.Session = sid
	if err := room.AddParticipant(p); err != nil {
		return nil, ErrRoomFull
	}
	m.sessions.bind(sid, room.ID, p.ID)
	m.notifier.JoinGroup(room.ID, sid)

	m.notifier.ToRoom(room.ID, playerJoinedEvent{
		Type:       EventPlayerJoined,
		NewPlayer:  PlayerView{ID: p.ID, Name: p.Name, Color: p.Color},
		Players:    playerViews(room),
		Count:      room.Len(),
		MaxPlayers: room.MaxPlayers,
	})
	snap := snapshot(room)
	m.notifier.ToSession(sid, roomJoinedEvent{Type: EventRoomJoined, RoomSnapshot: snap})
	// The joiner must see its own confirmation no later than the list
	// update that includes it, so the broadcast goes last.
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(room.ID)).Str("player", p.Name).Int("count", room.Len()).Msg("player joined")
	return &snap, nil
}

// StartGame transitions a room to playing. Host-only.
func (m *Manager) StartGame(sid domain.SessionID, roomID domain.RoomID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.reg.get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	if room.ActualHost == "" || room.ActualHost != sid {
		return ErrNotAuthorized
	}
	if room.Status != domain.StatusWaiting {
		return ErrGameAlreadyStarted
	}

	room.Status = domain.StatusPlaying
	m.notifier.ToRoom(roomID, gameStartedEvent{Type: EventGameStarted, RoomID: roomID, Status: room.Status})
	m.broadcastRoomListLocked()

	log.Info().Str("module", "lobby").Str("room", string(roomID)).Msg("game started")
	return nil
}

// Disconnect handles connection termination. Idempotent and fault-free:
// every lookup miss is an expected race and resolves as a no-op.
func (m *Manager) Disconnect(sid domain.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions.lookup(sid)
	if !ok {
		return
	}
	room, ok := m.reg.get(entry.RoomID)
	if !ok {
		m.sessions.unbind(sid)
		return
	}
	p, ok := room.Participant(entry.ParticipantID)
	if !ok {
		m.sessions.unbind(sid)
		return
	}

	if room.Len() > 1 {
		m.notifier.ToRoom(room.ID, playerLeftEvent{Type: EventPlayerLeft, PlayerID: p.ID, PlayerName: p.Name})
	}
	room.RemoveParticipant(p.ID)
	m.notifier.LeaveGroup(room.ID, sid)

	if room.Len() == 0 {
		// Idle-sweep-eligible now. No host to reassign.
		log.Info().Str("module", "lobby").Str("room", string(room.ID)).Msg("room emptied")
	} else if p.IsHost && p.Session == room.ActualHost {
		m.migrateHostLocked(room)
		m.broadcastRoomListLocked()
	}

	m.sessions.unbind(sid)
}

// migrateHostLocked promotes the earliest-joined remaining participant.
// Deterministic: insertion order is the tie-break.
func (m *Manager) migrateHostLocked(room *domain.Room) {
	next, ok := room.Eldest()
	if !ok {
		room.ActualHost = ""
		return
	}
	next.IsHost = true
	room.ActualHost = next.Session
	m.notifier.ToSession(next.Session, promotedEvent{
		Type:    EventPromotedToHost,
		RoomID:  room.ID,
		Message: "the host left, you are the new host",
	})
	log.Info().Str("module", "lobby").Str("room", string(room.ID)).Str("host", next.Name).Msg("host migrated")
}

// PublicRooms lists joinable metadata for public rooms, newest first.
// Private rooms are filtered from every listing surface.
func (m *Manager) PublicRooms() []RoomSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publicRoomsLocked()
}

func (m *Manager) publicRoomsLocked() []RoomSummary {
	out := make([]RoomSummary, 0, m.reg.len())
	for _, room := range m.reg.all() {
		if room.Private {
			continue
		}
		out = append(out, summarize(room))
	}
	newestFirst(out)
	return out
}

func (m *Manager) broadcastRoomListLocked() {
	m.notifier.Broadcast(roomsUpdatedEvent{Type: EventRoomsUpdated, Rooms: m.publicRoomsLocked()})
}
