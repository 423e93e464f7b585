package domain

import (
	"errors"
	"time"
)

const MaxRoomNameLen = 30

var ErrRoomNameTooLong = errors.New("room name too long")

type RoomID string

type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
)

// HostBinding says whether the creating participant already has a live
// connection. A reserved room starts unbound; the first claiming connection
// binds it and receives the host flag.
type HostBinding struct {
	sid   SessionID
	bound bool
}

func BoundHost(sid SessionID) HostBinding { return HostBinding{sid: sid, bound: true} }
func UnboundHost() HostBinding            { return HostBinding{} }

// Room is a session container. Membership is kept in join order; the slice
// order is the tie-break for host succession. All mutation goes through the
// lifecycle manager, which holds the only lock.
type Room struct {
	ID         RoomID
	Name       string
	MaxPlayers int
	Status     RoomStatus
	CreatedAt  time.Time
	Private    bool
	Password   string
	InviteCode string

	// ActualHost is the connection currently recognized as host. Empty
	// during the reservation window.
	ActualHost SessionID

	players []*Participant
	byID    map[ParticipantID]*Participant
}

// NewRoom builds a room in waiting status with its first participant. Both
// creation paths converge here: a bound host gets the host flag immediately,
// an unbound one only once a connection claims the reservation.
func NewRoom(id RoomID, name string, maxPlayers int, private bool, password, inviteCode string, host *Participant, binding HostBinding) *Room {
	r := &Room{
		ID:         id,
		Name:       name,
		MaxPlayers: maxPlayers,
		Status:     StatusWaiting,
		CreatedAt:  time.Now(),
		Private:    private,
		Password:   password,
		InviteCode: inviteCode,
		players:    make([]*Participant, 0, maxPlayers),
		byID:       make(map[ParticipantID]*Participant),
	}
	if binding.bound {
		host.Session = binding.sid
		host.IsHost = true
		r.ActualHost = binding.sid
	}
	r.players = append(r.players, host)
	r.byID[host.ID] = host
	return r
}

func (r *Room) Len() int     { return len(r.players) }
func (r *Room) IsFull() bool { return len(r.players) >= r.MaxPlayers }

func (r *Room) Participant(id ParticipantID) (*Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Players returns the membership in join order. The slice is a copy; the
// elements are shared.
func (r *Room) Players() []*Participant {
	out := make([]*Participant, len(r.players))
	copy(out, r.players)
	return out
}

var ErrRoomAtCapacity = errors.New("room at capacity")

func (r *Room) AddParticipant(p *Participant) error {
	if r.IsFull() {
		return ErrRoomAtCapacity
	}
	r.players = append(r.players, p)
	r.byID[p.ID] = p
	return nil
}

func (r *Room) RemoveParticipant(id ParticipantID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	return true
}

// Eldest returns the earliest-joined remaining participant, the deterministic
// pick for host succession.
func (r *Room) Eldest() (*Participant, bool) {
	if len(r.players) == 0 {
		return nil, false
	}
	return r.players[0], true
}

// HostName resolves the display name of the current host, falling back to
// the first participant carrying the host flag.
func (r *Room) HostName() string {
	for _, p := range r.players {
		if p.Session == r.ActualHost && r.ActualHost != "" {
			return p.Name
		}
	}
	for _, p := range r.players {
		if p.IsHost {
			return p.Name
		}
	}
	return ""
}

// ClearMembers drops every participant and resets the room to a joinable
// state. Used by the administrative clear-room operation.
func (r *Room) ClearMembers() {
	r.players = r.players[:0]
	clear(r.byID)
	r.Status = StatusWaiting
	r.ActualHost = ""
}
