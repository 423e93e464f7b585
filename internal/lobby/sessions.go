package lobby

import "github.com/nitegame/lobby/internal/domain"

// sessionEntry is the back-reference from a live connection to the
// participant it represents. It must never outlive the room it points at;
// the disconnect handler clears it unconditionally.
type sessionEntry struct {
	RoomID        domain.RoomID
	ParticipantID domain.ParticipantID
}

// sessionDirectory maps connections to participants. Covered by the
// manager's lock, like the registry.
type sessionDirectory struct {
	bySession map[domain.SessionID]sessionEntry
}

func newSessionDirectory() *sessionDirectory {
	return &sessionDirectory{bySession: make(map[domain.SessionID]sessionEntry)}
}

func (d *sessionDirectory) bind(sid domain.SessionID, roomID domain.RoomID, pid domain.ParticipantID) {
	d.bySession[sid] = sessionEntry{RoomID: roomID, ParticipantID: pid}
}

func (d *sessionDirectory) lookup(sid domain.SessionID) (sessionEntry, bool) {
	e, ok := d.bySession[sid]
	return e, ok
}

func (d *sessionDirectory) unbind(sid domain.SessionID) { delete(d.bySession, sid) }
