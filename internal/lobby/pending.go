package lobby

import "github.com/nitegame/lobby/internal/domain"

// pendingTable bridges an out-of-band room reservation to the connection
// that will claim host status for it. Entries are short-lived: consumed on
// claim, or swept with their room. Covered by the manager's lock.
type pendingTable struct {
	byRoom map[domain.RoomID]domain.ParticipantID
}

func newPendingTable() *pendingTable {
	return &pendingTable{byRoom: make(map[domain.RoomID]domain.ParticipantID)}
}

func (t *pendingTable) put(roomID domain.RoomID, pid domain.ParticipantID) {
	t.byRoom[roomID] = pid
}

func (t *pendingTable) delete(roomID domain.RoomID) { delete(t.byRoom, roomID) }

func (t *pendingTable) has(roomID domain.RoomID) bool {
	_, ok := t.byRoom[roomID]
	return ok
}

func (t *pendingTable) len() int { return len(t.byRoom) }

// each visits reservations until fn returns true.
func (t *pendingTable) each(fn func(roomID domain.RoomID, pid domain.ParticipantID) bool) {
	for roomID, pid := range t.byRoom {
		if fn(roomID, pid) {
			return
		}
	}
}
