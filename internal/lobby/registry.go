package lobby

import "github.com/nitegame/lobby/internal/domain"

// registry owns the id → Room mapping, the single source of truth for room
// existence. Not safe on its own: the manager's lock covers every call.
type registry struct {
	rooms map[domain.RoomID]*domain.Room

	// newCode is swapped in tests to force collisions.
	newCode func() domain.RoomID
}

func newRegistry() *registry {
	return &registry{
		rooms:   make(map[domain.RoomID]*domain.Room),
		newCode: NewRoomCode,
	}
}

// allocate draws codes until one is unused. A collision is retried, never
// allowed to overwrite an existing room.
func (r *registry) allocate() domain.RoomID {
	for {
		id := r.newCode()
		if _, taken := r.rooms[id]; !taken {
			return id
		}
	}
}

func (r *registry) put(room *domain.Room) { r.rooms[room.ID] = room }

func (r *registry) get(id domain.RoomID) (*domain.Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

func (r *registry) delete(id domain.RoomID) { delete(r.rooms, id) }

func (r *registry) len() int { return len(r.rooms) }

func (r *registry) all() []*domain.Room {
	out := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out
}
