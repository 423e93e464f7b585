package lobby

import "github.com/nitegame/lobby/internal/domain"

// Notifier is the fan-out side of the lobby, implemented by the websocket
// hub. Delivery is fire-and-forget: implementations must not block, retry,
// or report failure back to the manager. A recipient that misses an event
// is on its way out and its own disconnect will clean up after it.
type Notifier interface {
	// JoinGroup / LeaveGroup maintain the room's broadcast group.
	JoinGroup(roomID domain.RoomID, sid domain.SessionID)
	LeaveGroup(roomID domain.RoomID, sid domain.SessionID)

	ToSession(sid domain.SessionID, v any)
	ToRoom(roomID domain.RoomID, v any)
	Broadcast(v any)

	// Disconnect force-closes a connection. Used by administrative kicks;
	// the transport's own teardown will invoke the disconnect handler.
	Disconnect(sid domain.SessionID)
}
