package lobby

import "errors"

// Admission and lifecycle failures. These are results, not faults: they are
// returned to the calling connection and never mutate shared state.
var (
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrRoomNotFound       = errors.New("room not found")
	ErrBadPassword        = errors.New("wrong room password")
	ErrBadInvite          = errors.New("wrong invite code")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrRoomFull           = errors.New("room full")
	ErrNotAuthorized      = errors.New("not authorized")

	// Administrative surface only.
	ErrPlayerNotFound = errors.New("player not in room")
)

// ErrorCode maps a lifecycle error to its wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameters):
		return "INVALID_PARAMS"
	case errors.Is(err, ErrRoomNotFound):
		return "ROOM_NOT_FOUND"
	case errors.Is(err, ErrBadPassword):
		return "BAD_PASSWORD"
	case errors.Is(err, ErrBadInvite):
		return "BAD_INVITE"
	case errors.Is(err, ErrGameAlreadyStarted):
		return "GAME_ALREADY_STARTED"
	case errors.Is(err, ErrRoomFull):
		return "ROOM_FULL"
	case errors.Is(err, ErrNotAuthorized):
		return "NOT_AUTHORIZED"
	case errors.Is(err, ErrPlayerNotFound):
		return "PLAYER_NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
