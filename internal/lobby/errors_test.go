package lobby

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	cases := map[string]error{
		"INVALID_PARAMS":       ErrInvalidParameters,
		"ROOM_NOT_FOUND":       ErrRoomNotFound,
		"BAD_PASSWORD":         ErrBadPassword,
		"BAD_INVITE":           ErrBadInvite,
		"GAME_ALREADY_STARTED": ErrGameAlreadyStarted,
		"ROOM_FULL":            ErrRoomFull,
		"NOT_AUTHORIZED":       ErrNotAuthorized,
		"PLAYER_NOT_FOUND":     ErrPlayerNotFound,
	}
	for code, err := range cases {
		assert.Equal(t, code, ErrorCode(err))
	}

	// Wrapped errors keep their code.
	wrapped := fmt.Errorf("%w: details", ErrInvalidParameters)
	assert.Equal(t, "INVALID_PARAMS", ErrorCode(wrapped))

	assert.Equal(t, "INTERNAL", ErrorCode(errors.New("boom")))
}
