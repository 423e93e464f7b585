package lobby

import (
	"crypto/rand"

	"github.com/nitegame/lobby/internal/domain"
)

const (
	roomCodeLen   = 6
	inviteCodeLen = 8

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewRoomCode returns a short, human-typeable, upper-cased room code.
// Uniqueness is the registry's job, not the generator's.
func NewRoomCode() domain.RoomID {
	return domain.RoomID(newCode(roomCodeLen))
}

// NewInviteCode returns a code in the same alphabet, a bit longer.
func NewInviteCode() string {
	return newCode(inviteCodeLen)
}

func newCode(n int) string {
	b := make([]byte, n)
	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
