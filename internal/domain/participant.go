// Package domain contains the lobby entities. No transport or locking here;
// the lifecycle manager serializes every mutation.
package domain

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const MaxParticipantNameLen = 20

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

type (
	ParticipantID string

	// SessionID identifies one live real-time connection. Issued by the
	// transport (client-token cookie), opaque to the domain.
	SessionID string
)

// Participant is one occupant's record within a Room. Session stays empty
// while the room is reserved but no connection has claimed host yet.
type Participant struct {
	ID       ParticipantID `json:"id"`
	Name     string        `json:"name"`
	Session  SessionID     `json:"-"`
	Color    string        `json:"color"`
	IsHost   bool          `json:"isHost"`
	IsReady  bool          `json:"isReady"`
	JoinedAt time.Time     `json:"joinedAt"`
}

// NewParticipant validates the display name and assigns an id and color.
func NewParticipant(name string) (*Participant, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxParticipantNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{
		ID:       ParticipantID("player_" + uuid.NewString()),
		Name:     name,
		Color:    randomColor(),
		JoinedAt: time.Now(),
	}, nil
}

// Presentation-only palette, assignment carries no meaning.
var colors = [...]string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
}

func randomColor() string {
	return colors[rand.Intn(len(colors))]
}
