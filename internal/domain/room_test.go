package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParticipant(t *testing.T, name string) *Participant {
	t.Helper()
	p, err := NewParticipant(name)
	require.NoError(t, err)
	return p
}

func TestNewParticipantValidation(t *testing.T) {
	_, err := NewParticipant("")
	assert.ErrorIs(t, err, ErrNameEmpty)

	_, err = NewParticipant("abcdefghijklmnopqrstu")
	assert.ErrorIs(t, err, ErrNameTooLong)

	p, err := NewParticipant("Alice")
	require.NoError(t, err)
	assert.True(t, len(p.ID) > len("player_"))
	assert.NotEmpty(t, p.Color)
	assert.False(t, p.IsHost)
	assert.False(t, p.IsReady)
}

func TestNewRoomBoundHost(t *testing.T) {
	host := mustParticipant(t, "Alice")
	r := NewRoom("ABC123", "table", 4, false, "", "INVITE12", host, BoundHost("sess-1"))

	assert.Equal(t, StatusWaiting, r.Status)
	assert.Equal(t, SessionID("sess-1"), r.ActualHost)
	assert.True(t, host.IsHost)
	assert.Equal(t, SessionID("sess-1"), host.Session)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "Alice", r.HostName())
}

func TestNewRoomUnboundHost(t *testing.T) {
	host := mustParticipant(t, "Alice")
	r := NewRoom("ABC123", "table", 4, false, "", "", host, UnboundHost())

	assert.Empty(t, r.ActualHost)
	assert.False(t, host.IsHost)
	assert.Empty(t, host.Session)
	// Still listed as a member awaiting its connection.
	assert.Equal(t, 1, r.Len())
}

func TestAddParticipantCapacity(t *testing.T) {
	r := NewRoom("ABC123", "duo", 2, false, "", "", mustParticipant(t, "Alice"), BoundHost("s1"))

	require.NoError(t, r.AddParticipant(mustParticipant(t, "Bob")))
	assert.True(t, r.IsFull())
	assert.ErrorIs(t, r.AddParticipant(mustParticipant(t, "Carol")), ErrRoomAtCapacity)
	assert.Equal(t, 2, r.Len())
}

func TestRemoveParticipantKeepsJoinOrder(t *testing.T) {
	alice := mustParticipant(t, "Alice")
	bob := mustParticipant(t, "Bob")
	carol := mustParticipant(t, "Carol")

	r := NewRoom("ABC123", "table", 4, false, "", "", alice, BoundHost("s1"))
	require.NoError(t, r.AddParticipant(bob))
	require.NoError(t, r.AddParticipant(carol))

	assert.True(t, r.RemoveParticipant(alice.ID))
	assert.False(t, r.RemoveParticipant(alice.ID))

	eldest, ok := r.Eldest()
	require.True(t, ok)
	assert.Equal(t, bob.ID, eldest.ID)

	players := r.Players()
	require.Len(t, players, 2)
	assert.Equal(t, bob.ID, players[0].ID)
	assert.Equal(t, carol.ID, players[1].ID)
}

func TestEldestEmptyRoom(t *testing.T) {
	r := NewRoom("ABC123", "table", 4, false, "", "", mustParticipant(t, "Alice"), BoundHost("s1"))
	r.ClearMembers()

	_, ok := r.Eldest()
	assert.False(t, ok)
}

func TestHostNameFallsBackToHostFlag(t *testing.T) {
	alice := mustParticipant(t, "Alice")
	r := NewRoom("ABC123", "table", 4, false, "", "", alice, BoundHost("s1"))

	// Host connection gone but the flag survives until migration runs.
	r.ActualHost = ""
	assert.Equal(t, "Alice", r.HostName())

	alice.IsHost = false
	assert.Empty(t, r.HostName())
}

func TestClearMembersResetsRoom(t *testing.T) {
	r := NewRoom("ABC123", "table", 4, false, "", "", mustParticipant(t, "Alice"), BoundHost("s1"))
	require.NoError(t, r.AddParticipant(mustParticipant(t, "Bob")))
	r.Status = StatusPlaying

	r.ClearMembers()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, StatusWaiting, r.Status)
	assert.Empty(t, r.ActualHost)
	assert.False(t, r.IsFull())

	require.NoError(t, r.AddParticipant(mustParticipant(t, "Carol")))
	assert.Equal(t, 1, r.Len())
}
