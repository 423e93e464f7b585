package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitegame/lobby/internal/domain"
)

func seedRoom(t *testing.T, m *Manager, host domain.SessionID, others ...domain.SessionID) domain.RoomID {
	t.Helper()
	res, err := m.Create(host, CreateParams{PlayerName: "Host", RoomName: "seeded", MaxPlayers: 8})
	require.NoError(t, err)
	for i, sid := range others {
		_, err := m.Join(sid, JoinParams{RoomID: res.RoomID, PlayerName: "Guest" + string(rune('A'+i))})
		require.NoError(t, err)
	}
	return res.RoomID
}

func TestStats(t *testing.T) {
	m, _ := newTestManager()

	seedRoom(t, m, "s1", "s2")
	full, err := m.Create("s3", CreateParams{PlayerName: "Host", RoomName: "duo", MaxPlayers: 2})
	require.NoError(t, err)
	_, err = m.Join("s4", JoinParams{RoomID: full.RoomID, PlayerName: "Guest"})
	require.NoError(t, err)
	require.NoError(t, m.StartGame("s3", full.RoomID))
	_, err = m.Create("s5", CreateParams{PlayerName: "Host", RoomName: "hidden", Private: true, Password: "pw"})
	require.NoError(t, err)
	_, err = m.Reserve(CreateParams{PlayerName: "Host", RoomName: "reserved"})
	require.NoError(t, err)

	s := m.Stats()
	assert.Equal(t, 4, s.TotalRooms)
	assert.Equal(t, 6, s.TotalPlayers)
	assert.Equal(t, 3, s.WaitingRooms)
	assert.Equal(t, 1, s.PlayingRooms)
	assert.Equal(t, 1, s.FullRooms)
	assert.Equal(t, 1, s.PrivateRooms)
	assert.Equal(t, 1, s.PendingRooms)
}

func TestAdminRoomsIncludePrivateAndRoster(t *testing.T) {
	m, _ := newTestManager()

	seedRoom(t, m, "s1", "s2")
	_, err := m.Create("s3", CreateParams{PlayerName: "Host", RoomName: "hidden", Private: true, Password: "pw"})
	require.NoError(t, err)

	rooms := m.AdminRooms()
	require.Len(t, rooms, 2)
	names := map[string]int{}
	for _, r := range rooms {
		names[r.Name] = len(r.Roster)
	}
	assert.Equal(t, 2, names["seeded"])
	assert.Equal(t, 1, names["hidden"])
}

func TestDeleteRoom(t *testing.T) {
	m, fn := newTestManager()
	id := seedRoom(t, m, "s1", "s2")

	require.NoError(t, m.DeleteRoom(id))

	_, ok := m.reg.get(id)
	assert.False(t, ok)
	assert.ElementsMatch(t, []domain.SessionID{"s1", "s2"}, fn.closed)

	var notice *noticeEvent
	for _, ev := range fn.roomEvents[id] {
		if e, ok := ev.(noticeEvent); ok {
			notice = &e
		}
	}
	require.NotNil(t, notice)
	assert.Equal(t, EventRoomKicked, notice.Type)

	// Transport teardown re-enters Disconnect; already unbound, so no-op.
	closed := len(fn.closed)
	m.Disconnect("s1")
	m.Disconnect("s2")
	assert.Equal(t, closed, len(fn.closed))

	assert.ErrorIs(t, m.DeleteRoom(id), ErrRoomNotFound)
}

func TestClearRoomKeepsRoomJoinable(t *testing.T) {
	m, fn := newTestManager()
	id := seedRoom(t, m, "s1", "s2", "s3")

	kicked, err := m.ClearRoom(id)
	require.NoError(t, err)
	assert.Equal(t, 3, kicked)
	assert.ElementsMatch(t, []domain.SessionID{"s1", "s2", "s3"}, fn.closed)

	room, ok := m.reg.get(id)
	require.True(t, ok)
	assert.Equal(t, 0, room.Len())
	assert.Equal(t, domain.StatusWaiting, room.Status)
	assert.Empty(t, room.ActualHost)

	_, err = m.Join("s4", JoinParams{RoomID: id, PlayerName: "Fresh"})
	assert.NoError(t, err)

	_, err = m.ClearRoom("ZZZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestKickPlayer(t *testing.T) {
	m, fn := newTestManager()

	res, err := m.Create("s-host", CreateParams{PlayerName: "Host", RoomName: "seeded", MaxPlayers: 8})
	require.NoError(t, err)
	guest, err := m.Join("s-guest", JoinParams{RoomID: res.RoomID, PlayerName: "Guest"})
	require.NoError(t, err)
	guestID := guest.Players[1].ID

	name, err := m.KickPlayer(res.RoomID, guestID)
	require.NoError(t, err)
	assert.Equal(t, "Guest", name)
	assert.Contains(t, fn.closed, domain.SessionID("s-guest"))

	require.NotEmpty(t, fn.sessionEvents["s-guest"])
	notice, ok := fn.sessionEvents["s-guest"][len(fn.sessionEvents["s-guest"])-1].(noticeEvent)
	require.True(t, ok)
	assert.Equal(t, EventKickedByAdmin, notice.Type)

	room, ok := m.reg.get(res.RoomID)
	require.True(t, ok)
	assert.Equal(t, 1, room.Len())
	assert.Equal(t, domain.SessionID("s-host"), room.ActualHost)

	_, err = m.KickPlayer(res.RoomID, "player_missing")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = m.KickPlayer("ZZZZZZ", guestID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestKickHostMigratesHost(t *testing.T) {
	m, fn := newTestManager()

	res, err := m.Create("s-host", CreateParams{PlayerName: "Host", RoomName: "seeded", MaxPlayers: 8})
	require.NoError(t, err)
	_, err = m.Join("s-guest", JoinParams{RoomID: res.RoomID, PlayerName: "Guest"})
	require.NoError(t, err)

	_, err = m.KickPlayer(res.RoomID, res.PlayerID)
	require.NoError(t, err)

	room, ok := m.reg.get(res.RoomID)
	require.True(t, ok)
	assert.Equal(t, domain.SessionID("s-guest"), room.ActualHost)
	requireOneHost(t, m, res.RoomID)

	require.NotEmpty(t, fn.sessionEvents["s-guest"])
	promoted, ok := fn.sessionEvents["s-guest"][len(fn.sessionEvents["s-guest"])-1].(promotedEvent)
	require.True(t, ok)
	assert.Equal(t, EventPromotedToHost, promoted.Type)
}

func TestSetPrivacy(t *testing.T) {
	m, _ := newTestManager()
	id := seedRoom(t, m, "s1")

	require.NoError(t, m.SetPrivacy(id, true))
	assert.Empty(t, m.PublicRooms())
	require.NoError(t, m.SetPrivacy(id, false))
	assert.Len(t, m.PublicRooms(), 1)

	assert.ErrorIs(t, m.SetPrivacy("ZZZZZZ", true), ErrRoomNotFound)
}

func TestSetPrivacyRejectedWhilePlayingOrFull(t *testing.T) {
	m, _ := newTestManager()

	playing, err := m.Create("s1", CreateParams{PlayerName: "Host", RoomName: "live"})
	require.NoError(t, err)
	require.NoError(t, m.StartGame("s1", playing.RoomID))
	assert.ErrorIs(t, m.SetPrivacy(playing.RoomID, true), ErrInvalidParameters)

	full, err := m.Create("s2", CreateParams{PlayerName: "Host", RoomName: "duo", MaxPlayers: 2})
	require.NoError(t, err)
	_, err = m.Join("s3", JoinParams{RoomID: full.RoomID, PlayerName: "Guest"})
	require.NoError(t, err)
	assert.ErrorIs(t, m.SetPrivacy(full.RoomID, true), ErrInvalidParameters)

	// Unlisting is always allowed the other way.
	assert.NoError(t, m.SetPrivacy(full.RoomID, false))
}

func TestSystemMessage(t *testing.T) {
	m, fn := newTestManager()
	id := seedRoom(t, m, "s1")

	require.NoError(t, m.SystemMessage(id, "maintenance in 5 minutes", ""))

	var msg *systemMessageEvent
	for _, ev := range fn.roomEvents[id] {
		if e, ok := ev.(systemMessageEvent); ok {
			msg = &e
		}
	}
	require.NotNil(t, msg)
	assert.Equal(t, "[server] maintenance in 5 minutes", msg.Text)
	assert.Equal(t, "red", msg.Color)

	require.NoError(t, m.SystemMessage(id, "hello", "blue"))
	last := fn.roomEvents[id][len(fn.roomEvents[id])-1].(systemMessageEvent)
	assert.Equal(t, "blue", last.Color)

	assert.ErrorIs(t, m.SystemMessage("ZZZZZZ", "x", ""), ErrRoomNotFound)
}
