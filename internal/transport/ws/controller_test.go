package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitegame/lobby/internal/lobby"
)

func startSocketServer(t *testing.T) (*httptest.Server, *lobby.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	manager := lobby.NewManager(hub, lobby.Options{})
	ctl := NewController(manager, hub, 32768)

	r := gin.New()
	r.GET("/api/ws", func(c *gin.Context) {
		c.Set("client_token", c.Query("sid"))
		ctl.HandleSocket(context.Background(), c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, manager
}

func dialSocket(t *testing.T, srv *httptest.Server, sid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?sid=" + sid
	sock, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sock.Close() })
	return sock
}

// waitFor reads frames until one carries the wanted type, skipping the
// broadcasts interleaved by other activity.
func waitFor(t *testing.T, sock *websocket.Conn, eventType string) map[string]any {
	t.Helper()
	require.NoError(t, sock.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := sock.ReadMessage()
		require.NoError(t, err, "waiting for %q", eventType)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		if m["type"] == eventType {
			return m
		}
	}
}

func send(t *testing.T, sock *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, sock.WriteJSON(v))
}

func TestClaimOnConnect(t *testing.T) {
	srv, manager := startSocketServer(t)

	res, err := manager.Reserve(lobby.CreateParams{PlayerName: "Alice", RoomName: "reserved"})
	require.NoError(t, err)

	sock := dialSocket(t, srv, "alice")
	verified := waitFor(t, sock, "host-verified")
	assert.Equal(t, true, verified["success"])
	assert.Equal(t, string(res.RoomID), verified["roomId"])
	assert.Equal(t, string(res.PlayerID), verified["playerId"])
}

func TestCreateJoinAndErrorFlow(t *testing.T) {
	srv, _ := startSocketServer(t)

	host := dialSocket(t, srv, "alice")
	send(t, host, gin.H{"type": "createRoom", "playerName": "Alice", "roomName": "game night"})
	created := waitFor(t, host, "room-created")
	roomID, ok := created["roomId"].(string)
	require.True(t, ok)
	assert.Equal(t, true, created["isHost"])
	assert.NotEmpty(t, created["inviteCode"])

	guest := dialSocket(t, srv, "bob")
	send(t, guest, gin.H{"type": "joinRoom", "roomId": "ZZZZZZ", "playerName": "Bob"})
	fail := waitFor(t, guest, "room-error")
	assert.Equal(t, "ROOM_NOT_FOUND", fail["code"])
	assert.Equal(t, "joinRoom", fail["op"])

	send(t, guest, gin.H{"type": "joinRoom", "roomId": roomID, "playerName": "Bob"})
	joined := waitFor(t, guest, "room-joined")
	assert.Equal(t, roomID, joined["roomId"])

	notified := waitFor(t, host, "player-joined")
	newPlayer, ok := notified["newPlayer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Bob", newPlayer["name"])

	send(t, guest, gin.H{"type": "startGame", "roomId": roomID})
	denied := waitFor(t, guest, "room-error")
	assert.Equal(t, "NOT_AUTHORIZED", denied["code"])

	send(t, host, gin.H{"type": "startGame", "roomId": roomID})
	started := waitFor(t, guest, "game-started")
	assert.Equal(t, "playing", started["status"])
}

func TestDisconnectPromotesNextHost(t *testing.T) {
	srv, _ := startSocketServer(t)

	host := dialSocket(t, srv, "alice")
	send(t, host, gin.H{"type": "createRoom", "playerName": "Alice", "roomName": "game night"})
	created := waitFor(t, host, "room-created")
	roomID := created["roomId"].(string)

	guest := dialSocket(t, srv, "bob")
	send(t, guest, gin.H{"type": "joinRoom", "roomId": roomID, "playerName": "Bob"})
	waitFor(t, guest, "room-joined")

	require.NoError(t, host.Close())

	left := waitFor(t, guest, "player-left")
	assert.Equal(t, "Alice", left["playerName"])
	promoted := waitFor(t, guest, "promoted-to-host")
	assert.Equal(t, roomID, promoted["roomId"])
}

func TestLeaveRoomKeepsConnection(t *testing.T) {
	srv, _ := startSocketServer(t)

	host := dialSocket(t, srv, "alice")
	send(t, host, gin.H{"type": "createRoom", "playerName": "Alice", "roomName": "game night"})
	created := waitFor(t, host, "room-created")
	roomID := created["roomId"].(string)

	guest := dialSocket(t, srv, "bob")
	send(t, guest, gin.H{"type": "joinRoom", "roomId": roomID, "playerName": "Bob"})
	waitFor(t, guest, "room-joined")

	send(t, guest, gin.H{"type": "leaveRoom"})
	waitFor(t, guest, "room-left")
	left := waitFor(t, host, "player-left")
	assert.Equal(t, "Bob", left["playerName"])

	// Same session can come back in.
	send(t, guest, gin.H{"type": "joinRoom", "roomId": roomID, "playerName": "Bob"})
	waitFor(t, guest, "room-joined")
}

func TestPingPong(t *testing.T) {
	srv, _ := startSocketServer(t)

	sock := dialSocket(t, srv, "alice")
	send(t, sock, gin.H{"type": "ping"})
	waitFor(t, sock, "pong")
}
