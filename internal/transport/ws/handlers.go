package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/domain"
	"github.com/nitegame/lobby/internal/lobby"
)

// Client→server operations. Envelope carries the type; each op has its own
// payload struct.
func (ctl *Controller) dispatch(sid domain.SessionID, c *conn, data []byte) {
	// A faulting handler must not take down the pump, let alone the
	// process. State stays as the failed step left it.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "ws").Str("sid", string(sid)).Any("panic", r).Msg("handler panic recovered")
		}
	}()

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "ws").Msg("bad json")
		return
	}

	switch env.Type {
	case "createRoom":
		ctl.handleCreateRoom(sid, c, data)
	case "joinRoom":
		ctl.handleJoinRoom(sid, c, data)
	case "startGame":
		ctl.handleStartGame(sid, c, data)
	case "leaveRoom":
		ctl.handleLeaveRoom(sid, c)
	case "ping":
		ctl.sendJSON(c, map[string]string{"type": "pong"})
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown operation")
	}
}

func (ctl *Controller) sendJSON(c *conn, v any) {
	if b, ok := marshal(v); ok {
		_ = c.TrySend(b)
	}
}

type opError struct {
	Type    string `json:"type"`
	Op      string `json:"op"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ctl *Controller) sendError(c *conn, op string, err error) {
	ctl.sendJSON(c, opError{Type: "room-error", Op: op, Code: lobby.ErrorCode(err), Message: err.Error()})
}

func (ctl *Controller) allow(sid domain.SessionID, c *conn, op string) bool {
	if ctl.limiter.Allow(sid) {
		return true
	}
	ctl.sendJSON(c, opError{Type: "room-error", Op: op, Code: "RATE_LIMITED", Message: "slow down"})
	return false
}

func (ctl *Controller) handleCreateRoom(sid domain.SessionID, c *conn, data []byte) {
	if !ctl.allow(sid, c, "createRoom") {
		return
	}
	var p struct {
		Type       string `json:"type"`
		PlayerName string `json:"playerName"`
		RoomName   string `json:"roomName"`
		MaxPlayers int    `json:"maxPlayers"`
		IsPrivate  bool   `json:"isPrivate"`
		Password   string `json:"password"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "createRoom", lobby.ErrInvalidParameters)
		return
	}

	res, err := ctl.manager.Create(sid, lobby.CreateParams{
		PlayerName: p.PlayerName,
		RoomName:   p.RoomName,
		MaxPlayers: p.MaxPlayers,
		Private:    p.IsPrivate,
		Password:   p.Password,
	})
	if err != nil {
		ctl.sendError(c, "createRoom", err)
		return
	}
	ctl.sendJSON(c, struct {
		Type       string               `json:"type"`
		Success    bool                 `json:"success"`
		RoomID     domain.RoomID        `json:"roomId"`
		PlayerID   domain.ParticipantID `json:"playerId"`
		Color      string               `json:"color"`
		IsHost     bool                 `json:"isHost"`
		InviteCode string               `json:"inviteCode"`
	}{"room-created", true, res.RoomID, res.PlayerID, res.Color, true, res.InviteCode})
}

func (ctl *Controller) handleJoinRoom(sid domain.SessionID, c *conn, data []byte) {
	if !ctl.allow(sid, c, "joinRoom") {
		return
	}
	var p struct {
		Type       string `json:"type"`
		RoomID     string `json:"roomId"`
		PlayerName string `json:"playerName"`
		Password   string `json:"password"`
		InviteCode string `json:"inviteCode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "joinRoom", lobby.ErrInvalidParameters)
		return
	}

	// On success the manager emits the room-joined confirmation and the
	// room-wide player-joined event itself.
	if _, err := ctl.manager.Join(sid, lobby.JoinParams{
		RoomID:     domain.RoomID(p.RoomID),
		PlayerName: p.PlayerName,
		Password:   p.Password,
		InviteCode: p.InviteCode,
	}); err != nil {
		ctl.sendError(c, "joinRoom", err)
	}
}

// handleLeaveRoom removes the participant but keeps the connection open, so
// the client can join or create another room on the same session.
func (ctl *Controller) handleLeaveRoom(sid domain.SessionID, c *conn) {
	ctl.manager.Disconnect(sid)
	ctl.sendJSON(c, map[string]string{"type": "room-left"})
}

func (ctl *Controller) handleStartGame(sid domain.SessionID, c *conn, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, "startGame", lobby.ErrInvalidParameters)
		return
	}
	if err := ctl.manager.StartGame(sid, domain.RoomID(p.RoomID)); err != nil {
		ctl.sendError(c, "startGame", err)
	}
}
