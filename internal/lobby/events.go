package lobby

import (
	"sort"
	"time"

	"github.com/nitegame/lobby/internal/domain"
)

// Server→client event types. Every payload below carries its type in the
// envelope so clients can dispatch on a single field.
const (
	EventHostVerified   = "host-verified"
	EventRoomJoined     = "room-joined"
	EventPlayerJoined   = "player-joined"
	EventPlayerLeft     = "player-left"
	EventPromotedToHost = "promoted-to-host"
	EventGameStarted    = "game-started"
	EventRoomsUpdated   = "rooms-updated"
	EventRoomKicked     = "room-kicked"
	EventKickedByAdmin  = "kicked-by-admin"
	EventPlayerKicked   = "player-kicked-by-admin"
	EventSystemMessage  = "system-message"
)

// PlayerView is the roster entry shared with clients.
type PlayerView struct {
	ID      domain.ParticipantID `json:"id"`
	Name    string               `json:"name"`
	Color   string               `json:"color"`
	IsHost  bool                 `json:"isHost"`
	IsReady bool                 `json:"isReady"`
}

// RoomSummary is one row of the room-list snapshot.
type RoomSummary struct {
	ID          domain.RoomID     `json:"id"`
	Name        string            `json:"name"`
	Players     int               `json:"players"`
	MaxPlayers  int               `json:"maxPlayers"`
	Status      domain.RoomStatus `json:"status"`
	HostName    string            `json:"hostName"`
	Private     bool              `json:"private"`
	Created     time.Time         `json:"created"`
	HasPassword bool              `json:"hasPassword"`
}

// RoomSnapshot is the full room view sent to a joining or claiming
// connection.
type RoomSnapshot struct {
	ID         domain.RoomID     `json:"roomId"`
	Name       string            `json:"name"`
	Players    []PlayerView      `json:"players"`
	MaxPlayers int               `json:"maxPlayers"`
	Status     domain.RoomStatus `json:"status"`
	HostName   string            `json:"hostName"`
	Private    bool              `json:"private"`
}

type hostVerifiedEvent struct {
	Type     string               `json:"type"`
	Success  bool                 `json:"success"`
	RoomID   domain.RoomID        `json:"roomId"`
	PlayerID domain.ParticipantID `json:"playerId"`
	Room     RoomSnapshot         `json:"room"`
}

type roomJoinedEvent struct {
	Type string `json:"type"`
	RoomSnapshot
	IsHost bool `json:"isHost"`
}

type playerJoinedEvent struct {
	Type       string       `json:"type"`
	NewPlayer  PlayerView   `json:"newPlayer"`
	Players    []PlayerView `json:"players"`
	Count      int          `json:"currentPlayerCount"`
	MaxPlayers int          `json:"maxPlayers"`
}

type playerLeftEvent struct {
	Type       string               `json:"type"`
	PlayerID   domain.ParticipantID `json:"playerId"`
	PlayerName string               `json:"playerName"`
}

type promotedEvent struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Message string        `json:"message"`
}

type gameStartedEvent struct {
	Type   string            `json:"type"`
	RoomID domain.RoomID     `json:"roomId"`
	Status domain.RoomStatus `json:"status"`
}

type roomsUpdatedEvent struct {
	Type  string        `json:"type"`
	Rooms []RoomSummary `json:"rooms"`
}

type noticeEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type playerKickedEvent struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
}

type systemMessageEvent struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

func playerViews(r *domain.Room) []PlayerView {
	players := r.Players()
	out := make([]PlayerView, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerView{
			ID:      p.ID,
			Name:    p.Name,
			Color:   p.Color,
			IsHost:  p.IsHost,
			IsReady: p.IsReady,
		})
	}
	return out
}

func summarize(r *domain.Room) RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Players:     r.Len(),
		MaxPlayers:  r.MaxPlayers,
		Status:      r.Status,
		HostName:    r.HostName(),
		Private:     r.Private,
		Created:     r.CreatedAt,
		HasPassword: r.Password != "",
	}
}

func snapshot(r *domain.Room) RoomSnapshot {
	return RoomSnapshot{
		ID:         r.ID,
		Name:       r.Name,
		Players:    playerViews(r),
		MaxPlayers: r.MaxPlayers,
		Status:     r.Status,
		HostName:   r.HostName(),
		Private:    r.Private,
	}
}

// newestFirst orders listings by creation time, most recent room on top.
func newestFirst(rooms []RoomSummary) {
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Created.After(rooms[j].Created)
	})
}
