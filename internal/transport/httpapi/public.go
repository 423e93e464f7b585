package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nitegame/lobby/internal/lobby"
)

const serverVersion = "2.0.0"

var startedAt = time.Now()

func httpStatus(err error) int {
	switch {
	case errors.Is(err, lobby.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, lobby.ErrRoomNotFound), errors.Is(err, lobby.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrNotAuthorized):
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{
		"success": false,
		"code":    lobby.ErrorCode(err),
		"message": err.Error(),
	})
}

func (d Deps) serverStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "server running",
		"timestamp": time.Now().UnixMilli(),
		"version":   serverVersion,
		"uptime":    time.Since(startedAt).Seconds(),
	})
}

func (d Deps) versionCheck(c *gin.Context) {
	clientVersion := c.GetHeader("Client-Version")
	if clientVersion == serverVersion {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": serverVersion,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "outdated",
		"clientVersion": clientVersion,
		"serverVersion": serverVersion,
		"message":       "version mismatch, update the client or refresh",
	})
}

// listRooms serves the public listing. Private rooms stay out of it, same
// as they stay out of the real-time snapshot.
func (d Deps) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rooms":   d.Manager.PublicRooms(),
	})
}

type createRoomRequest struct {
	PlayerName string `json:"playerName" binding:"required,max=20"`
	MaxPlayers int    `json:"maxPlayers"`
	RoomName   string `json:"roomName" binding:"required,max=30"`
	IsPrivate  bool   `json:"isPrivate"`
	Password   string `json:"password"`
}

// createRoom is the out-of-band reservation entry point: a caller gets a
// room identifier before any real-time connection exists. The first
// websocket connection afterwards claims host status.
func (d Deps) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, lobby.ErrInvalidParameters)
		return
	}

	res, err := d.Manager.Reserve(lobby.CreateParams{
		PlayerName: req.PlayerName,
		RoomName:   req.RoomName,
		MaxPlayers: req.MaxPlayers,
		Private:    req.IsPrivate,
		Password:   req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"roomId":   res.RoomID,
		"playerId": res.PlayerID,
		"color":    res.Color,
		"isHost":   true,
	})
}
