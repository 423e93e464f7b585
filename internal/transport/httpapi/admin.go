package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nitegame/lobby/internal/domain"
)

func (d Deps) requireAdmin(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "admin authentication required"})
		return
	}
	if !d.Tokens.Verify(strings.TrimPrefix(authHeader, "Bearer ")) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "invalid admin token"})
		return
	}
	c.Next()
}

func (d Deps) adminLogin(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "password required"})
		return
	}
	token, err := d.Tokens.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "wrong password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (d Deps) adminRooms(c *gin.Context) {
	rooms := d.Manager.AdminRooms()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"rooms":      rooms,
		"totalRooms": len(rooms),
	})
}

func (d Deps) adminStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   d.Manager.Stats(),
		"rooms":   d.Manager.AllRooms(),
	})
}

func (d Deps) adminDeleteRoom(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	if err := d.Manager.DeleteRoom(id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "room deleted"})
}

func (d Deps) adminKickAll(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	kicked, err := d.Manager.ClearRoom(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("kicked %d players", kicked)})
}

func (d Deps) adminClearRoom(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	kicked, err := d.Manager.ClearRoom(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("room reset, %d players kicked", kicked)})
}

func (d Deps) adminKickPlayer(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	pid := domain.ParticipantID(c.Param("playerId"))
	name, err := d.Manager.KickPlayer(id, pid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("player %s kicked", name)})
}

func (d Deps) adminSetPrivacy(c *gin.Context) {
	var req struct {
		IsPrivate bool `json:"isPrivate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "bad request body"})
		return
	}
	id := domain.RoomID(c.Param("roomId"))
	if err := d.Manager.SetPrivacy(id, req.IsPrivate); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isPrivate": req.IsPrivate})
}

func (d Deps) adminSystemMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
		Color   string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "message required"})
		return
	}
	id := domain.RoomID(c.Param("roomId"))
	if err := d.Manager.SystemMessage(id, req.Message, req.Color); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "message sent"})
}
