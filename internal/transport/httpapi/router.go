// Package httpapi is the request-style surface: the reservation entry
// point, the public room listing, and the administrative API.
package httpapi

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/admin"
	"github.com/nitegame/lobby/internal/config"
	"github.com/nitegame/lobby/internal/lobby"
	"github.com/nitegame/lobby/internal/transport/ws"
)

type Deps struct {
	Manager *lobby.Manager
	Tokens  *admin.TokenService
	Socket  *ws.Controller
}

// ClientTokenMiddleware gives every browser a stable token cookie; it
// doubles as the real-time session identifier.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("LobbySessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "httpapi").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")
	api.GET("/server-status", deps.serverStatus)
	api.GET("/version-check", deps.versionCheck)
	api.GET("/rooms", deps.listRooms)
	api.POST("/create-room", deps.createRoom)

	api.GET("/ws", func(c *gin.Context) {
		deps.Socket.HandleSocket(ctx, c)
	})

	adm := api.Group("/admin")
	adm.POST("/login", deps.adminLogin)
	authed := adm.Group("", deps.requireAdmin)
	authed.GET("/rooms", deps.adminRooms)
	authed.GET("/stats", deps.adminStats)
	authed.DELETE("/rooms/:roomId", deps.adminDeleteRoom)
	authed.POST("/rooms/:roomId/kick-all", deps.adminKickAll)
	authed.POST("/rooms/:roomId/clear-room", deps.adminClearRoom)
	authed.DELETE("/rooms/:roomId/players/:playerId", deps.adminKickPlayer)
	authed.PATCH("/rooms/:roomId/privacy", deps.adminSetPrivacy)
	authed.POST("/rooms/:roomId/system-message", deps.adminSystemMessage)

	return r
}
