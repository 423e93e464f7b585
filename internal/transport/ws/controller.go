package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nitegame/lobby/internal/domain"
	"github.com/nitegame/lobby/internal/lobby"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	manager   *lobby.Manager
	hub       *Hub
	limiter   *RateLimiter
	readLimit int64
}

func NewController(manager *lobby.Manager, hub *Hub, readLimit int64) *Controller {
	return &Controller{
		manager:   manager,
		hub:       hub,
		limiter:   NewRateLimiter(10, time.Minute),
		readLimit: readLimit,
	}
}

// HandleSocket upgrades the request and binds the connection to the
// client-token session. Every fresh connection is offered to the claim
// protocol before any message is read, so a reserved host is verified
// without sending anything.
func (ctl *Controller) HandleSocket(ctx context.Context, c *gin.Context) {
	sid := domain.SessionID(c.GetString("client_token"))
	if sid == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade")
		return
	}
	if ctl.readLimit > 0 {
		sock.SetReadLimit(ctl.readLimit)
	}

	conn := newConn(sock)
	ctl.hub.register(sid, conn)
	log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("connection established")

	ctl.manager.Claim(sid)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, cancel, conn)
	go ctl.readPump(ctx, sid, conn)
}

func (ctl *Controller) writePump(ctx context.Context, cancel context.CancelFunc, c *conn) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid domain.SessionID, c *conn) {
	defer func() {
		log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("connection closed")
		if ctl.hub.unregister(sid, c) {
			ctl.manager.Disconnect(sid)
		}
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.ws.ReadMessage()
			if err != nil {
				return
			}
			ctl.dispatch(sid, c, data)
		}
	}
}
