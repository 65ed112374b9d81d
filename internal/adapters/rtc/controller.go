package rtc

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/app"
	"github.com/dkeye/Caption/internal/config"
	"github.com/dkeye/Caption/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the WebSocket side of the signaling protocol: it
// upgrades connections, assigns each one a fresh connection id and runs
// the read/write pumps. Membership and routing live in the app layer.
type Controller struct {
	Coord *app.Coordinator
	Relay *app.Relay

	readLimit  int64
	pingPeriod time.Duration
}

func NewController(coord *app.Coordinator, relay *app.Relay, cfg *config.Config) *Controller {
	return &Controller{
		Coord:      coord,
		Relay:      relay,
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleRTC upgrades the request and binds the socket to a new
// connection identity. A reconnecting client is always a new identity,
// there is no resume.
func (ctl *Controller) HandleRTC(ctx context.Context, c *gin.Context) {
	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "rtc").Str("cid", string(cid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "rtc").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cid, conn)
}
