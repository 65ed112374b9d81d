package rtc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/core"
	"github.com/dkeye/Caption/internal/protocol"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "rtc").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "rtc").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "rtc").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "rtc").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, cid core.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "rtc").Str("cid", string(cid)).Msg("readPump closing")
		cancel()
		// Disconnect cleanup runs through the same primitive as an
		// explicit leave for every joined room.
		ctl.Coord.Disconnect(cid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "rtc").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "rtc").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(cid, c, data)
		}
	}
}

// handleEvent dispatches one inbound frame. Anything that does not
// decode into its variant is dropped, the protocol is best-effort and
// never answers malformed input with an error event.
func (ctl *Controller) handleEvent(cid core.ConnID, c *wsConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Msg("bad json")
		return
	}

	switch env.Type {
	case protocol.EventJoin:
		var p protocol.Join
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("bad join payload")
			return
		}
		ctl.Coord.Join(cid, c, p)
	case protocol.EventLeave:
		var p protocol.Leave
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("bad leave payload")
			return
		}
		ctl.Coord.Leave(cid, p)
	case protocol.EventOffer, protocol.EventAnswer, protocol.EventICE:
		var p protocol.Signal
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Str("event", env.Type).Msg("bad signal payload")
			return
		}
		ctl.Relay.Signal(env.Type, cid, p)
	case protocol.EventChat:
		var p protocol.Chat
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("bad chat payload")
			return
		}
		ctl.Relay.Chat(cid, p)
	case protocol.EventCaption:
		var p protocol.Caption
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("bad caption payload")
			return
		}
		ctl.Relay.Caption(cid, p)
	case protocol.EventTyping:
		var p protocol.Typing
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("bad typing payload")
			return
		}
		ctl.Relay.Typing(cid, p)
	case protocol.EventPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "rtc").Str("type", env.Type).Msg("unknown event")
	}
}
