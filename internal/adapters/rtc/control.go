package rtc

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/protocol"
)

func (ctl *Controller) handlePing(c *wsConn) {
	f, err := protocol.Encode(protocol.Pong{Type: protocol.EventPong})
	if err != nil {
		log.Error().Err(err).Str("module", "rtc").Msg("encode pong")
		return
	}
	_ = c.TrySend(f)
}
