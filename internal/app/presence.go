package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/core"
	"github.com/dkeye/Caption/internal/domain"
	"github.com/dkeye/Caption/internal/protocol"
)

// PresenceTracker builds and fans out join/leave notifications. Events
// are never echoed back to the connection that caused them.
type PresenceTracker struct {
	Registry *Registry
}

func NewPresenceTracker(reg *Registry) *PresenceTracker {
	return &PresenceTracker{Registry: reg}
}

func (t *PresenceTracker) AnnounceJoin(roomID domain.RoomID, from core.ConnID, p *domain.Participant) {
	f, err := protocol.Encode(protocol.PresenceJoin{
		Type:  protocol.EventPresenceJoin,
		Name:  p.Name,
		Email: p.Email,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode presence:join")
		return
	}
	t.Registry.Broadcast(roomID, from, f, false)
}

// AnnounceLeave tells the remaining occupants someone left. An empty
// name means the departure had no recorded participant, the event then
// carries no name at all.
func (t *PresenceTracker) AnnounceLeave(roomID domain.RoomID, from core.ConnID, name string) {
	f, err := protocol.Encode(protocol.PresenceLeave{
		Type: protocol.EventPresenceLeave,
		Name: name,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode presence:leave")
		return
	}
	t.Registry.Broadcast(roomID, from, f, false)
}
