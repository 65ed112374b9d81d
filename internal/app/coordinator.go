package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/core"
	"github.com/dkeye/Caption/internal/domain"
	"github.com/dkeye/Caption/internal/protocol"
)

// Coordinator drives the per-connection membership lifecycle. All three
// paths (join, leave, disconnect) mutate state only through the Registry
// primitives, so explicit leave and transport disconnect cannot diverge.
type Coordinator struct {
	Registry *Registry
	Presence *PresenceTracker
}

func NewCoordinator(reg *Registry, presence *PresenceTracker) *Coordinator {
	return &Coordinator{Registry: reg, Presence: presence}
}

// Join attaches a connection to a room, announces it to the current
// occupants and greets the joiner with the room snapshot. A missing
// room id drops the message, the relay protocol never answers with an
// error.
func (c *Coordinator) Join(cid core.ConnID, conn core.SignalConnection, msg protocol.Join) {
	if msg.RoomID == "" {
		return
	}
	roomID := domain.RoomID(msg.RoomID)
	p := domain.NewParticipant(msg.Name, msg.Email, time.Now())
	c.Registry.AddParticipant(roomID, cid, p, conn)
	c.Presence.AnnounceJoin(roomID, cid, p)

	f, err := protocol.Encode(protocol.RoomState{
		Type:         protocol.EventRoomState,
		RoomSnapshot: c.Registry.Snapshot(roomID),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode room:state")
		return
	}
	// Snapshot goes to the joiner only.
	_ = conn.TrySend(f)
}

// Leave detaches a connection from one room. Unknown rooms are a no-op;
// an existing room still gets the departure event even when the
// connection was never recorded in it, then without a name.
func (c *Coordinator) Leave(cid core.ConnID, msg protocol.Leave) {
	if msg.RoomID == "" {
		return
	}
	roomID := domain.RoomID(msg.RoomID)
	name, roomExisted := c.Registry.RemoveParticipant(roomID, cid)
	if !roomExisted {
		return
	}
	c.Presence.AnnounceLeave(roomID, cid, name)
}

// Disconnect is the transport-driven exit. It must land in the same
// registry end-state as an explicit leave for every joined room.
func (c *Coordinator) Disconnect(cid core.ConnID) {
	for _, d := range c.Registry.RemoveParticipantEverywhere(cid) {
		c.Presence.AnnounceLeave(d.RoomID, cid, d.Name)
	}
}
