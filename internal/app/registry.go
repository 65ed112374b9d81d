package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/core"
	"github.com/dkeye/Caption/internal/domain"
	"github.com/dkeye/Caption/internal/protocol"
)

// member binds a participant record to its transport endpoint.
// The Registry never closes the connection, the adapter owns it.
type member struct {
	participant *domain.Participant
	conn        core.SignalConnection
}

// room is exclusively owned by the Registry. order records join order so
// snapshots are deterministic.
type room struct {
	order   []core.ConnID
	members map[core.ConnID]*member
}

// Departure names one room a connection was removed from, used to drive
// presence:leave broadcasts after cleanup.
type Departure struct {
	RoomID domain.RoomID
	Name   string
}

// Registry is the single owner of all room state. It is injected into
// every component that needs it, never a package-level singleton.
//
// Connections read concurrently, so every mutation is serialized behind
// one mutex. Insert and cleanup happen through single primitives, which
// keeps the invariant that an emptied room is deleted in the same
// critical section that emptied it.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*room)}
}

// AddParticipant creates the room if absent and records the participant
// under one lock acquisition. Re-joining the same room replaces the
// previous record but keeps its position.
func (r *Registry) AddParticipant(roomID domain.RoomID, cid core.ConnID, p *domain.Participant, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[roomID]
	if !ok {
		rm = &room{members: make(map[core.ConnID]*member)}
		r.rooms[roomID] = rm
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room created")
	}
	if _, exists := rm.members[cid]; !exists {
		rm.order = append(rm.order, cid)
	}
	rm.members[cid] = &member{participant: p, conn: conn}
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("cid", string(cid)).Str("name", p.Name).Msg("participant added")
}

// RemoveParticipant removes one membership and deletes the room if that
// left it empty. An unknown room is a no-op. When the room exists but
// the connection was never recorded in it the returned name is empty.
func (r *Registry) RemoveParticipant(roomID domain.RoomID, cid core.ConnID) (name string, roomExisted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, found := r.rooms[roomID]
	if !found {
		return "", false
	}
	m, found := rm.members[cid]
	if !found {
		return "", true
	}
	r.dropLocked(roomID, rm, cid)
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("cid", string(cid)).Msg("participant removed")
	return m.participant.Name, true
}

// RemoveParticipantEverywhere is the shared cleanup primitive behind
// both explicit leave and transport disconnect. It scans every room,
// drops the connection's memberships, deletes rooms left empty and
// reports where the connection was removed from.
func (r *Registry) RemoveParticipantEverywhere(cid core.ConnID) []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Departure
	for roomID, rm := range r.rooms {
		m, found := rm.members[cid]
		if !found {
			continue
		}
		r.dropLocked(roomID, rm, cid)
		out = append(out, Departure{RoomID: roomID, Name: m.participant.Name})
	}
	if len(out) > 0 {
		log.Info().Str("module", "app.registry").Str("cid", string(cid)).Int("rooms", len(out)).Msg("participant removed everywhere")
	}
	return out
}

// dropLocked removes one membership and enforces the empty-room
// invariant. Callers hold the write lock.
func (r *Registry) dropLocked(roomID domain.RoomID, rm *room, cid core.ConnID) {
	delete(rm.members, cid)
	for i, id := range rm.order {
		if id == cid {
			rm.order = append(rm.order[:i], rm.order[i+1:]...)
			break
		}
	}
	if len(rm.members) == 0 {
		delete(r.rooms, roomID)
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room destroyed")
	}
}

// Snapshot returns the public view of a room in join order. Unknown
// rooms yield an empty participant list, absence is not an error here.
func (r *Registry) Snapshot(roomID domain.RoomID) protocol.RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := protocol.RoomSnapshot{
		RoomID:       string(roomID),
		Participants: []protocol.ParticipantView{},
	}
	rm, ok := r.rooms[roomID]
	if !ok {
		return snap
	}
	for _, cid := range rm.order {
		p := rm.members[cid].participant
		snap.Participants = append(snap.Participants, protocol.ParticipantView{
			Name:     p.Name,
			Email:    p.Email,
			JoinedAt: p.JoinedAt.UnixMilli(),
		})
	}
	return snap
}

// Broadcast fans a frame out to a room. Delivery is fire-and-forget:
// a full send buffer drops the frame for that receiver only.
func (r *Registry) Broadcast(roomID domain.RoomID, from core.ConnID, f core.Frame, includeSender bool) core.PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := core.PublishResult{}
	rm, ok := r.rooms[roomID]
	if !ok {
		return res
	}
	for cid, m := range rm.members {
		if cid == from && !includeSender {
			continue
		}
		if err := m.conn.TrySend(f); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.registry").Str("room", string(roomID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("broadcast result")
	return res
}

// RoomCount reports the number of live rooms, for the health endpoint.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// HasRoom is a read-only existence check, it never creates.
func (r *Registry) HasRoom(roomID domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID]
	return ok
}
