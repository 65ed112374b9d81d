package rtc

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Caption/internal/app"
	"github.com/dkeye/Caption/internal/core"
	"github.com/dkeye/Caption/internal/domain"
	"github.com/dkeye/Caption/internal/protocol"
)

type captureConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (c *captureConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *captureConn) Close() {}

func (c *captureConn) types(t *testing.T) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, f := range c.frames {
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		out = append(out, env.Type)
	}
	return out
}

func newTestController() (*Controller, *app.Registry) {
	reg := app.NewRegistry()
	coord := app.NewCoordinator(reg, app.NewPresenceTracker(reg))
	return &Controller{
		Coord:      coord,
		Relay:      app.NewRelay(reg),
		pingPeriod: time.Minute,
	}, reg
}

func newSender() *wsConn {
	return &wsConn{send: make(chan core.Frame, 32)}
}

func drainType(t *testing.T, c *wsConn) string {
	t.Helper()
	select {
	case f := <-c.send:
		var env protocol.Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		return env.Type
	default:
		t.Fatal("expected a frame")
		return ""
	}
}

func TestJoinWithNonStringRoomIDLeavesRegistryUnchanged(t *testing.T) {
	ctl, reg := newTestController()
	sender := newSender()

	ctl.handleEvent("c1", sender, []byte(`{"type":"join","roomId":42,"name":"Ana"}`))

	assert.Equal(t, 0, reg.RoomCount())
	assert.Empty(t, sender.send)
}

func TestJoinDispatchDeliversRoomState(t *testing.T) {
	ctl, reg := newTestController()
	sender := newSender()

	ctl.handleEvent("c1", sender, []byte(`{"type":"join","roomId":"r1","name":"Ana","email":"ana@x.io"}`))

	assert.Equal(t, protocol.EventRoomState, drainType(t, sender))
	snap := reg.Snapshot("r1")
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, "ana@x.io", snap.Participants[0].Email)
}

func TestCaptionWithNonStringTextIsNotDelivered(t *testing.T) {
	ctl, reg := newTestController()
	peer := &captureConn{}
	reg.AddParticipant("r1", "c2", domain.NewParticipant("Bo", "", time.Now()), peer)

	ctl.handleEvent("c1", newSender(), []byte(`{"type":"caption:update","roomId":"r1","text":123}`))

	assert.Empty(t, peer.types(t))
}

func TestOfferDispatchReachesPeersOnly(t *testing.T) {
	ctl, reg := newTestController()
	sender := newSender()
	peer := &captureConn{}
	reg.AddParticipant("r1", "c2", domain.NewParticipant("Bo", "", time.Now()), peer)

	ctl.handleEvent("c1", sender, []byte(`{"type":"signal:offer","roomId":"r1","offer":{"sdp":"v=0"},"from":"c1"}`))

	assert.Equal(t, []string{protocol.EventOffer}, peer.types(t))
	assert.Empty(t, sender.send)
}

func TestPingAnswersPong(t *testing.T) {
	ctl, _ := newTestController()
	sender := newSender()

	ctl.handleEvent("c1", sender, []byte(`{"type":"ping"}`))
	assert.Equal(t, protocol.EventPong, drainType(t, sender))
}

func TestUnknownAndMalformedEventsAreDropped(t *testing.T) {
	ctl, reg := newTestController()
	sender := newSender()

	ctl.handleEvent("c1", sender, []byte(`not json`))
	ctl.handleEvent("c1", sender, []byte(`{"type":"no:such:event"}`))

	assert.Equal(t, 0, reg.RoomCount())
	assert.Empty(t, sender.send)
}

func TestWsConnTrySendBackpressure(t *testing.T) {
	c := &wsConn{send: make(chan core.Frame, 1)}
	require.NoError(t, c.TrySend(core.Frame("a")))
	assert.True(t, errors.Is(c.TrySend(core.Frame("b")), ErrBackpressure))

	c.closed = true
	assert.Error(t, c.TrySend(core.Frame("c")))
}
