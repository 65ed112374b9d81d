package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Caption/internal/protocol"
)

func TestJoinRejectsNonStringRoomID(t *testing.T) {
	var p protocol.Join
	err := json.Unmarshal([]byte(`{"type":"join","roomId":42,"name":"Ana"}`), &p)
	assert.Error(t, err, "a numeric roomId must not decode")
}

func TestJoinDecodesWithDefaultsLeftEmpty(t *testing.T) {
	var p protocol.Join
	require.NoError(t, json.Unmarshal([]byte(`{"type":"join","roomId":"r1"}`), &p))
	assert.Equal(t, "r1", p.RoomID)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Email)
}

func TestCaptionRejectsNonStringText(t *testing.T) {
	var p protocol.Caption
	err := json.Unmarshal([]byte(`{"type":"caption:update","roomId":"r1","text":123}`), &p)
	assert.Error(t, err)
}

func TestCaptionDistinguishesAbsentFromEmptyText(t *testing.T) {
	var absent protocol.Caption
	require.NoError(t, json.Unmarshal([]byte(`{"roomId":"r1"}`), &absent))
	assert.Nil(t, absent.Text)

	var empty protocol.Caption
	require.NoError(t, json.Unmarshal([]byte(`{"roomId":"r1","text":""}`), &empty))
	require.NotNil(t, empty.Text)
	assert.Equal(t, "", *empty.Text)
}

func TestTypingAcceptsAnyFlagType(t *testing.T) {
	for _, raw := range []string{
		`{"roomId":"r","typing":true}`,
		`{"roomId":"r","typing":"yes"}`,
		`{"roomId":"r","typing":1}`,
		`{"roomId":"r"}`,
	} {
		var p protocol.Typing
		assert.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, protocol.Truthy(nil))
	assert.False(t, protocol.Truthy(false))
	assert.False(t, protocol.Truthy(float64(0)))
	assert.False(t, protocol.Truthy(""))
	assert.True(t, protocol.Truthy(true))
	assert.True(t, protocol.Truthy(float64(2)))
	assert.True(t, protocol.Truthy("no"))
	assert.True(t, protocol.Truthy([]any{}))
}

func TestPresenceLeaveOmitsEmptyName(t *testing.T) {
	f, err := protocol.Encode(protocol.PresenceLeave{Type: protocol.EventPresenceLeave})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"presence:leave"}`, string(f))
}

func TestSignalPayloadRoundsTripVerbatim(t *testing.T) {
	var p protocol.Signal
	raw := `{"type":"signal:offer","roomId":"r1","offer":{"sdp":"v=0"},"from":"abc"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	f, err := protocol.Encode(protocol.SignalEvent{
		Type:  protocol.EventOffer,
		Offer: p.Offer,
		From:  p.From,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"signal:offer","offer":{"sdp":"v=0"},"from":"abc"}`, string(f))
}
