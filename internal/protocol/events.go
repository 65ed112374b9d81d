// Package protocol defines the wire events exchanged on the /ws/rtc
// endpoint. Every inbound payload is a closed, typed variant decoded at
// the adapter boundary; the core never sees raw JSON.
package protocol

import (
	"encoding/json"

	"github.com/dkeye/Caption/internal/core"
)

// Inbound event names carried in the "type" field of the envelope.
const (
	EventJoin    = "join"
	EventLeave   = "leave"
	EventOffer   = "signal:offer"
	EventAnswer  = "signal:answer"
	EventICE     = "signal:ice"
	EventChat    = "chat:message"
	EventCaption = "caption:update"
	EventTyping  = "chat:typing"
	EventPing    = "ping"
)

// Outbound-only event names.
const (
	EventRoomState     = "room:state"
	EventPresenceJoin  = "presence:join"
	EventPresenceLeave = "presence:leave"
	EventPong          = "pong"
)

// Envelope carries just the discriminator so the adapter can dispatch
// before decoding the full variant.
type Envelope struct {
	Type string `json:"type"`
}

type Join struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type Leave struct {
	RoomID string `json:"roomId"`
}

// Signal covers the three WebRTC variants. The media payload and the
// origin are relayed verbatim, the core never inspects them.
type Signal struct {
	RoomID    string          `json:"roomId"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	From      json.RawMessage `json:"from,omitempty"`
}

type Chat struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// Caption requires Text to be a JSON string; absence and any other JSON
// type both fail decoding and drop the message.
type Caption struct {
	RoomID string  `json:"roomId"`
	Text   *string `json:"text"`
	Lang   string  `json:"lang"`
}

// Typing keeps the flag untyped on purpose: clients send whatever and
// the flag is truthy-coerced, matching the documented defaulting.
type Typing struct {
	RoomID string `json:"roomId"`
	Sender string `json:"sender"`
	Typing any    `json:"typing"`
}

// Outbound events.

type PresenceJoin struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PresenceLeave struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type RoomState struct {
	Type string `json:"type"`
	RoomSnapshot
}

type SignalEvent struct {
	Type      string          `json:"type"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	From      json.RawMessage `json:"from,omitempty"`
}

type ChatEvent struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
	Time   string `json:"time"`
}

type CaptionEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type TypingEvent struct {
	Type   string `json:"type"`
	Sender string `json:"sender,omitempty"`
	Typing bool   `json:"typing"`
}

type Pong struct {
	Type string `json:"type"`
}

// RoomSnapshot is the public read-only view of a room, shared by the
// room:state event and the HTTP rooms endpoint.
type RoomSnapshot struct {
	RoomID       string            `json:"roomId"`
	Participants []ParticipantView `json:"participants"`
}

type ParticipantView struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt int64  `json:"joinedAt"`
}

// Encode marshals an outbound event into a transport frame.
func Encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

// Truthy coerces an arbitrary decoded JSON value the way the protocol
// coerces the typing flag: null, false, 0 and "" are false, everything
// else is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
