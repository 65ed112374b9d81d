package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Caption/internal/core"
	"github.com/dkeye/Caption/internal/domain"
	"github.com/dkeye/Caption/internal/protocol"
)

// DefaultLang tags captions that arrive without a language.
const DefaultLang = "en"

// Relay routes signaling, chat, typing and caption traffic inside a
// room. It is stateless: the room is addressed by the id carried in the
// message, and the sender's own membership is intentionally not
// verified. Malformed messages are dropped without an error event.
type Relay struct {
	Registry *Registry
}

func NewRelay(reg *Registry) *Relay {
	return &Relay{Registry: reg}
}

// Signal forwards an offer, answer or ICE candidate to everyone in the
// room except the sender. Payload and origin pass through verbatim.
func (r *Relay) Signal(event string, from core.ConnID, msg protocol.Signal) {
	if msg.RoomID == "" {
		return
	}
	f, err := protocol.Encode(protocol.SignalEvent{
		Type:      event,
		Offer:     msg.Offer,
		Answer:    msg.Answer,
		Candidate: msg.Candidate,
		From:      msg.From,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("event", event).Msg("encode signal")
		return
	}
	r.Registry.Broadcast(domain.RoomID(msg.RoomID), from, f, false)
}

// Chat goes to the whole room, sender included. The timestamp is
// assigned here and overrides anything the client sent.
func (r *Relay) Chat(from core.ConnID, msg protocol.Chat) {
	if msg.RoomID == "" || msg.Text == "" {
		return
	}
	sender := msg.Sender
	if sender == "" {
		sender = domain.DefaultName
	}
	f, err := protocol.Encode(protocol.ChatEvent{
		Type:   protocol.EventChat,
		Text:   msg.Text,
		Sender: sender,
		Time:   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode chat:message")
		return
	}
	r.Registry.Broadcast(domain.RoomID(msg.RoomID), from, f, true)
}

// Caption forwards a live caption to everyone but its speaker. A nil
// Text means the field was absent or not a string, the whole message is
// dropped then.
func (r *Relay) Caption(from core.ConnID, msg protocol.Caption) {
	if msg.RoomID == "" || msg.Text == nil {
		return
	}
	lang := msg.Lang
	if lang == "" {
		lang = DefaultLang
	}
	f, err := protocol.Encode(protocol.CaptionEvent{
		Type: protocol.EventCaption,
		Text: *msg.Text,
		Lang: lang,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode caption:update")
		return
	}
	r.Registry.Broadcast(domain.RoomID(msg.RoomID), from, f, false)
}

// Typing forwards the indicator to everyone but the sender, with the
// flag coerced to a strict boolean.
func (r *Relay) Typing(from core.ConnID, msg protocol.Typing) {
	if msg.RoomID == "" {
		return
	}
	f, err := protocol.Encode(protocol.TypingEvent{
		Type:   protocol.EventTyping,
		Sender: msg.Sender,
		Typing: protocol.Truthy(msg.Typing),
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode chat:typing")
		return
	}
	r.Registry.Broadcast(domain.RoomID(msg.RoomID), from, f, false)
}
