// Package domain contains entity without logic, just meta-data
package domain

import "time"

const DefaultName = "Guest"

// Participant is one connection's presence record inside a room.
// No transport or lifecycle logic here.
type Participant struct {
	Name     string
	Email    string
	JoinedAt time.Time
}

// NewParticipant applies the wire defaults and keeps construction obvious
// for adapters.
func NewParticipant(name, email string, joinedAt time.Time) *Participant {
	if name == "" {
		name = DefaultName
	}
	return &Participant{Name: name, Email: email, JoinedAt: joinedAt}
}
