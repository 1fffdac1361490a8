package core

import "time"

// Participant is one connected user as seen by the core layer. Commands
// flow from the transport into the hub, events flow back out.
type Participant struct {
	ID       string
	Color    string
	Room     string
	JoinedAt time.Time
	Commands chan *Command
	Events   chan *Event
}

// NewParticipant constructs a participant with initialized channels. The
// events buffer absorbs snapshot delivery plus drawing bursts; slow
// consumers past that are dropped (see Room.Broadcast).
func NewParticipant(id, color, room string) *Participant {
	return &Participant{
		ID:       id,
		Color:    color,
		Room:     room,
		JoinedAt: time.Now(),
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 64),
	}
}
