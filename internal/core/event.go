package core

// EventKind is a notification the core emits to participants.
type EventKind int

const (
	// EventInit delivers the joiner's identity, color and a full log
	// snapshot. Sent exactly once, before any live event.
	EventInit EventKind = iota
	// EventParticipants carries the room's membership in join order.
	// Broadcast to the whole room on every join and leave.
	EventParticipants
	// EventStrokeStart relays a live stroke beginning to other members.
	EventStrokeStart
	// EventStrokeMove relays a live stroke extension to other members.
	EventStrokeMove
	// EventStrokeEnd relays a committed stroke, carrying the server stamp,
	// to other members.
	EventStrokeEnd
	// EventCursorMove relays a pointer position to other members.
	EventCursorMove
	// EventUndoApplied tells every member, sender included, which commit
	// was rolled back.
	EventUndoApplied
	// EventRedoApplied restores an undone operation for every member.
	EventRedoApplied
	// EventClearApplied tells every member the canvas was wiped.
	EventClearApplied
	// EventError notifies a participant about a domain error.
	EventError
)

// Member is the {id, color} pair pushed on membership changes.
type Member struct {
	ID    string
	Color string
}

// Event is sent to participants to describe what happened in the room.
type Event struct {
	Kind   EventKind
	Room   string
	Actor  string
	Stroke StrokeData // stroke-start/move, cursor-move
	Op     *Operation // stroke-end, redo-applied
	// OpID identifies the removed operation for undo-applied: its commit
	// timestamp.
	OpID     int64
	Color    string      // init: the joiner's assigned color
	Snapshot []Operation // init: the log at the serialization point
	Members  []Member    // participants updates
	Error    *CoreError
}
