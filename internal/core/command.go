package core

// CommandKind describes what a participant wants to do. The enumeration is
// closed so the hub's dispatch switch stays exhaustive.
type CommandKind int

const (
	// CommandStrokeStart announces the beginning of a live stroke. Relayed
	// to the rest of the room, never committed.
	CommandStrokeStart CommandKind = iota
	// CommandStrokeMove extends a live stroke. Relayed only.
	CommandStrokeMove
	// CommandStrokeEnd commits the finished stroke to the room's log.
	CommandStrokeEnd
	// CommandCursorMove reports the sender's pointer position. Relayed only.
	CommandCursorMove
	// CommandUndo pops the room's most recent commit, whoever authored it.
	CommandUndo
	// CommandRedo restores the most recently undone operation.
	CommandRedo
	// CommandClearCanvas wipes the room's log and redo stack.
	CommandClearCanvas
)

// StrokeData carries the ephemeral drawing payloads that are relayed but
// never committed. Tool/Color/Width are set for stroke-start only.
type StrokeData struct {
	Tool  Tool
	Color string
	Width float64
	X     float64
	Y     float64
}

// Command represents an action requested by a participant. Op is set for
// CommandStrokeEnd, Stroke for the ephemeral kinds.
type Command struct {
	Kind   CommandKind
	Stroke StrokeData
	Op     *Operation
}
