package core

import "fmt"

// Tool identifies a drawing tool. The set is closed; unknown tools are
// rejected at the session boundary and never reach the log.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
)

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolPen, ToolEraser, ToolLine, ToolRectangle, ToolCircle:
		return true
	}
	return false
}

// Freehand reports whether the tool commits an ordered point path rather
// than a start/end pair.
func (t Tool) Freehand() bool {
	return t == ToolPen || t == ToolEraser
}

// Point is a canvas coordinate.
type Point struct {
	X float64
	Y float64
}

// Operation is the domain model for one committed drawing action. Once
// appended to a room's log it is immutable; undo/redo/clear change log
// membership only, never an operation's fields.
type Operation struct {
	Tool   Tool
	Color  string
	Width  float64
	Path   []Point // freehand tools: ordered point sequence
	Start  *Point  // parametric shapes: start/end pair
	End    *Point
	Author string
	// Timestamp is the server-assigned commit stamp, strictly monotonic
	// within a room. It doubles as the operation's identity for undo
	// acknowledgements.
	Timestamp int64
}

// Validate checks the tool against the closed set and the geometry against
// the tool's expected shape.
func (op *Operation) Validate() error {
	if !op.Tool.Valid() {
		return fmt.Errorf("%w: unknown tool %q", ErrBadRequest, op.Tool)
	}
	if op.Tool.Freehand() {
		if len(op.Path) == 0 {
			return fmt.Errorf("%w: freehand stroke without path", ErrBadRequest)
		}
		return nil
	}
	if op.Start == nil || op.End == nil {
		return fmt.Errorf("%w: shape without start/end pair", ErrBadRequest)
	}
	return nil
}
