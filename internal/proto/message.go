package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Wire event names. Inbound undo/redo/clear-canvas carry no payload.
const (
	TypeDrawStart   = "draw-start"
	TypeDrawMove    = "draw-move"
	TypeDrawEnd     = "draw-end"
	TypeCursorMove  = "cursor-move"
	TypeUndo        = "undo"
	TypeRedo        = "redo"
	TypeClearCanvas = "clear-canvas"

	TypeInitCanvas  = "init-canvas"
	TypeUsersUpdate = "users-update"
	TypeUndoApplied = "undo-operation"
	TypeRedoApplied = "redo-operation"
	TypeError       = "error"
)

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawStartData opens a live stroke: the tool setup plus the first point.
type DrawStartData struct {
	Tool  string  `json:"tool"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// MoveData extends a live stroke or reports a cursor position.
type MoveData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawEndData is the terminal stroke geometry. Freehand tools send path;
// parametric shapes send the start/end pair.
type DrawEndData struct {
	Tool  string  `json:"tool"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Path  []Point `json:"path,omitempty"`
	Start *Point  `json:"start,omitempty"`
	End   *Point  `json:"end,omitempty"`
}

// OperationData is a committed operation as seen on the wire: the stroke
// geometry plus the author and the server-assigned commit timestamp.
type OperationData struct {
	DrawEndData
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

// InitData is sent once, immediately after join.
type InitData struct {
	UserID     string          `json:"userId"`
	UserColor  string          `json:"userColor"`
	Operations []OperationData `json:"operations"`
}

// UserInfo identifies one room member.
type UserInfo struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// UsersUpdateData lists the room membership in join order.
type UsersUpdateData struct {
	Users []UserInfo `json:"users"`
}

// DrawStartRelay is DrawStartData attributed to its sender.
type DrawStartRelay struct {
	DrawStartData
	UserID string `json:"userId"`
}

// MoveRelay is MoveData attributed to its sender.
type MoveRelay struct {
	MoveData
	UserID string `json:"userId"`
}

// UndoAppliedData references the removed operation by its commit timestamp.
type UndoAppliedData struct {
	OperationID int64  `json:"operationId"`
	UserID      string `json:"userId"`
}

// RedoAppliedData carries the full restored operation.
type RedoAppliedData struct {
	Operation OperationData `json:"operation"`
	UserID    string        `json:"userId"`
}

// ClearAppliedData names the participant who wiped the canvas.
type ClearAppliedData struct {
	UserID string `json:"userId"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
