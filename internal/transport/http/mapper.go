package http

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/wireboard-server/internal/core"
	"github.com/vovakirdan/wireboard-server/internal/proto"
)

// inboundToCommand validates an inbound frame and maps it to a core
// command. A non-nil proto.Error means the frame was malformed; the caller
// reports it back and keeps the connection open.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.TypeDrawStart:
		var data proto.DrawStartData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(err)
		}
		tool := core.Tool(data.Tool)
		if !tool.Valid() {
			return nil, unknownTool(data.Tool)
		}
		return &core.Command{
			Kind: core.CommandStrokeStart,
			Stroke: core.StrokeData{
				Tool:  tool,
				Color: data.Color,
				Width: data.Width,
				X:     data.X,
				Y:     data.Y,
			},
		}, nil
	case proto.TypeDrawMove:
		var data proto.MoveData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(err)
		}
		return &core.Command{Kind: core.CommandStrokeMove, Stroke: core.StrokeData{X: data.X, Y: data.Y}}, nil
	case proto.TypeCursorMove:
		var data proto.MoveData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(err)
		}
		return &core.Command{Kind: core.CommandCursorMove, Stroke: core.StrokeData{X: data.X, Y: data.Y}}, nil
	case proto.TypeDrawEnd:
		var data proto.DrawEndData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(err)
		}
		op := operationFromWire(data)
		if !op.Tool.Valid() {
			return nil, unknownTool(data.Tool)
		}
		if err := op.Validate(); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: err.Error()}
		}
		return &core.Command{Kind: core.CommandStrokeEnd, Op: op}, nil
	case proto.TypeUndo:
		return &core.Command{Kind: core.CommandUndo}, nil
	case proto.TypeRedo:
		return &core.Command{Kind: core.CommandRedo}, nil
	case proto.TypeClearCanvas:
		return &core.Command{Kind: core.CommandClearCanvas}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: fmt.Sprintf("unknown message type %q", inbound.Type)}
	}
}

func badPayload(err error) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid payload: " + err.Error()}
}

func unknownTool(tool string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeUnknownTool, Msg: fmt.Sprintf("unknown tool %q", tool)}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventInit:
		ops := make([]proto.OperationData, 0, len(event.Snapshot))
		for i := range event.Snapshot {
			ops = append(ops, operationToWire(&event.Snapshot[i]))
		}
		return proto.Outbound{
			Type: proto.TypeInitCanvas,
			Data: proto.InitData{
				UserID:     event.Actor,
				UserColor:  event.Color,
				Operations: ops,
			},
		}
	case core.EventParticipants:
		users := make([]proto.UserInfo, 0, len(event.Members))
		for _, m := range event.Members {
			users = append(users, proto.UserInfo{ID: m.ID, Color: m.Color})
		}
		return proto.Outbound{
			Type: proto.TypeUsersUpdate,
			Data: proto.UsersUpdateData{Users: users},
		}
	case core.EventStrokeStart:
		return proto.Outbound{
			Type: proto.TypeDrawStart,
			Data: proto.DrawStartRelay{
				DrawStartData: proto.DrawStartData{
					Tool:  string(event.Stroke.Tool),
					Color: event.Stroke.Color,
					Width: event.Stroke.Width,
					X:     event.Stroke.X,
					Y:     event.Stroke.Y,
				},
				UserID: event.Actor,
			},
		}
	case core.EventStrokeMove:
		return proto.Outbound{
			Type: proto.TypeDrawMove,
			Data: proto.MoveRelay{
				MoveData: proto.MoveData{X: event.Stroke.X, Y: event.Stroke.Y},
				UserID:   event.Actor,
			},
		}
	case core.EventCursorMove:
		return proto.Outbound{
			Type: proto.TypeCursorMove,
			Data: proto.MoveRelay{
				MoveData: proto.MoveData{X: event.Stroke.X, Y: event.Stroke.Y},
				UserID:   event.Actor,
			},
		}
	case core.EventStrokeEnd:
		return proto.Outbound{
			Type: proto.TypeDrawEnd,
			Data: operationToWire(event.Op),
		}
	case core.EventUndoApplied:
		return proto.Outbound{
			Type: proto.TypeUndoApplied,
			Data: proto.UndoAppliedData{OperationID: event.OpID, UserID: event.Actor},
		}
	case core.EventRedoApplied:
		return proto.Outbound{
			Type: proto.TypeRedoApplied,
			Data: proto.RedoAppliedData{Operation: operationToWire(event.Op), UserID: event.Actor},
		}
	case core.EventClearApplied:
		return proto.Outbound{
			Type: proto.TypeClearCanvas,
			Data: proto.ClearAppliedData{UserID: event.Actor},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.TypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.TypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.TypeError, Error: &proto.Error{Code: "unknown", Msg: "unmapped event"}}
	}
}

func operationFromWire(data proto.DrawEndData) *core.Operation {
	op := &core.Operation{
		Tool:  core.Tool(data.Tool),
		Color: data.Color,
		Width: data.Width,
	}
	if len(data.Path) > 0 {
		op.Path = make([]core.Point, 0, len(data.Path))
		for _, pt := range data.Path {
			op.Path = append(op.Path, core.Point{X: pt.X, Y: pt.Y})
		}
	}
	if data.Start != nil {
		op.Start = &core.Point{X: data.Start.X, Y: data.Start.Y}
	}
	if data.End != nil {
		op.End = &core.Point{X: data.End.X, Y: data.End.Y}
	}
	return op
}

func operationToWire(op *core.Operation) proto.OperationData {
	data := proto.OperationData{
		DrawEndData: proto.DrawEndData{
			Tool:  string(op.Tool),
			Color: op.Color,
			Width: op.Width,
		},
		UserID:    op.Author,
		Timestamp: op.Timestamp,
	}
	if len(op.Path) > 0 {
		data.Path = make([]proto.Point, 0, len(op.Path))
		for _, pt := range op.Path {
			data.Path = append(data.Path, proto.Point{X: pt.X, Y: pt.Y})
		}
	}
	if op.Start != nil {
		data.Start = &proto.Point{X: op.Start.X, Y: op.Start.Y}
	}
	if op.End != nil {
		data.End = &proto.Point{X: op.End.X, Y: op.End.Y}
	}
	return data
}
