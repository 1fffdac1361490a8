package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/wireboard-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_sketch: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "default", "room to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	url := *addr + "?room=" + *room
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(v interface{}) {
		if writeErr := wsjson.Write(ctx, conn, v); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	fmt.Printf("Connected to %s (room %s)\n", *addr, *room)
	fmt.Println("Commands: line x1 y1 x2 y2 | undo | redo | clear. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch outbound.Type {
		case proto.TypeInitCanvas:
			var init proto.InitData
			if err := reunmarshal(outbound.Data, &init); err != nil {
				log.Printf("unmarshal init: %v", err)
				continue
			}
			fmt.Printf("joined as %s (%s), %d operations on canvas\n", init.UserID, init.UserColor, len(init.Operations))
		case proto.TypeUsersUpdate:
			var users proto.UsersUpdateData
			if err := reunmarshal(outbound.Data, &users); err != nil {
				log.Printf("unmarshal users: %v", err)
				continue
			}
			fmt.Printf("%d participants in room\n", len(users.Users))
		case proto.TypeDrawEnd:
			var op proto.OperationData
			if err := reunmarshal(outbound.Data, &op); err != nil {
				log.Printf("unmarshal operation: %v", err)
				continue
			}
			fmt.Printf("%s committed %s (ts=%d)\n", op.UserID, op.Tool, op.Timestamp)
		case proto.TypeUndoApplied:
			var undo proto.UndoAppliedData
			if err := reunmarshal(outbound.Data, &undo); err != nil {
				log.Printf("unmarshal undo: %v", err)
				continue
			}
			fmt.Printf("%s undid operation %d\n", undo.UserID, undo.OperationID)
		case proto.TypeRedoApplied:
			var redo proto.RedoAppliedData
			if err := reunmarshal(outbound.Data, &redo); err != nil {
				log.Printf("unmarshal redo: %v", err)
				continue
			}
			fmt.Printf("%s redid operation %d\n", redo.UserID, redo.Operation.Timestamp)
		case proto.TypeClearCanvas:
			fmt.Println("canvas cleared")
		case proto.TypeError:
			if outbound.Error != nil {
				fmt.Printf("server error: %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			}
		default:
			fmt.Printf("type=%s data=%v\n", outbound.Type, outbound.Data)
		}
	}
}

// reunmarshal converts the loosely-typed Data field back into a concrete
// payload struct.
func reunmarshal(data any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func writeLoop(ctx context.Context, send func(v interface{})) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "undo":
				send(proto.Inbound{Type: proto.TypeUndo})
			case "redo":
				send(proto.Inbound{Type: proto.TypeRedo})
			case "clear":
				send(proto.Inbound{Type: proto.TypeClearCanvas})
			case "line":
				if len(fields) != 5 {
					fmt.Println("usage: line x1 y1 x2 y2")
					continue
				}
				coords := make([]float64, 4)
				bad := false
				for i, f := range fields[1:] {
					val, err := strconv.ParseFloat(f, 64)
					if err != nil {
						bad = true
						break
					}
					coords[i] = val
				}
				if bad {
					fmt.Println("usage: line x1 y1 x2 y2")
					continue
				}
				payload, err := json.Marshal(proto.DrawEndData{
					Tool:  "line",
					Color: "#000000",
					Width: 2,
					Start: &proto.Point{X: coords[0], Y: coords[1]},
					End:   &proto.Point{X: coords[2], Y: coords[3]},
				})
				if err != nil {
					log.Printf("marshal stroke: %v", err)
					continue
				}
				send(proto.Inbound{Type: proto.TypeDrawEnd, Data: payload})
			default:
				fmt.Println("unknown command:", fields[0])
			}
		}
	}
}
