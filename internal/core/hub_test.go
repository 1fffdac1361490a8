package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func join(hub *Hub, id string) *Participant {
	p := NewParticipant(id, NextColor(), "default")
	hub.Register(p)
	return p
}

func TestHubJoinDeliversSnapshotThenPresence(t *testing.T) {
	hub := startHub(t)

	alice := join(hub, "alice")
	init := mustEvent(t, alice.Events, EventInit)
	if init.Actor != "alice" || init.Color != alice.Color {
		t.Fatalf("unexpected init: %+v", init)
	}
	if len(init.Snapshot) != 0 {
		t.Fatalf("fresh room snapshot not empty: %d", len(init.Snapshot))
	}

	users := mustEvent(t, alice.Events, EventParticipants)
	if len(users.Members) != 1 || users.Members[0].ID != "alice" {
		t.Fatalf("unexpected members: %+v", users.Members)
	}
}

func TestHubSharedUndoRedoClearScenario(t *testing.T) {
	hub := startHub(t)

	alice := join(hub, "alice")
	mustEvent(t, alice.Events, EventInit)

	// Alice commits one pen stroke. The undo/redo pair after it serves as a
	// barrier: once the redo acknowledgement arrives, the commit has been
	// applied and the log is back to [stroke].
	op := penStroke(Point{X: 0, Y: 0}, Point{X: 10, Y: 10})
	alice.Commands <- &Command{Kind: CommandStrokeEnd, Op: &op}
	alice.Commands <- &Command{Kind: CommandUndo}
	mustEvent(t, alice.Events, EventUndoApplied)
	alice.Commands <- &Command{Kind: CommandRedo}
	mustEvent(t, alice.Events, EventRedoApplied)

	// Bob joins afterwards and must see exactly that stroke in his snapshot,
	// with no duplicate arriving as a relay.
	bob := join(hub, "bob")
	init := mustEvent(t, bob.Events, EventInit)
	if len(init.Snapshot) != 1 {
		t.Fatalf("late joiner snapshot: got %d operations, want 1", len(init.Snapshot))
	}
	committed := init.Snapshot[0]
	if committed.Author != "alice" || committed.Timestamp == 0 {
		t.Fatalf("unexpected committed operation: %+v", committed)
	}
	mustNoEvent(t, bob.Events, EventStrokeEnd)

	// Alice undoes: both sides see the rollback referencing the commit stamp.
	alice.Commands <- &Command{Kind: CommandUndo}
	for _, p := range []*Participant{alice, bob} {
		undo := mustEvent(t, p.Events, EventUndoApplied)
		if undo.OpID != committed.Timestamp || undo.Actor != "alice" {
			t.Fatalf("unexpected undo for %s: %+v", p.ID, undo)
		}
	}

	// Alice redoes: both sides get the full operation back.
	alice.Commands <- &Command{Kind: CommandRedo}
	for _, p := range []*Participant{alice, bob} {
		redo := mustEvent(t, p.Events, EventRedoApplied)
		if redo.Op == nil || redo.Op.Timestamp != committed.Timestamp {
			t.Fatalf("unexpected redo for %s: %+v", p.ID, redo)
		}
	}

	// Bob clears: everyone is told, and nothing is left to undo or redo.
	bob.Commands <- &Command{Kind: CommandClearCanvas}
	for _, p := range []*Participant{alice, bob} {
		cleared := mustEvent(t, p.Events, EventClearApplied)
		if cleared.Actor != "bob" {
			t.Fatalf("unexpected clear actor for %s: %+v", p.ID, cleared)
		}
	}
	alice.Commands <- &Command{Kind: CommandUndo}
	mustNoEvent(t, alice.Events, EventUndoApplied)
	alice.Commands <- &Command{Kind: CommandRedo}
	mustNoEvent(t, alice.Events, EventRedoApplied)
}

func TestHubUndoOnEmptyRoomIsSilent(t *testing.T) {
	hub := startHub(t)

	alice := join(hub, "alice")
	mustEvent(t, alice.Events, EventInit)

	alice.Commands <- &Command{Kind: CommandUndo}
	mustNoEvent(t, alice.Events, EventUndoApplied)
}

func TestHubRelaysLiveEventsWithoutCommitting(t *testing.T) {
	hub := startHub(t)

	alice := join(hub, "alice")
	bob := join(hub, "bob")
	mustEvent(t, alice.Events, EventInit)
	mustEvent(t, bob.Events, EventInit)

	alice.Commands <- &Command{Kind: CommandStrokeStart, Stroke: StrokeData{Tool: ToolPen, Color: "#FF0000", Width: 5, X: 1, Y: 1}}
	alice.Commands <- &Command{Kind: CommandStrokeMove, Stroke: StrokeData{X: 2, Y: 2}}
	alice.Commands <- &Command{Kind: CommandCursorMove, Stroke: StrokeData{X: 3, Y: 3}}

	start := mustEvent(t, bob.Events, EventStrokeStart)
	if start.Actor != "alice" || start.Stroke.Tool != ToolPen {
		t.Fatalf("unexpected stroke start: %+v", start)
	}
	mustEvent(t, bob.Events, EventStrokeMove)
	cursor := mustEvent(t, bob.Events, EventCursorMove)
	if cursor.Stroke.X != 3 || cursor.Stroke.Y != 3 {
		t.Fatalf("unexpected cursor relay: %+v", cursor)
	}

	// The sender never hears its own relays.
	mustNoEvent(t, alice.Events, EventStrokeStart)

	// Alice drops mid-stroke: no operation was committed for it.
	hub.Unregister(alice)
	users := mustEvent(t, bob.Events, EventParticipants)
	if len(users.Members) != 1 || users.Members[0].ID != "bob" {
		t.Fatalf("unexpected members after leave: %+v", users.Members)
	}

	carol := join(hub, "carol")
	init := mustEvent(t, carol.Events, EventInit)
	if len(init.Snapshot) != 0 {
		t.Fatalf("orphaned operations in log: %d", len(init.Snapshot))
	}
}

func TestHubConcurrentAppendsCommitEachExactlyOnce(t *testing.T) {
	const perSender = 20

	hub := startHub(t)

	alice := join(hub, "alice")
	bob := join(hub, "bob")
	mustEvent(t, alice.Events, EventInit)
	mustEvent(t, bob.Events, EventInit)

	for _, p := range []*Participant{alice, bob} {
		go func(sender *Participant) {
			for i := 0; i < perSender; i++ {
				op := penStroke(Point{X: float64(i), Y: float64(i)})
				sender.Commands <- &Command{Kind: CommandStrokeEnd, Op: &op}
			}
		}(p)
	}

	// Each side observes the other's commits as relays.
	for i := 0; i < perSender; i++ {
		mustEvent(t, alice.Events, EventStrokeEnd)
		mustEvent(t, bob.Events, EventStrokeEnd)
	}

	carol := join(hub, "carol")
	init := mustEvent(t, carol.Events, EventInit)
	if len(init.Snapshot) != 2*perSender {
		t.Fatalf("log size: got %d, want %d", len(init.Snapshot), 2*perSender)
	}

	counts := map[string]int{}
	var prev int64
	for i, op := range init.Snapshot {
		if op.Timestamp <= prev {
			t.Fatalf("commit stamps not strictly increasing at %d: %d after %d", i, op.Timestamp, prev)
		}
		prev = op.Timestamp
		counts[op.Author]++
	}
	if counts["alice"] != perSender || counts["bob"] != perSender {
		t.Fatalf("unexpected per-author counts: %+v", counts)
	}
}

func TestHubKeepsServingAfterHandlerPanic(t *testing.T) {
	hub := startHub(t)

	alice := join(hub, "alice")
	bob := join(hub, "bob")
	mustEvent(t, alice.Events, EventInit)
	mustEvent(t, bob.Events, EventInit)

	// A stroke-end without geometry never passes the session boundary, but
	// a fault inside one handler must not stop the dispatcher or corrupt
	// the room for everyone else.
	alice.Commands <- &Command{Kind: CommandStrokeEnd}

	op := penStroke()
	alice.Commands <- &Command{Kind: CommandStrokeEnd, Op: &op}
	relay := mustEvent(t, bob.Events, EventStrokeEnd)
	if relay.Op == nil || relay.Op.Author != "alice" {
		t.Fatalf("unexpected relay after fault: %+v", relay)
	}

	carol := join(hub, "carol")
	init := mustEvent(t, carol.Events, EventInit)
	if len(init.Snapshot) != 1 {
		t.Fatalf("log corrupted by faulty command: %d operations", len(init.Snapshot))
	}
}

func TestHubStats(t *testing.T) {
	hub := startHub(t)

	participants := make([]*Participant, 0, 3)
	for i := range 3 {
		p := NewParticipant(fmt.Sprintf("p%d", i), NextColor(), fmt.Sprintf("room-%d", i%2))
		hub.Register(p)
		mustEvent(t, p.Events, EventInit)
		participants = append(participants, p)
	}

	rooms, users := hub.Stats()
	if rooms != 2 || users != 3 {
		t.Fatalf("stats: rooms=%d users=%d", rooms, users)
	}

	for _, p := range participants {
		hub.Unregister(p)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		rooms, users = hub.Stats()
		if rooms == 0 && users == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats after leave: rooms=%d users=%d", rooms, users)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
