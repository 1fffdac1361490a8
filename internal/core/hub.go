package core

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Hub is the process-wide dispatcher. Every registry and log mutation runs
// on its single Run goroutine, which is what makes the per-room invariants
// hold: snapshots, commits and their broadcasts all happen at one
// serialization point, in one order.
type Hub struct {
	registry   *Registry
	log        zerolog.Logger
	register   chan *Participant
	unregister chan *Participant
	commands   chan hubCommand

	// observability counters, readable off the hub goroutine
	roomCount        atomic.Int64
	participantCount atomic.Int64
}

type hubCommand struct {
	from *Participant
	cmd  *Command
}

// NewHub creates a hub with an empty registry. Pass zerolog.Nop() when
// logging is not wanted.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		registry:   NewRegistry(),
		log:        logger,
		register:   make(chan *Participant),
		unregister: make(chan *Participant),
		commands:   make(chan hubCommand, 64),
	}
}

// Register hands a connected participant to the hub. The hub joins it to
// its room, sends the init snapshot and starts consuming its commands.
func (h *Hub) Register(p *Participant) {
	h.register <- p
}

// Unregister detaches a participant. Must be called exactly once per
// registered participant, after the caller has stopped sending commands.
func (h *Hub) Unregister(p *Participant) {
	h.unregister <- p
}

// Stats reports current room and participant counts. Safe from any
// goroutine; used by the health endpoint.
func (h *Hub) Stats() (rooms, participants int64) {
	return h.roomCount.Load(), h.participantCount.Load()
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-h.register:
			h.handleJoin(p)
		case p := <-h.unregister:
			h.handleLeave(p)
		case c := <-h.commands:
			h.dispatch(c.from, c.cmd)
		}
	}
}

func (h *Hub) handleJoin(p *Participant) {
	room := h.registry.Join(p.Room, p)
	h.updateCounts()

	// The snapshot must reach the joiner before any live event; both are
	// queued here, on the serialization point, so the event channel order
	// guarantees it.
	deliver(p, &Event{
		Kind:     EventInit,
		Room:     room.ID,
		Actor:    p.ID,
		Color:    p.Color,
		Snapshot: room.log.snapshot(),
	})
	room.Broadcast(&Event{
		Kind:    EventParticipants,
		Room:    room.ID,
		Members: room.Members(),
	})

	go h.pump(p)

	h.log.Info().Str("participant", p.ID).Str("room", room.ID).Str("color", p.Color).Msg("participant joined")
}

func (h *Hub) handleLeave(p *Participant) {
	close(p.Commands)

	room := h.registry.Leave(p.Room, p.ID)
	h.updateCounts()
	if room != nil {
		room.Broadcast(&Event{
			Kind:    EventParticipants,
			Room:    room.ID,
			Members: room.Members(),
		})
	}

	h.log.Info().Str("participant", p.ID).Str("room", p.Room).Msg("participant left")
}

// pump forwards one participant's commands into the shared dispatch
// channel. It exits when handleLeave closes the command channel.
func (h *Hub) pump(p *Participant) {
	for cmd := range p.Commands {
		h.commands <- hubCommand{from: p, cmd: cmd}
	}
}

// dispatch applies one command at the serialization point. A panicking
// handler must not take the hub down or leave the room half-mutated, so
// each command is its own recovery scope; log and redo stack are only
// touched through opLog methods that complete before any broadcast.
func (h *Hub) dispatch(from *Participant, cmd *Command) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("participant", from.ID).Msg("command handler panicked")
		}
	}()

	room, ok := h.registry.Room(from.Room)
	if !ok {
		// Commands can trail a leave; nothing to apply them to.
		return
	}

	switch cmd.Kind {
	case CommandStrokeStart:
		room.BroadcastExcept(from.ID, &Event{Kind: EventStrokeStart, Room: room.ID, Actor: from.ID, Stroke: cmd.Stroke})
	case CommandStrokeMove:
		room.BroadcastExcept(from.ID, &Event{Kind: EventStrokeMove, Room: room.ID, Actor: from.ID, Stroke: cmd.Stroke})
	case CommandCursorMove:
		room.BroadcastExcept(from.ID, &Event{Kind: EventCursorMove, Room: room.ID, Actor: from.ID, Stroke: cmd.Stroke})
	case CommandStrokeEnd:
		op := *cmd.Op
		op.Author = from.ID
		committed := room.log.append(op)
		// Relay only after the commit; the sender already drew locally and
		// does not need the echo.
		room.BroadcastExcept(from.ID, &Event{Kind: EventStrokeEnd, Room: room.ID, Actor: from.ID, Op: &committed})
		h.log.Debug().Str("room", room.ID).Str("author", from.ID).Int64("ts", committed.Timestamp).Int("log_size", room.log.size()).Msg("operation committed")
	case CommandUndo:
		op, ok := room.log.undo()
		if !ok {
			return // empty history is a normal state, nothing to broadcast
		}
		room.Broadcast(&Event{Kind: EventUndoApplied, Room: room.ID, Actor: from.ID, OpID: op.Timestamp})
	case CommandRedo:
		op, ok := room.log.redo()
		if !ok {
			return
		}
		room.Broadcast(&Event{Kind: EventRedoApplied, Room: room.ID, Actor: from.ID, Op: &op})
	case CommandClearCanvas:
		room.log.clear()
		room.Broadcast(&Event{Kind: EventClearApplied, Room: room.ID, Actor: from.ID})
	}
}

func (h *Hub) updateCounts() {
	h.roomCount.Store(int64(h.registry.RoomCount()))
	h.participantCount.Store(int64(h.registry.ParticipantCount()))
}
