package core

// Registry tracks live rooms and their membership. It is owned by the hub
// and only ever touched on the hub goroutine, which serializes every
// membership and log mutation; it therefore carries no locking of its own.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Join adds the participant to the named room, creating the room if absent.
// Joining twice with the same participant id replaces the prior entry.
func (g *Registry) Join(roomID string, p *Participant) *Room {
	room, ok := g.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		g.rooms[roomID] = room
	}
	room.add(p)
	return room
}

// Leave removes the participant from the room. When the room becomes empty
// it is deleted together with its operation log, and nil is returned;
// otherwise the surviving room is returned so callers can notify the
// remaining members. Unknown rooms and participants are a no-op.
func (g *Registry) Leave(roomID, participantID string) *Room {
	room, ok := g.rooms[roomID]
	if !ok {
		return nil
	}
	room.remove(participantID)
	if room.Empty() {
		delete(g.rooms, roomID)
		return nil
	}
	return room
}

// Room looks up a live room by id.
func (g *Registry) Room(roomID string) (*Room, bool) {
	room, ok := g.rooms[roomID]
	return room, ok
}

// RoomCount returns the number of live rooms.
func (g *Registry) RoomCount() int {
	return len(g.rooms)
}

// ParticipantCount returns the total number of participants across rooms.
func (g *Registry) ParticipantCount() int {
	total := 0
	for _, room := range g.rooms {
		total += room.Size()
	}
	return total
}
