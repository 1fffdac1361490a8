package core

// Room groups the participants of one canvas together with its drawing
// history. Rooms are created on first join and destroyed, history included,
// when the last participant leaves.
type Room struct {
	ID      string
	members map[string]*Participant
	order   []string // participant ids in join order
	log     opLog
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[string]*Participant),
	}
}

// add inserts a participant. Re-join with the same id replaces the prior
// entry but keeps its place in join order.
func (r *Room) add(p *Participant) {
	if _, exists := r.members[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.members[p.ID] = p
}

// remove deletes a participant. Returns true if it was a member.
func (r *Room) remove(id string) bool {
	if _, exists := r.members[id]; !exists {
		return false
	}
	delete(r.members, id)
	for i, mid := range r.order {
		if mid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Members returns the membership as {id, color} pairs in join order.
func (r *Room) Members() []Member {
	out := make([]Member, 0, len(r.order))
	for _, id := range r.order {
		p := r.members[id]
		out = append(out, Member{ID: p.ID, Color: p.Color})
	}
	return out
}

// Broadcast sends an event to every participant in the room, in join order.
func (r *Room) Broadcast(event *Event) {
	for _, id := range r.order {
		deliver(r.members[id], event)
	}
}

// BroadcastExcept sends an event to every participant but the sender.
func (r *Room) BroadcastExcept(senderID string, event *Event) {
	for _, id := range r.order {
		if id == senderID {
			continue
		}
		deliver(r.members[id], event)
	}
}

func deliver(p *Participant, event *Event) {
	select {
	case p.Events <- event:
	default:
		// Drop if slow consumer.
	}
}

// Empty returns true if no participants remain.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Size returns the number of participants in the room.
func (r *Room) Size() int {
	return len(r.members)
}
