package core

import "time"

// nowMillis is swapped out in tests to force stamp collisions.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// opLog is the authoritative drawing history of a single room: committed
// operations in commit order plus the stack of undone operations. All
// mutations happen on the hub goroutine, so no locking is needed here.
type opLog struct {
	committed []Operation
	undone    []Operation
	lastStamp int64
}

// append stamps the operation with a commit timestamp (monotonic within the
// room, ties from the wall clock broken by arrival order), appends it and
// discards any pending redo history. The stored operation is returned.
func (l *opLog) append(op Operation) Operation {
	stamp := nowMillis()
	if stamp <= l.lastStamp {
		stamp = l.lastStamp + 1
	}
	l.lastStamp = stamp
	op.Timestamp = stamp

	l.committed = append(l.committed, op)
	l.undone = nil
	return op
}

// undo moves the most recently committed operation, regardless of author,
// onto the redo stack. ok is false when there is nothing to undo.
func (l *opLog) undo() (op Operation, ok bool) {
	if len(l.committed) == 0 {
		return Operation{}, false
	}
	op = l.committed[len(l.committed)-1]
	l.committed = l.committed[:len(l.committed)-1]
	l.undone = append(l.undone, op)
	return op, true
}

// redo moves the top of the redo stack back onto the log tail. ok is false
// when the redo stack is empty.
func (l *opLog) redo() (op Operation, ok bool) {
	if len(l.undone) == 0 {
		return Operation{}, false
	}
	op = l.undone[len(l.undone)-1]
	l.undone = l.undone[:len(l.undone)-1]
	l.committed = append(l.committed, op)
	return op, true
}

// clear drops both the committed log and the redo stack.
func (l *opLog) clear() {
	l.committed = nil
	l.undone = nil
}

// snapshot copies the committed log so the caller cannot observe appends
// made after this point.
func (l *opLog) snapshot() []Operation {
	out := make([]Operation, len(l.committed))
	copy(out, l.committed)
	return out
}

func (l *opLog) size() int { return len(l.committed) }
