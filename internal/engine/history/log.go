package history

import (
	"github.com/google/uuid"

	"github.com/dshills/dsvedit/internal/engine/change"
)

// Snapshot is the recorded state of a document after an operation.
type Snapshot = Record

// Log records one Snapshot per structural operation of a document.
type Log struct {
	store Store
	key   string
}

// NewLog creates a log over store and records the initial state.
// The initial snapshot carries no change and cannot be undone.
func NewLog(store Store, initial Snapshot) *Log {
	l := &Log{
		store: store,
		key:   uuid.NewString(),
	}
	initial.Change = change.Descriptor{}
	store.UpdateRecord(l.key, initial)
	return l
}

// Key returns the record key of the document.
func (l *Log) Key() string {
	return l.key
}

// Store returns the underlying record store.
func (l *Log) Store() Store {
	return l.store
}

// Begin opens a transaction so several updates commit as one snapshot.
func (l *Log) Begin() {
	l.store.BeginTransaction()
}

// End closes a transaction opened by Begin.
func (l *Log) End() {
	l.store.EndTransaction()
}

// Record appends a snapshot. Inside a transaction the last snapshot recorded
// before the outermost End wins.
func (l *Log) Record(s Snapshot) {
	l.store.UpdateRecord(l.key, s)
}

// Current returns the snapshot at the current position.
func (l *Log) Current() (Snapshot, bool) {
	return l.store.GetRecord(l.key)
}

// CanUndo reports whether Undo would restore an earlier snapshot.
func (l *Log) CanUndo() bool {
	cur, ok := l.store.GetRecord(l.key)
	return ok && !cur.Change.IsZero() && l.store.CanUndo()
}

// CanRedo reports whether Redo would re-apply a snapshot.
func (l *Log) CanRedo() bool {
	return l.store.CanRedo()
}

// Undo steps back one snapshot. It returns the snapshot to restore and the
// inverse of the change being undone. ok is false when there is nothing to
// undo.
func (l *Log) Undo() (prev Snapshot, inverse change.Descriptor, ok bool) {
	if !l.CanUndo() {
		return Snapshot{}, change.Descriptor{}, false
	}
	cur, _ := l.store.GetRecord(l.key)
	l.store.Undo()
	prev, ok = l.store.GetRecord(l.key)
	if !ok {
		l.store.Redo()
		return Snapshot{}, change.Descriptor{}, false
	}
	return prev, cur.Change.Inverse(), true
}

// Redo steps forward one snapshot and returns it. Its Change is the change
// to re-announce. ok is false when there is nothing to redo.
func (l *Log) Redo() (next Snapshot, ok bool) {
	if !l.store.CanRedo() {
		return Snapshot{}, false
	}
	l.store.Redo()
	return l.store.GetRecord(l.key)
}
