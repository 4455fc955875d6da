package history

import (
	"sync"
	"time"

	"github.com/dshills/dsvedit/internal/engine/change"
)

// DefaultMaxEntries is the default number of undoable versions kept.
const DefaultMaxEntries = 1000

// Record is one stored document state.
type Record struct {
	RawData string
	Header  []string
	Change  change.Descriptor
}

func (r Record) clone() Record {
	if r.Header != nil {
		r.Header = append([]string(nil), r.Header...)
	}
	return r
}

// Store is a versioned record store with linear undo and redo.
type Store interface {
	// BeginTransaction opens a transaction. Calls nest.
	BeginTransaction()
	// UpdateRecord writes a record. Outside a transaction it commits at once.
	UpdateRecord(key string, rec Record)
	// EndTransaction commits once the outermost transaction ends.
	EndTransaction()
	// Undo rolls the store back one version.
	Undo()
	// Redo moves the store forward one version.
	Redo()
	// GetRecord returns the record as of the current version.
	GetRecord(key string) (Record, bool)
	// CanUndo reports whether an earlier version exists.
	CanUndo() bool
	// CanRedo reports whether a later version exists.
	CanRedo() bool
}

// version is one committed state of every record.
type version struct {
	records   map[string]Record
	timestamp time.Time
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu sync.Mutex

	versions []*version
	pos      int

	// Transaction state
	depth   int
	pending map[string]Record
	dirty   bool

	// Configuration
	maxEntries int
}

// NewMemoryStore creates a store that keeps up to maxEntries undoable
// versions.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		versions: []*version{{
			records:   make(map[string]Record),
			timestamp: time.Now(),
		}},
		maxEntries: maxEntries,
	}
}

// BeginTransaction opens a transaction.
func (s *MemoryStore) BeginTransaction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginLocked()
}

func (s *MemoryStore) beginLocked() {
	s.depth++
	if s.depth > 1 {
		return
	}
	cur := s.versions[s.pos].records
	s.pending = make(map[string]Record, len(cur))
	for k, v := range cur {
		s.pending[k] = v
	}
	s.dirty = false
}

// UpdateRecord writes a record into the open transaction.
func (s *MemoryStore) UpdateRecord(key string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	implicit := s.depth == 0
	if implicit {
		s.beginLocked()
	}
	s.pending[key] = rec.clone()
	s.dirty = true
	if implicit {
		s.endLocked()
	}
}

// EndTransaction closes a transaction, committing a new version when the
// outermost transaction wrote anything. Later versions are discarded.
func (s *MemoryStore) EndTransaction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked()
}

func (s *MemoryStore) endLocked() {
	if s.depth == 0 {
		return
	}
	s.depth--
	if s.depth > 0 {
		return
	}

	pending, dirty := s.pending, s.dirty
	s.pending, s.dirty = nil, false
	if !dirty {
		return
	}

	s.versions = append(s.versions[:s.pos+1], &version{
		records:   pending,
		timestamp: time.Now(),
	})
	s.pos++

	// Keep maxEntries undoable versions plus the base they undo to.
	if excess := len(s.versions) - (s.maxEntries + 1); excess > 0 {
		s.versions = append([]*version(nil), s.versions[excess:]...)
		s.pos -= excess
	}
}

// Undo moves back one version. It does nothing inside a transaction.
func (s *MemoryStore) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == 0 && s.pos > 0 {
		s.pos--
	}
}

// Redo moves forward one version. It does nothing inside a transaction.
func (s *MemoryStore) Redo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == 0 && s.pos < len(s.versions)-1 {
		s.pos++
	}
}

// GetRecord returns the record for key as of the current version.
func (s *MemoryStore) GetRecord(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.versions[s.pos].records[key]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// CanUndo returns true if an earlier version exists.
func (s *MemoryStore) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos > 0
}

// CanRedo returns true if a later version exists.
func (s *MemoryStore) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos < len(s.versions)-1
}

// UndoCount returns the number of versions Undo can step back.
func (s *MemoryStore) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// IsInTransaction returns true while a transaction is open.
func (s *MemoryStore) IsInTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth > 0
}

// MaxEntries returns the maximum number of undoable versions.
func (s *MemoryStore) MaxEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxEntries
}

// Clear drops every version except the current one.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = []*version{s.versions[s.pos]}
	s.pos = 0
	s.depth = 0
	s.pending = nil
	s.dirty = false
}
