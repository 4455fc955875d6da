package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine/change"
	"github.com/dshills/dsvedit/internal/engine/history"
	"github.com/dshills/dsvedit/internal/engine/labels"
	"github.com/dshills/dsvedit/internal/engine/offset"
	"github.com/dshills/dsvedit/internal/engine/splice"
	"github.com/dshills/dsvedit/internal/event"
)

// Document is the parsed DSV buffer a Model edits. dsv.Model implements it.
type Document interface {
	splice.Document

	SetRawData(s string)
	Header() []string
	SetHeader(h []string)
	Data(region dsv.Region, row, column int) string

	// Reparse rebuilds the offset index from the raw data and returns once
	// the result is installed.
	Reparse(ctx context.Context) error

	// Check reports inconsistent field counts or quoting.
	Check() error
}

// parseNotifier is implemented by documents that report their own reparses.
type parseNotifier interface {
	OnParsed(fn dsv.ParseListener)
}

// Model applies structural operations to a Document.
type Model struct {
	doc      Document
	log      *history.Log
	store    history.Store
	notifier *event.Notifier
	labeler  labels.Labeler
	logger   Logger

	// Configuration
	maxUndoEntries      int
	strict              bool
	pasteFieldSeparator string
	pasteRowSeparator   string

	mu        sync.Mutex
	clipboard Clipboard
	txDepth   int
	txOps     int
}

// New creates a model over doc. The document must satisfy the buffer
// invariants; otherwise New returns an error wrapping ErrMalformedBuffer.
func New(doc Document, opts ...Option) (*Model, error) {
	m := &Model{
		doc:                 doc,
		labeler:             labels.Letters,
		logger:              nopLogger{},
		maxUndoEntries:      DefaultMaxUndoEntries,
		pasteFieldSeparator: DefaultPasteFieldSeparator,
		pasteRowSeparator:   DefaultPasteRowSeparator,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = history.NewMemoryStore(m.maxUndoEntries)
	}
	if m.notifier == nil {
		m.notifier = event.NewNotifier()
	}

	if err := m.Check(); err != nil {
		return nil, err
	}

	m.log = history.NewLog(m.store, history.Snapshot{
		RawData: doc.RawData(),
		Header:  doc.Header(),
	})

	if pn, ok := doc.(parseNotifier); ok {
		pn.OnParsed(func(dsv.ParseEvent) {
			m.notifier.Reparsed()
		})
	}

	return m, nil
}

// Document returns the underlying document.
func (m *Model) Document() Document {
	return m.doc
}

// Notifier returns the notifier change events are published on.
func (m *Model) Notifier() *event.Notifier {
	return m.notifier
}

// Subscribe registers handler for a notification topic.
func (m *Model) Subscribe(t event.Topic, handler event.Handler) (event.Subscription, error) {
	return m.notifier.Subscribe(t, handler)
}

// RowCount returns the number of rows in a region.
func (m *Model) RowCount(region dsv.Region) int {
	return m.doc.RowCount(region)
}

// ColumnCount returns the number of columns in a region.
func (m *Model) ColumnCount(region dsv.Region) int {
	return m.doc.ColumnCount(region)
}

// Data returns the decoded value of a cell.
func (m *Model) Data(region dsv.Region, row, column int) string {
	return m.doc.Data(region, row, column)
}

// Header returns the column names.
func (m *Model) Header() []string {
	return m.doc.Header()
}

// RawData returns the full raw text.
func (m *Model) RawData() string {
	return m.doc.RawData()
}

// BodyText returns the raw text without the header row.
func (m *Model) BodyText() string {
	raw := m.doc.RawData()
	if !m.doc.HasHeader() {
		return raw
	}
	res := offset.NewResolver(m.doc)
	if res.RowCount() == 0 {
		return ""
	}
	start, err := res.FirstIndex(offset.Row(0), false)
	if err != nil {
		return ""
	}
	return raw[start:]
}

// Check verifies field counts, quoting, and that the header list matches
// the column count.
func (m *Model) Check() error {
	if err := m.doc.Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBuffer, err)
	}
	if m.doc.HasHeader() {
		cols := m.doc.ColumnCount(dsv.RegionBody)
		if n := len(m.doc.Header()); n != cols {
			return fmt.Errorf("%w: header has %d names for %d columns", ErrMalformedBuffer, n, cols)
		}
	}
	return nil
}

// CanUndo reports whether there is an operation to undo.
func (m *Model) CanUndo() bool {
	return m.log.CanUndo()
}

// CanRedo reports whether there is an undone operation to redo.
func (m *Model) CanRedo() bool {
	return m.log.CanRedo()
}

// edit builds one operation's splices. A zero descriptor means nothing to do.
// A non-nil header replaces the document header.
type edit func(s *splice.Session) (d change.Descriptor, header []string, err error)

// apply runs one structural operation: build splices against the current
// parse, replace the buffer, wait for the reparse, record a snapshot, then
// notify. If build fails the buffer is untouched.
func (m *Model) apply(name string, build edit) error {
	if err := m.notifier.Acquire(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	s := splice.NewSession(m.doc)
	d, header, err := build(s)
	if err != nil {
		m.notifier.Release()
		return fmt.Errorf("%s: %w", name, err)
	}
	if d.IsZero() {
		m.notifier.Release()
		return nil
	}

	text, err := s.Text()
	if err == nil {
		text, err = m.keepEmptyLastRow(s.Source(), text)
	}
	if err != nil {
		m.notifier.Release()
		return fmt.Errorf("%s: %w", name, err)
	}

	prevHeader := m.doc.Header()
	if err := m.replace(text, header); err != nil {
		err = m.restore(s.Source(), prevHeader, err)
		m.notifier.Release()
		return fmt.Errorf("%s: %w", name, err)
	}
	checkErr := m.checkStrict()

	m.log.Record(history.Snapshot{
		RawData: text,
		Header:  m.doc.Header(),
		Change:  d,
	})
	m.countOp()
	m.notifier.Release()

	m.logger.Debug("%s: %s (%d edits)", name, d, s.Len())
	m.emit(d)

	if checkErr != nil {
		return fmt.Errorf("%s: %w", name, checkErr)
	}
	return nil
}

// keepEmptyLastRow stops an edit from turning an empty last row into a
// trailing row delimiter. When src has no trailing delimiter but text ends
// with one, the last row is a single empty field and is written as a quoted
// empty field.
func (m *Model) keepEmptyLastRow(src, text string) (string, error) {
	rd := m.doc.RowDelimiter()
	if strings.HasSuffix(src, rd) || !strings.HasSuffix(text, rd) {
		return text, nil
	}
	q := m.doc.Quote()
	if q == 0 {
		return "", ErrEmptyLastRow
	}
	return text + string([]byte{q, q}), nil
}

// replace installs new raw text and header and waits for the reparse.
// Operations are not cancellable, so the wait uses a background context.
func (m *Model) replace(text string, header []string) error {
	m.doc.SetRawData(text)
	if header != nil {
		m.doc.SetHeader(header)
	}
	if err := m.doc.Reparse(context.Background()); err != nil {
		return fmt.Errorf("%w: reparse: %w", ErrMalformedBuffer, err)
	}
	return nil
}

// restore puts back the text and header in place before a failed replace.
func (m *Model) restore(text string, header []string, cause error) error {
	if err := m.replace(text, nonNil(header)); err != nil {
		return errors.Join(cause, fmt.Errorf("restoring buffer: %w", err))
	}
	return cause
}

func (m *Model) checkStrict() error {
	if !m.strict {
		return nil
	}
	return m.Check()
}

func (m *Model) emit(d change.Descriptor) {
	m.notifier.Changed(d)
	m.notifier.RawText(m.BodyText())
}

// Undo restores the state before the last operation and announces the
// inverse of its change. It returns false when there is nothing to undo.
func (m *Model) Undo() (bool, error) {
	if m.inTransaction() {
		return false, fmt.Errorf("undo: %w", ErrInTransaction)
	}
	if err := m.notifier.Acquire(); err != nil {
		return false, fmt.Errorf("undo: %w", err)
	}

	text, header := m.doc.RawData(), m.doc.Header()
	prev, inv, ok := m.log.Undo()
	if !ok {
		m.notifier.Release()
		return false, nil
	}
	if err := m.replace(prev.RawData, nonNil(prev.Header)); err != nil {
		m.log.Redo()
		err = m.restore(text, header, err)
		m.notifier.Release()
		return false, fmt.Errorf("undo: %w", err)
	}
	m.notifier.Release()

	m.logger.Debug("undo: %s", inv)
	m.emit(inv)
	return true, nil
}

// Redo re-applies the last undone operation and announces its change. It
// returns false when there is nothing to redo.
func (m *Model) Redo() (bool, error) {
	if m.inTransaction() {
		return false, fmt.Errorf("redo: %w", ErrInTransaction)
	}
	if err := m.notifier.Acquire(); err != nil {
		return false, fmt.Errorf("redo: %w", err)
	}

	text, header := m.doc.RawData(), m.doc.Header()
	next, ok := m.log.Redo()
	if !ok {
		m.notifier.Release()
		return false, nil
	}
	if err := m.replace(next.RawData, nonNil(next.Header)); err != nil {
		m.log.Undo()
		err = m.restore(text, header, err)
		m.notifier.Release()
		return false, fmt.Errorf("redo: %w", err)
	}
	m.notifier.Release()

	m.logger.Debug("redo: %s", next.Change)
	m.emit(next.Change)
	return true, nil
}

func nonNil(h []string) []string {
	if h == nil {
		return []string{}
	}
	return h
}

// Transaction runs fn so that every operation it performs is undone and
// redone as one step. When fn performs more than one operation the step is
// announced as a model reset on undo and redo. Undo and Redo fail with
// ErrInTransaction inside fn.
//
// If fn returns an error, the operations it completed stay applied and are
// still committed as one step, so a single Undo reverts them.
func (m *Model) Transaction(fn func() error) error {
	m.mu.Lock()
	m.txDepth++
	if m.txDepth == 1 {
		m.txOps = 0
	}
	m.mu.Unlock()

	m.log.Begin()
	err := fn()

	m.mu.Lock()
	m.txDepth--
	collapse := m.txDepth == 0 && m.txOps > 1
	m.mu.Unlock()

	if collapse {
		m.log.Record(history.Snapshot{
			RawData: m.doc.RawData(),
			Header:  m.doc.Header(),
			Change:  change.ModelReset(),
		})
	}
	m.log.End()
	return err
}

func (m *Model) inTransaction() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txDepth > 0
}

func (m *Model) countOp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.txDepth > 0 {
		m.txOps++
	}
}
