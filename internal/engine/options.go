package engine

import (
	"github.com/dshills/dsvedit/internal/engine/history"
	"github.com/dshills/dsvedit/internal/engine/labels"
	"github.com/dshills/dsvedit/internal/event"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries      = history.DefaultMaxEntries
	DefaultPasteFieldSeparator = "\t"
	DefaultPasteRowSeparator   = "\n"
)

// Logger receives debug output from the engine.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Option configures a Model during creation.
type Option func(*Model)

// WithStore sets the record store backing the undo log.
func WithStore(store history.Store) Option {
	return func(m *Model) {
		if store != nil {
			m.store = store
		}
	}
}

// WithMaxUndoEntries sets the number of undoable operations kept by the
// default store. It has no effect together with WithStore.
func WithMaxUndoEntries(max int) Option {
	return func(m *Model) {
		if max > 0 {
			m.maxUndoEntries = max
		}
	}
}

// WithNotifier sets the notifier used for change events.
func WithNotifier(n *event.Notifier) Option {
	return func(m *Model) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithLabeler sets how inserted columns are named.
func WithLabeler(l labels.Labeler) Option {
	return func(m *Model) {
		if l != nil {
			m.labeler = l
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStrict checks the buffer invariants after every operation.
func WithStrict(strict bool) Option {
	return func(m *Model) {
		m.strict = strict
	}
}

// WithPasteSeparators sets the separators used to split external paste data.
func WithPasteSeparators(field, row string) Option {
	return func(m *Model) {
		if field != "" {
			m.pasteFieldSeparator = field
		}
		if row != "" {
			m.pasteRowSeparator = row
		}
	}
}
