package engine

import (
	"errors"

	"github.com/dshills/dsvedit/internal/engine/offset"
	"github.com/dshills/dsvedit/internal/event"
)

// Errors returned by engine operations.
var (
	// ErrOutOfRange indicates a coordinate outside the grid. The buffer is
	// left unchanged.
	ErrOutOfRange = offset.ErrOutOfRange

	// ErrBusy indicates another operation is still in flight.
	ErrBusy = event.ErrBusy

	// ErrMalformedBuffer indicates the buffer violates the delimiter or
	// quoting invariants.
	ErrMalformedBuffer = errors.New("malformed buffer")

	// ErrNoColumns indicates a row cannot be added to a document without
	// columns.
	ErrNoColumns = errors.New("document has no columns")

	// ErrLastColumn indicates an attempt to remove the only column.
	ErrLastColumn = errors.New("cannot remove the last column")

	// ErrEmptyLastRow indicates an edit that would leave an empty last row
	// that, without a quote character, reads as a trailing row delimiter.
	ErrEmptyLastRow = errors.New("empty last row cannot be written without quoting")

	// ErrInTransaction indicates Undo or Redo called inside Transaction.
	ErrInTransaction = errors.New("undo and redo are unavailable inside a transaction")
)
