package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap")
)

// Batch accumulates edits against one source string.
// The zero value is an empty batch ready to use.
type Batch struct {
	edits []Edit
}

// Add appends an edit to the batch. No-op edits are dropped.
func (b *Batch) Add(e Edit) {
	if e.IsNoOp() {
		return
	}
	b.edits = append(b.edits, e)
}

// Len returns the number of edits in the batch.
func (b *Batch) Len() int {
	return len(b.edits)
}

// Edits returns a copy of the edits in insertion order.
func (b *Batch) Edits() []Edit {
	out := make([]Edit, len(b.edits))
	copy(out, b.edits)
	return out
}

// Reset clears the batch.
func (b *Batch) Reset() {
	b.edits = b.edits[:0]
}

// Apply returns src with every edit applied.
func (b *Batch) Apply(src string) (string, error) {
	return Apply(src, b.edits)
}

// Apply returns src with all edits applied in a single pass.
//
// Offsets refer to src. Edits are ordered by start offset; at equal starts
// insertions come first and otherwise insertion order is kept, so an insert
// followed by a delete of the same field yields replacement semantics.
func Apply(src string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Range, ordered[j].Range
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.IsEmpty() && !b.IsEmpty()
	})

	size := len(src)
	for _, e := range ordered {
		if err := e.Range.valid(len(src)); err != nil {
			return "", fmt.Errorf("%s in %d bytes: %w", e, len(src), err)
		}
		size += e.Delta()
	}

	var sb strings.Builder
	sb.Grow(size)

	pos := 0
	for _, e := range ordered {
		if e.Range.Start < pos {
			return "", fmt.Errorf("%s before offset %d: %w", e, pos, ErrEditsOverlap)
		}
		sb.WriteString(src[pos:e.Range.Start])
		sb.WriteString(e.NewText)
		pos = e.Range.End
	}
	sb.WriteString(src[pos:])

	return sb.String(), nil
}
