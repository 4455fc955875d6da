package buffer

import "fmt"

// Range is the half-open byte span [Start, End) of the source text.
type Range struct {
	Start int
	End   int
}

// NewRange returns the span [start, end).
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the span width in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether r covers no bytes. An edit with an empty range is
// an insertion.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Slice returns the source text under r. Callers resolve r against text.
func (r Range) Slice(text string) string {
	return text[r.Start:r.End]
}

func (r Range) valid(size int) error {
	switch {
	case r.Start < 0 || r.Start > r.End:
		return ErrRangeInvalid
	case r.End > size:
		return ErrOffsetOutOfRange
	}
	return nil
}

// Edit replaces the bytes under Range with NewText.
type Edit struct {
	Range   Range
	NewText string
}

// NewEdit returns an edit replacing r with text.
func NewEdit(r Range, text string) Edit {
	return Edit{Range: r, NewText: text}
}

// NewInsert returns an edit inserting text before offset.
func NewInsert(offset int, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete returns an edit removing [start, end).
func NewDelete(start, end int) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("insert %q at %d", e.NewText, e.Range.Start)
	case e.NewText == "":
		return "delete " + e.Range.String()
	default:
		return fmt.Sprintf("replace %s with %q", e.Range, e.NewText)
	}
}

// IsNoOp reports whether applying e leaves the text unchanged.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns how much e grows the text.
func (e Edit) Delta() int {
	return len(e.NewText) - e.Range.Len()
}
