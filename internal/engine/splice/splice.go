// Package splice extracts, removes and inserts DSV segments in a raw buffer.
//
// A Session is opened against the buffer as last parsed. Every primitive
// resolves its boundaries through an offset.Resolver and queues an edit;
// Text applies the queued edits in one pass. Offsets therefore always refer
// to the parsed text, and the order in which segments are queued does not
// invalidate later lookups.
package splice

import (
	"strings"

	"github.com/dshills/dsvedit/internal/engine/buffer"
	"github.com/dshills/dsvedit/internal/engine/offset"
)

// Document is the parsed buffer a session splices.
type Document interface {
	offset.Index
	Quote() byte
}

// Session queues splices against one parse of a document.
type Session struct {
	doc   Document
	res   *offset.Resolver
	src   string
	batch buffer.Batch
}

// NewSession opens a session over the document's current text.
func NewSession(doc Document) *Session {
	return &Session{
		doc: doc,
		res: offset.NewResolver(doc),
		src: doc.RawData(),
	}
}

// Resolver returns the resolver the session uses.
func (s *Session) Resolver() *offset.Resolver {
	return s.res
}

// Source returns the text the session was opened on.
func (s *Session) Source() string {
	return s.src
}

// Len returns the number of queued edits.
func (s *Session) Len() int {
	return s.batch.Len()
}

// Text returns the source with every queued edit applied.
func (s *Session) Text() (string, error) {
	return s.batch.Apply(s.src)
}

// SliceOut returns the text of the segment at c and, unless keepingValue is
// set, queues its removal.
//
// With keepingCell set the segment is the cell's own content, so removing it
// empties the cell and leaves its separators in place. Otherwise the segment
// also takes one separator so the cell or row disappears: the one before it
// for a trim operation, the one after it for anything else.
func (s *Session) SliceOut(c offset.Coord, keepingCell, keepingValue bool) (string, error) {
	rg, err := s.sliceRange(c, keepingCell)
	if err != nil {
		return "", err
	}
	text := rg.Slice(s.src)
	if !keepingValue {
		s.batch.Add(buffer.NewDelete(rg.Start, rg.End))
	}
	return text, nil
}

func (s *Session) sliceRange(c offset.Coord, keepingCell bool) (buffer.Range, error) {
	if keepingCell {
		return s.res.Range(c)
	}

	start, err := s.res.FirstIndex(c, false)
	if err != nil {
		return buffer.Range{}, err
	}
	end, err := s.res.LastIndex(c)
	if err != nil {
		return buffer.Range{}, err
	}

	if s.res.IsTrimOperation(c) {
		prev := s.res.PreviousCell(c)
		switch {
		case c.HasColumn && c.Column == 0:
			// A lone column has no separator to give up.
		case c.HasColumn:
			if start, err = s.res.LastIndex(offset.Cell(c.Row, prev.Column)); err != nil {
				return buffer.Range{}, err
			}
		case s.res.Check(prev) == nil:
			start = s.res.RowEnd(prev.Row)
		default:
			// The only row: take the whole buffer, trailing delimiter included.
			return buffer.NewRange(0, len(s.src)), nil
		}
		return buffer.NewRange(start, end), nil
	}

	next, err := s.res.FirstIndex(s.res.NextCell(c), false)
	if err != nil {
		return buffer.Range{}, err
	}
	return buffer.NewRange(start, next), nil
}

// InsertAt queues text for insertion at c. An extension coordinate appends
// after the end of the previous segment; any other coordinate inserts at its
// first index, pushing the existing segment right.
func (s *Session) InsertAt(text string, c offset.Coord) error {
	off, err := s.insertOffset(c)
	if err != nil {
		return err
	}
	s.batch.Add(buffer.NewInsert(off, text))
	return nil
}

func (s *Session) insertOffset(c offset.Coord) (int, error) {
	if !s.res.IsExtensionOperation(c) {
		return s.res.FirstIndex(c, false)
	}
	if _, err := s.res.FirstIndex(c, true); err != nil {
		return 0, err
	}
	prev := s.res.PreviousCell(c)
	if !c.HasColumn {
		if s.res.Check(prev) != nil {
			return 0, nil
		}
		return s.res.RowEnd(prev.Row), nil
	}
	return s.res.RowEnd(c.Row), nil
}

// Overwrite replaces the content of the cell at c and returns the old text.
func (s *Session) Overwrite(c offset.Coord, text string) (string, error) {
	old, err := s.SliceOut(c, true, false)
	if err != nil {
		return "", err
	}
	if err := s.InsertAt(text, c); err != nil {
		return "", err
	}
	return old, nil
}

// Appending reports whether a row inserted at rowIndex lands past the last
// existing row.
func (s *Session) Appending(rowIndex int) bool {
	return s.res.IsExtensionOperation(offset.Row(rowIndex))
}

// BlankRow returns the text of an empty row for insertion at rowIndex:
// one delimiter between each pair of columns and one row delimiter. When
// the row is appended the row delimiter leads, so the new last row carries
// no trailing delimiter of its own.
func (s *Session) BlankRow(rowIndex int) string {
	n := s.res.ColumnCount() - 1
	if n < 0 {
		n = 0
	}
	fields := strings.Repeat(s.doc.Delimiter(), n)
	if !s.Appending(rowIndex) {
		return fields + s.doc.RowDelimiter()
	}
	if s.res.RowCount()+rawHeaderRows(s.doc) == 0 {
		return fields
	}
	return s.doc.RowDelimiter() + fields
}

// ColumnSegment returns the text inserted into one row for a new column:
// the field value and a delimiter, with the delimiter leading when the
// column is appended after the last one.
func (s *Session) ColumnSegment(value string, appending bool) string {
	if appending {
		return s.doc.Delimiter() + value
	}
	return value + s.doc.Delimiter()
}

// RowText returns the content of a row without its row delimiter.
func (s *Session) RowText(row int) (string, error) {
	rg, err := s.res.Range(offset.Row(row))
	if err != nil {
		return "", err
	}
	return rg.Slice(s.src), nil
}

// Field returns the raw text of a cell, quotes included.
func (s *Session) Field(c offset.Coord) (string, error) {
	return s.SliceOut(c, true, true)
}

func rawHeaderRows(doc Document) int {
	if doc.HasHeader() {
		return 1
	}
	return 0
}
