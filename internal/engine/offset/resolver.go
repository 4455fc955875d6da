package offset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine/buffer"
)

// ErrOutOfRange indicates a coordinate outside the current grid.
var ErrOutOfRange = errors.New("coordinate out of range")

// Index is the parsed view of a DSV buffer the resolver reads from.
// OffsetIndex takes raw rows; the counts are body-relative.
type Index interface {
	RowCount(region dsv.Region) int
	ColumnCount(region dsv.Region) int
	OffsetIndex(row, column int) int
	RawData() string
	Delimiter() string
	RowDelimiter() string
	HasHeader() bool
}

// Resolver computes byte boundaries of cells and rows.
type Resolver struct {
	idx Index
}

// NewResolver creates a resolver over idx.
func NewResolver(idx Index) *Resolver {
	return &Resolver{idx: idx}
}

// RowCount returns the number of body rows.
func (r *Resolver) RowCount() int {
	return r.idx.RowCount(dsv.RegionBody)
}

// ColumnCount returns the number of columns.
func (r *Resolver) ColumnCount() int {
	return r.idx.ColumnCount(dsv.RegionBody)
}

// minRow is -1 when the header row is addressable.
func (r *Resolver) minRow() int {
	if r.idx.HasHeader() {
		return -1
	}
	return 0
}

func (r *Resolver) rawRow(row int) int {
	if r.idx.HasHeader() {
		return row + 1
	}
	return row
}

// Check returns ErrOutOfRange unless c addresses an existing row or cell.
func (r *Resolver) Check(c Coord) error {
	if c.Row < r.minRow() || c.Row >= r.RowCount() {
		return fmt.Errorf("row %d of %d: %w", c.Row, r.RowCount(), ErrOutOfRange)
	}
	if c.HasColumn && (c.Column < 0 || c.Column >= r.ColumnCount()) {
		return fmt.Errorf("column %d of %d: %w", c.Column, r.ColumnCount(), ErrOutOfRange)
	}
	return nil
}

// FirstIndex returns the offset where the row or cell begins. With extend
// set, coordinates one past the last row or column are accepted and resolve
// to the end of the buffer or the end of the row respectively.
func (r *Resolver) FirstIndex(c Coord, extend bool) (int, error) {
	if extend {
		if c.Row < r.minRow() || c.Row > r.RowCount() ||
			(c.HasColumn && (c.Column < 0 || c.Column > r.ColumnCount())) {
			return 0, fmt.Errorf("extension %s: %w", c, ErrOutOfRange)
		}
	} else if err := r.Check(c); err != nil {
		return 0, err
	}

	col := 0
	if c.HasColumn {
		col = c.Column
	}
	off := r.idx.OffsetIndex(r.rawRow(c.Row), col)
	if off < 0 {
		return 0, fmt.Errorf("no offset for %s: %w", c, ErrOutOfRange)
	}
	return off, nil
}

// LastIndex returns the offset one past the content of the cell, before the
// separator that follows it. For a whole row it is RowEnd.
func (r *Resolver) LastIndex(c Coord) (int, error) {
	if err := r.Check(c); err != nil {
		return 0, err
	}
	if !c.HasColumn || c.Column == r.ColumnCount()-1 {
		return r.RowEnd(c.Row), nil
	}
	next := r.idx.OffsetIndex(r.rawRow(c.Row), c.Column+1)
	return next - len(r.idx.Delimiter()), nil
}

// Range returns the [FirstIndex, LastIndex) range of the cell or row.
func (r *Resolver) Range(c Coord) (buffer.Range, error) {
	start, err := r.FirstIndex(c, false)
	if err != nil {
		return buffer.Range{}, err
	}
	end, err := r.LastIndex(c)
	if err != nil {
		return buffer.Range{}, err
	}
	return buffer.NewRange(start, end), nil
}

// RowEnd returns the offset where the row's content ends. For every row but
// the last this is the start of its row delimiter. For the last row it is
// the end of the buffer, less a trailing row delimiter if there is one.
func (r *Resolver) RowEnd(row int) int {
	raw := r.rawRow(row)
	total := r.RowCount() + r.rawRow(0)
	if raw < total-1 {
		return r.idx.OffsetIndex(raw+1, 0) - len(r.idx.RowDelimiter())
	}

	text := r.idx.RawData()
	end := len(text)
	if total > 0 && strings.HasSuffix(text, r.idx.RowDelimiter()) {
		end -= len(r.idx.RowDelimiter())
	}
	return end
}

// IsTrimOperation reports whether removing c must consume the separator
// before it: true for the last column, or the last row when c is a row.
func (r *Resolver) IsTrimOperation(c Coord) bool {
	if c.HasColumn {
		return c.Column == r.ColumnCount()-1
	}
	return c.Row == r.RowCount()-1
}

// IsExtensionOperation reports whether c lies at or past the current counts.
func (r *Resolver) IsExtensionOperation(c Coord) bool {
	if c.HasColumn {
		return c.Column >= r.ColumnCount()
	}
	return c.Row >= r.RowCount()
}

// PreviousCell returns the row-major predecessor of c. Row coordinates step
// by whole rows.
func (r *Resolver) PreviousCell(c Coord) Coord {
	if !c.HasColumn {
		return Row(c.Row - 1)
	}
	if c.Column > 0 {
		return Cell(c.Row, c.Column-1)
	}
	return Cell(c.Row-1, r.ColumnCount()-1)
}

// NextCell returns the row-major successor of c. Row coordinates step by
// whole rows.
func (r *Resolver) NextCell(c Coord) Coord {
	if !c.HasColumn {
		return Row(c.Row + 1)
	}
	if c.Column < r.ColumnCount()-1 {
		return Cell(c.Row, c.Column+1)
	}
	return Cell(c.Row+1, 0)
}
