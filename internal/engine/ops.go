package engine

import (
	"fmt"

	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine/change"
	"github.com/dshills/dsvedit/internal/engine/offset"
	"github.com/dshills/dsvedit/internal/engine/splice"
)

// checkBody rejects coordinates outside the data body. The header row is
// addressable by the resolver but not by callers.
func checkBody(s *splice.Session, c offset.Coord) error {
	if c.Row < 0 {
		return fmt.Errorf("row %d: %w", c.Row, ErrOutOfRange)
	}
	return s.Resolver().Check(c)
}

// rawRows returns the rows every column edit must touch, header first.
func rawRows(s *splice.Session) []int {
	res := s.Resolver()
	first := 0
	if res.Check(offset.Row(-1)) == nil {
		first = -1
	}
	rows := make([]int, 0, res.RowCount()-first)
	for r := first; r < res.RowCount(); r++ {
		rows = append(rows, r)
	}
	return rows
}

func (m *Model) encode(value string, force bool) string {
	return dsv.Encode(value, m.doc.Delimiter(), m.doc.RowDelimiter(), m.doc.Quote(), force)
}

func (m *Model) quoted(field string) bool {
	q := m.doc.Quote()
	return q != 0 && len(field) > 0 && field[0] == q
}

// overwrite queues the replacement of one cell's value. A cell that already
// holds value is left alone, and a quoted field stays quoted.
func (m *Model) overwrite(s *splice.Session, c offset.Coord, value string) error {
	old, err := s.Field(c)
	if err != nil {
		return err
	}
	if dsv.Decode(old, m.doc.Quote()) == value {
		return nil
	}
	_, err = s.Overwrite(c, m.encode(value, m.quoted(old)))
	return err
}

// SetCell replaces the value of one body cell.
func (m *Model) SetCell(row, column int, value string) error {
	return m.apply("set cell", func(s *splice.Session) (change.Descriptor, []string, error) {
		c := offset.Cell(row, column)
		if err := checkBody(s, c); err != nil {
			return change.Descriptor{}, nil, err
		}
		if err := m.overwrite(s, c, value); err != nil {
			return change.Descriptor{}, nil, err
		}
		return change.CellsChanged(row, column, 1, 1), nil, nil
	})
}

// SetData is SetCell.
func (m *Model) SetData(row, column int, value string) error {
	return m.SetCell(row, column, value)
}

// AddRow inserts a blank row so that it becomes row index. Index may equal
// the row count to append.
func (m *Model) AddRow(index int) error {
	return m.apply("add row", func(s *splice.Session) (change.Descriptor, []string, error) {
		res := s.Resolver()
		if index < 0 || index > res.RowCount() {
			return change.Descriptor{}, nil, fmt.Errorf("row %d of %d: %w", index, res.RowCount(), ErrOutOfRange)
		}
		if res.ColumnCount() == 0 {
			return change.Descriptor{}, nil, ErrNoColumns
		}
		if err := s.InsertAt(s.BlankRow(index), offset.Row(index)); err != nil {
			return change.Descriptor{}, nil, err
		}
		return change.RowsInserted(index, 1), nil, nil
	})
}

// RemoveRow deletes one body row.
func (m *Model) RemoveRow(index int) error {
	return m.apply("remove row", func(s *splice.Session) (change.Descriptor, []string, error) {
		c := offset.Row(index)
		if err := checkBody(s, c); err != nil {
			return change.Descriptor{}, nil, err
		}
		if _, err := s.SliceOut(c, false, false); err != nil {
			return change.Descriptor{}, nil, err
		}
		return change.RowsRemoved(index, 1), nil, nil
	})
}

// AddColumn inserts an empty column so that it becomes column index. The
// header row gets the label produced for the previous column count. Index
// may equal the column count to append.
func (m *Model) AddColumn(index int) error {
	return m.apply("add column", func(s *splice.Session) (change.Descriptor, []string, error) {
		res := s.Resolver()
		cols := res.ColumnCount()
		if cols == 0 {
			return change.Descriptor{}, nil, ErrNoColumns
		}
		if index < 0 || index > cols {
			return change.Descriptor{}, nil, fmt.Errorf("column %d of %d: %w", index, cols, ErrOutOfRange)
		}

		label, err := m.labeler.Label(cols)
		if err != nil {
			return change.Descriptor{}, nil, fmt.Errorf("label column %d: %w", cols, err)
		}

		appending := index == cols
		for _, r := range rawRows(s) {
			value := ""
			if r < 0 {
				value = m.encode(label, false)
			}
			if err := s.InsertAt(s.ColumnSegment(value, appending), offset.Cell(r, index)); err != nil {
				return change.Descriptor{}, nil, err
			}
		}

		var header []string
		if m.doc.HasHeader() {
			header = insertAt(m.doc.Header(), index, label)
		}
		return change.ColumnsInserted(index, 1), header, nil
	})
}

// RemoveColumn deletes one column, header field included. The last
// remaining column cannot be removed.
func (m *Model) RemoveColumn(index int) error {
	return m.apply("remove column", func(s *splice.Session) (change.Descriptor, []string, error) {
		res := s.Resolver()
		if index < 0 || index >= res.ColumnCount() {
			return change.Descriptor{}, nil, fmt.Errorf("column %d of %d: %w", index, res.ColumnCount(), ErrOutOfRange)
		}
		if res.ColumnCount() == 1 {
			return change.Descriptor{}, nil, ErrLastColumn
		}

		for _, r := range rawRows(s) {
			if _, err := s.SliceOut(offset.Cell(r, index), false, false); err != nil {
				return change.Descriptor{}, nil, err
			}
		}

		var header []string
		if m.doc.HasHeader() {
			header = removeAt(m.doc.Header(), index)
		}
		return change.ColumnsRemoved(index, 1), header, nil
	})
}

// MoveRow moves row src so that it becomes row dst.
func (m *Model) MoveRow(src, dst int) error {
	return m.apply("move row", func(s *splice.Session) (change.Descriptor, []string, error) {
		res := s.Resolver()
		if err := checkMove(src, dst, res.RowCount()); err != nil {
			return change.Descriptor{}, nil, err
		}
		if src == dst {
			return change.Descriptor{}, nil, nil
		}

		text, err := s.RowText(src)
		if err != nil {
			return change.Descriptor{}, nil, err
		}
		rd := m.doc.RowDelimiter()

		// The row leaves with the delimiter on the side SliceOut trims and
		// lands with one on the side facing its new neighbour.
		if _, err := s.SliceOut(offset.Row(src), false, false); err != nil {
			return change.Descriptor{}, nil, err
		}
		switch {
		case src > dst:
			err = s.InsertAt(text+rd, offset.Row(dst))
		case dst == res.RowCount()-1:
			err = s.InsertAt(rd+text, offset.Row(dst+1))
		default:
			err = s.InsertAt(text+rd, offset.Row(dst+1))
		}
		if err != nil {
			return change.Descriptor{}, nil, err
		}
		return change.RowsMoved(src, dst, 1), nil, nil
	})
}

// MoveColumn moves column src so that it becomes column dst, header field
// and header label included.
func (m *Model) MoveColumn(src, dst int) error {
	return m.apply("move column", func(s *splice.Session) (change.Descriptor, []string, error) {
		res := s.Resolver()
		cols := res.ColumnCount()
		if err := checkMove(src, dst, cols); err != nil {
			return change.Descriptor{}, nil, err
		}
		if src == dst {
			return change.Descriptor{}, nil, nil
		}

		for _, r := range rawRows(s) {
			field, err := s.Field(offset.Cell(r, src))
			if err != nil {
				return change.Descriptor{}, nil, err
			}
			if _, err := s.SliceOut(offset.Cell(r, src), false, false); err != nil {
				return change.Descriptor{}, nil, err
			}
			switch {
			case src > dst:
				err = s.InsertAt(s.ColumnSegment(field, false), offset.Cell(r, dst))
			case dst == cols-1:
				err = s.InsertAt(s.ColumnSegment(field, true), offset.Cell(r, cols))
			default:
				err = s.InsertAt(s.ColumnSegment(field, false), offset.Cell(r, dst+1))
			}
			if err != nil {
				return change.Descriptor{}, nil, err
			}
		}

		var header []string
		if m.doc.HasHeader() {
			h := m.doc.Header()
			if src < len(h) && dst < len(h) {
				label := h[src]
				header = insertAt(removeAt(h, src), dst, label)
			}
		}
		return change.ColumnsMoved(src, dst, 1), header, nil
	})
}

func checkMove(src, dst, n int) error {
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return fmt.Errorf("move %d to %d of %d: %w", src, dst, n, ErrOutOfRange)
	}
	return nil
}

func insertAt(list []string, i int, v string) []string {
	if i > len(list) {
		i = len(list)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, v)
	return append(out, list[i:]...)
}

func removeAt(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return append([]string(nil), list...)
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
