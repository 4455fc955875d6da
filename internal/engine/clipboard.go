package engine

import (
	"strings"

	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine/change"
	"github.com/dshills/dsvedit/internal/engine/offset"
	"github.com/dshills/dsvedit/internal/engine/splice"
)

// ClipboardMode selects whether CutAndCopy empties the cells it reads.
type ClipboardMode uint8

const (
	// ModeCutCells copies the selection and clears it.
	ModeCutCells ClipboardMode = iota
	// ModeCopyCells copies the selection and leaves the buffer unchanged.
	ModeCopyCells
)

// String returns the mode name.
func (m ClipboardMode) String() string {
	switch m {
	case ModeCutCells:
		return "cut-cells"
	case ModeCopyCells:
		return "copy-cells"
	default:
		return "unknown"
	}
}

// Clipboard holds decoded cell values, row-major.
type Clipboard [][]string

// Rows returns the number of rows held.
func (c Clipboard) Rows() int {
	return len(c)
}

// Columns returns the width of the widest row held.
func (c Clipboard) Columns() int {
	n := 0
	for _, row := range c {
		n = max(n, len(row))
	}
	return n
}

func (c Clipboard) clone() Clipboard {
	if c == nil {
		return nil
	}
	out := make(Clipboard, len(c))
	for i, row := range c {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Selection is an inclusive rectangle of body cells. The corners may be
// given in any order.
type Selection struct {
	StartRow    int
	StartColumn int
	EndRow      int
	EndColumn   int
}

// Cells returns a selection covering a single cell.
func Cells(row, column int) Selection {
	return Selection{StartRow: row, StartColumn: column, EndRow: row, EndColumn: column}
}

// Normalize returns the selection with its start corner top-left.
func (s Selection) Normalize() Selection {
	if s.StartRow > s.EndRow {
		s.StartRow, s.EndRow = s.EndRow, s.StartRow
	}
	if s.StartColumn > s.EndColumn {
		s.StartColumn, s.EndColumn = s.EndColumn, s.StartColumn
	}
	return s
}

// Rows returns the number of rows covered.
func (s Selection) Rows() int {
	n := s.Normalize()
	return n.EndRow - n.StartRow + 1
}

// Columns returns the number of columns covered.
func (s Selection) Columns() int {
	n := s.Normalize()
	return n.EndColumn - n.StartColumn + 1
}

func (s Selection) check(ss *splice.Session) error {
	n := s.Normalize()
	if err := checkBody(ss, offset.Cell(n.StartRow, n.StartColumn)); err != nil {
		return err
	}
	return checkBody(ss, offset.Cell(n.EndRow, n.EndColumn))
}

// Clipboard returns a copy of the internal clipboard.
func (m *Model) Clipboard() Clipboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipboard.clone()
}

// ClearClipboard empties the internal clipboard so that Paste uses the data
// it is given.
func (m *Model) ClearClipboard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipboard = nil
}

func (m *Model) setClipboard(c Clipboard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipboard = c
}

// CutAndCopy reads the selected cells into the clipboard. In cut mode the
// cells are emptied as one operation; copy mode leaves the buffer and the
// history untouched.
func (m *Model) CutAndCopy(sel Selection, mode ClipboardMode) error {
	if mode == ModeCopyCells {
		s := splice.NewSession(m.doc)
		clip, err := m.readCells(s, sel, false)
		if err != nil {
			return err
		}
		m.setClipboard(clip)
		return nil
	}

	return m.apply("cut cells", func(s *splice.Session) (change.Descriptor, []string, error) {
		clip, err := m.readCells(s, sel, true)
		if err != nil {
			return change.Descriptor{}, nil, err
		}
		m.setClipboard(clip)
		n := sel.Normalize()
		return change.CellsChanged(n.StartRow, n.StartColumn, n.Rows(), n.Columns()), nil, nil
	})
}

// readCells decodes the selected cells, high index first, and optionally
// queues their removal.
func (m *Model) readCells(s *splice.Session, sel Selection, remove bool) (Clipboard, error) {
	if err := sel.check(s); err != nil {
		return nil, err
	}
	n := sel.Normalize()
	clip := make(Clipboard, n.Rows())
	for i := range clip {
		clip[i] = make([]string, n.Columns())
	}
	for r := n.EndRow; r >= n.StartRow; r-- {
		for c := n.EndColumn; c >= n.StartColumn; c-- {
			field, err := s.SliceOut(offset.Cell(r, c), true, !remove)
			if err != nil {
				return nil, err
			}
			clip[r-n.StartRow][c-n.StartColumn] = dsv.Decode(field, m.doc.Quote())
		}
	}
	return clip, nil
}

// Paste writes the clipboard, or data when the clipboard is empty, into the
// grid starting at start. Values falling outside the grid are dropped.
// Pasting with nothing to paste does nothing. Any in-progress cell edit is
// cancelled first.
func (m *Model) Paste(start offset.Coord, data string) error {
	m.notifier.CancelEditing()

	values := m.Clipboard()
	if values.Rows() == 0 {
		values = m.splitPaste(data)
	}
	if values.Rows() == 0 {
		return nil
	}

	return m.apply("paste", func(s *splice.Session) (change.Descriptor, []string, error) {
		at := offset.Cell(start.Row, start.Column)
		if err := checkBody(s, at); err != nil {
			return change.Descriptor{}, nil, err
		}
		res := s.Resolver()
		rows := min(values.Rows(), res.RowCount()-at.Row)
		cols := 0
		for r := rows - 1; r >= 0; r-- {
			row := values[r]
			n := min(len(row), res.ColumnCount()-at.Column)
			cols = max(cols, n)
			for c := n - 1; c >= 0; c-- {
				if err := m.overwrite(s, offset.Cell(at.Row+r, at.Column+c), row[c]); err != nil {
					return change.Descriptor{}, nil, err
				}
			}
		}
		if cols == 0 {
			return change.Descriptor{}, nil, nil
		}
		return change.CellsChanged(at.Row, at.Column, rows, cols), nil, nil
	})
}

// splitPaste parses external text with the paste separators. Quoted fields
// are decoded and a trailing row separator does not start a row.
func (m *Model) splitPaste(data string) Clipboard {
	if data == "" {
		return nil
	}
	if m.pasteRowSeparator == "\n" {
		data = strings.ReplaceAll(data, "\r\n", "\n")
	}
	return dsv.Split(data, m.pasteFieldSeparator, m.pasteRowSeparator, m.doc.Quote())
}

// ClearRegion empties cells as one undoable step. A column header clears
// column c.Column, a row header clears row c.Row, the corner clears the
// whole grid and the body clears sel.
func (m *Model) ClearRegion(region dsv.Region, c offset.Coord, sel Selection) error {
	m.log.Begin()
	defer m.log.End()

	return m.apply("clear region", func(s *splice.Session) (change.Descriptor, []string, error) {
		res := s.Resolver()
		if res.RowCount() == 0 || res.ColumnCount() == 0 {
			return change.Descriptor{}, nil, nil
		}
		lastRow, lastCol := res.RowCount()-1, res.ColumnCount()-1

		switch region {
		case dsv.RegionColumnHeader:
			sel = Selection{StartRow: 0, StartColumn: c.Column, EndRow: lastRow, EndColumn: c.Column}
		case dsv.RegionRowHeader:
			sel = Selection{StartRow: c.Row, StartColumn: 0, EndRow: c.Row, EndColumn: lastCol}
		case dsv.RegionCornerHeader:
			sel = Selection{EndRow: lastRow, EndColumn: lastCol}
		}

		if _, err := m.readCells(s, sel, true); err != nil {
			return change.Descriptor{}, nil, err
		}
		n := sel.Normalize()
		return change.CellsChanged(n.StartRow, n.StartColumn, n.Rows(), n.Columns()), nil, nil
	})
}
