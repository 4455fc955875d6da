package splice

import (
	"errors"
	"testing"

	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine/offset"
)

func newTestSession(t *testing.T, data string, header bool) *Session {
	t.Helper()
	m, err := dsv.New(dsv.Options{Data: data, Quote: '"', Header: header})
	if err != nil {
		t.Fatalf("dsv.New: %v", err)
	}
	return NewSession(m)
}

func mustText(t *testing.T, s *Session) string {
	t.Helper()
	text, err := s.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	return text
}

func TestSliceOut(t *testing.T) {
	const data = "a,b\n1,2\n3,4"

	tests := []struct {
		name        string
		data        string
		header      bool
		c           offset.Coord
		keepingCell bool
		wantSlice   string
		wantText    string
	}{
		{"cell content", data, true, offset.Cell(0, 1), true, "2", "a,b\n1,\n3,4"},
		{"interior cell with delimiter", data, true, offset.Cell(0, 0), false, "1,", "a,b\n2\n3,4"},
		{"last cell trims left", data, true, offset.Cell(1, 1), false, ",4", "a,b\n1,2\n3"},
		{"interior row", data, true, offset.Row(0), false, "1,2\n", "a,b\n3,4"},
		{"last row trims left", data, true, offset.Row(1), false, "\n3,4", "a,b\n1,2"},
		{"last row keeps trailing delimiter", data + "\n", true, offset.Row(1), false, "\n3,4", "a,b\n1,2\n"},
		{"only row with header", "a,b\n1,2", true, offset.Row(0), false, "\n1,2", "a,b"},
		{"only row without header", "1,2\n", false, offset.Row(0), false, "1,2\n", ""},
		{"header cell", data, true, offset.Cell(-1, 0), true, "a", ",b\n1,2\n3,4"},
		{"quoted cell", "a,b\n\"x,y\",2", true, offset.Cell(0, 0), true, "\"x,y\"", "a,b\n,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.data, tt.header)
			got, err := s.SliceOut(tt.c, tt.keepingCell, false)
			if err != nil {
				t.Fatalf("SliceOut: %v", err)
			}
			if got != tt.wantSlice {
				t.Errorf("slice = %q, want %q", got, tt.wantSlice)
			}
			if text := mustText(t, s); text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestSliceOutKeepingValue(t *testing.T) {
	s := newTestSession(t, "a,b\n1,2", true)
	got, err := s.SliceOut(offset.Cell(0, 0), true, true)
	if err != nil {
		t.Fatalf("SliceOut: %v", err)
	}
	if got != "1" {
		t.Errorf("slice = %q", got)
	}
	if s.Len() != 0 {
		t.Errorf("expected no queued edits, got %d", s.Len())
	}
}

func TestSliceOutOutOfRange(t *testing.T) {
	s := newTestSession(t, "a,b\n1,2", true)
	if _, err := s.SliceOut(offset.Cell(1, 0), true, false); !errors.Is(err, offset.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		c        offset.Coord
		text     string
		wantText string
	}{
		{"push right cell", "a,b\n1,2", offset.Cell(0, 1), "x,", "a,b\n1,x,2"},
		{"push right row", "a,b\n1,2", offset.Row(0), ",\n", "a,b\n,\n1,2"},
		{"append column", "a,b\n1,2", offset.Cell(0, 2), ",x", "a,b\n1,2,x"},
		{"append row", "a,b\n1,2", offset.Row(1), "\n,", "a,b\n1,2\n,"},
		{"append row to trailing delimiter", "a,b\n1,2\n", offset.Row(1), "\n,", "a,b\n1,2\n,\n"},
		{"append first body row", "a,b", offset.Row(0), "\n,", "a,b\n,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.data, true)
			if err := s.InsertAt(tt.text, tt.c); err != nil {
				t.Fatalf("InsertAt: %v", err)
			}
			if text := mustText(t, s); text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestOverwrite(t *testing.T) {
	s := newTestSession(t, "a,b\n1,2\n3,4", true)
	old, err := s.Overwrite(offset.Cell(0, 1), "9")
	if err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if old != "2" {
		t.Errorf("old = %q", old)
	}
	if _, err := s.Overwrite(offset.Cell(1, 0), "8"); err != nil {
		t.Fatalf("Overwrite: %v", err)
	}
	if text := mustText(t, s); text != "a,b\n1,9\n8,4" {
		t.Errorf("text = %q", text)
	}
}

func TestBlankRow(t *testing.T) {
	s := newTestSession(t, "a,b,c\n1,2,3", true)
	if got := s.BlankRow(0); got != ",,\n" {
		t.Errorf("BlankRow(0) = %q", got)
	}
	if got := s.BlankRow(1); got != "\n,," {
		t.Errorf("BlankRow(1) = %q", got)
	}

	empty := newTestSession(t, "", false)
	if got := empty.BlankRow(0); got != "" {
		t.Errorf("BlankRow on empty buffer = %q", got)
	}
}

func TestColumnSegment(t *testing.T) {
	s := newTestSession(t, "a,b", true)
	if got := s.ColumnSegment("C", false); got != "C," {
		t.Errorf("ColumnSegment = %q", got)
	}
	if got := s.ColumnSegment("C", true); got != ",C" {
		t.Errorf("ColumnSegment appending = %q", got)
	}
}

func TestRowText(t *testing.T) {
	s := newTestSession(t, "a,b\n1,2\n3,4\n", true)
	got, err := s.RowText(1)
	if err != nil {
		t.Fatalf("RowText: %v", err)
	}
	if got != "3,4" {
		t.Errorf("RowText(1) = %q", got)
	}
}
