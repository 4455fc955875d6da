package dsv

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
)

func newTestModel(t *testing.T, data string, header bool) *Model {
	t.Helper()
	m, err := New(Options{Data: data, Quote: DefaultQuote, Header: header})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestNewDefaults(t *testing.T) {
	m := newTestModel(t, "a,b\n1,2\n3,4", true)

	if m.Delimiter() != "," || m.RowDelimiter() != "\n" {
		t.Errorf("unexpected separators %q %q", m.Delimiter(), m.RowDelimiter())
	}
	if got := m.RowCount(RegionBody); got != 2 {
		t.Errorf("RowCount(body) = %d, want 2", got)
	}
	if got := m.ColumnCount(RegionBody); got != 2 {
		t.Errorf("ColumnCount(body) = %d, want 2", got)
	}
	if got := m.Header(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Header() = %v", got)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"same separators", Options{Delimiter: "\n", RowDelimiter: "\n"}},
		{"quote is delimiter", Options{Delimiter: "'", Quote: '\''}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestOffsetIndex(t *testing.T) {
	m := newTestModel(t, "a,b\n1,2\n3,4", true)

	tests := []struct {
		row, col int
		want     int
	}{
		{0, 0, 0},
		{0, 1, 2},
		{1, 0, 4},
		{1, 1, 6},
		{2, 0, 8},
		{2, 1, 10},
		{3, 0, 11}, // end of text
		{3, 1, -1},
		{-1, 0, -1},
	}
	for _, tt := range tests {
		if got := m.OffsetIndex(tt.row, tt.col); got != tt.want {
			t.Errorf("OffsetIndex(%d, %d) = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestTrailingRowDelimiter(t *testing.T) {
	m := newTestModel(t, "a,b\n1,2\n", true)
	if got := m.RowCount(RegionBody); got != 1 {
		t.Errorf("RowCount = %d, want 1", got)
	}
	if got := m.Data(RegionBody, 0, 1); got != "2" {
		t.Errorf("Data(0,1) = %q, want %q", got, "2")
	}
}

func TestEmptyText(t *testing.T) {
	m := newTestModel(t, "", false)
	if m.RowCount(RegionBody) != 0 || m.ColumnCount(RegionBody) != 0 {
		t.Errorf("expected empty grid, got %dx%d", m.RowCount(RegionBody), m.ColumnCount(RegionBody))
	}
	if err := m.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestQuotedFields(t *testing.T) {
	m := newTestModel(t, "name,note\nx,\"a,b\"\ny,\"say \"\"hi\"\"\"", true)

	if got := m.RowCount(RegionBody); got != 2 {
		t.Fatalf("RowCount = %d, want 2", got)
	}
	if got := m.Data(RegionBody, 0, 1); got != "a,b" {
		t.Errorf("Data(0,1) = %q", got)
	}
	if got := m.Data(RegionBody, 1, 1); got != `say "hi"` {
		t.Errorf("Data(1,1) = %q", got)
	}
	if err := m.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestQuotedRowDelimiter(t *testing.T) {
	m := newTestModel(t, "a,b\n\"1\n2\",3", true)
	if got := m.RowCount(RegionBody); got != 1 {
		t.Fatalf("RowCount = %d, want 1", got)
	}
	if got := m.Data(RegionBody, 0, 0); got != "1\n2" {
		t.Errorf("Data(0,0) = %q", got)
	}
}

func TestCheckMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"short row", "a,b\n1"},
		{"long row", "a,b\n1,2,3"},
		{"open quote", "a,b\n\"1,2"},
		{"text after quote", "a,b\n\"1\"x,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, tt.data, true)
			if err := m.Check(); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestHeaderRegions(t *testing.T) {
	m := newTestModel(t, "a,b\n1,2", true)
	if got := m.Data(RegionColumnHeader, 0, 1); got != "b" {
		t.Errorf("column header = %q", got)
	}
	if got := m.Data(RegionRowHeader, 0, 0); got != "1" {
		t.Errorf("row header = %q", got)
	}

	n := newTestModel(t, "1,2", false)
	if got := n.Data(RegionColumnHeader, 0, 1); got != "2" {
		t.Errorf("numbered column header = %q", got)
	}
	if n.Header() == nil || len(n.Header()) != 0 {
		t.Errorf("expected empty header, got %v", n.Header())
	}
}

func TestReparse(t *testing.T) {
	m := newTestModel(t, "a,b\n1,2", true)

	var calls atomic.Int32
	m.OnParsed(func(ev ParseEvent) {
		calls.Add(1)
		if ev.Rows != 3 || ev.Columns != 2 {
			t.Errorf("unexpected parse event %+v", ev)
		}
	})

	m.SetRawData("a,b\n1,2\n3,4")
	if got := m.RowCount(RegionBody); got != 1 {
		t.Errorf("RowCount before reparse = %d, want stale 1", got)
	}

	if err := m.Reparse(context.Background()); err != nil {
		t.Fatalf("Reparse: %v", err)
	}
	if got := m.RowCount(RegionBody); got != 2 {
		t.Errorf("RowCount after reparse = %d, want 2", got)
	}
	if got := m.Data(RegionBody, 1, 0); got != "3" {
		t.Errorf("Data(1,0) = %q", got)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 listener call, got %d", calls.Load())
	}
}

func TestReparseCancelled(t *testing.T) {
	m := newTestModel(t, "a", false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Either outcome is acceptable when the context is already done; the
	// call must not block.
	_ = m.Reparse(ctx)
}

func TestSplit(t *testing.T) {
	got := Split("1\t2\n\"x\ty\"\t3\n", "\t", "\n", '"')
	want := [][]string{{"1", "2"}, {"x\ty", "3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		value string
		force bool
		want  string
	}{
		{"plain", false, "plain"},
		{"a,b", false, `"a,b"`},
		{"a\nb", false, "\"a\nb\""},
		{`say "hi"`, false, `"say ""hi"""`},
		{"plain", true, `"plain"`},
		{"", true, `""`},
	}
	for _, tt := range tests {
		got := Encode(tt.value, ",", "\n", '"', tt.force)
		if got != tt.want {
			t.Errorf("Encode(%q, %v) = %q, want %q", tt.value, tt.force, got, tt.want)
		}
		if back := Decode(got, '"'); back != tt.value {
			t.Errorf("Decode(%q) = %q, want %q", got, back, tt.value)
		}
	}

	if got := Encode("a,b", ",", "\n", 0, true); got != "a,b" {
		t.Errorf("Encode without quote = %q", got)
	}
}
