package dsv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Errors returned by the dsv package.
var (
	ErrInvalidOptions = errors.New("invalid dsv options")
	ErrMalformed      = errors.New("malformed dsv text")
)

// Default separators.
const (
	DefaultDelimiter    = ","
	DefaultRowDelimiter = "\n"
	DefaultQuote        = '"'
)

// Options configures a Model.
type Options struct {
	// Data is the initial raw text.
	Data string
	// Delimiter separates fields. Defaults to ",".
	Delimiter string
	// RowDelimiter terminates rows. Defaults to "\n".
	RowDelimiter string
	// Quote encloses fields containing separators. Zero disables quoting.
	Quote byte
	// Header treats the first row as column names.
	Header bool
}

// ParseEvent describes a completed parse.
type ParseEvent struct {
	Generation uint64
	Rows       int
	Columns    int
}

// ParseListener is called after a parse result is installed.
type ParseListener func(ParseEvent)

// Model holds raw DSV text and the offset index of its last parse.
// All methods are safe for concurrent use.
type Model struct {
	mu sync.RWMutex

	raw          string
	delimiter    string
	rowDelimiter string
	quote        byte
	hasHeader    bool
	header       []string

	idx *index

	// gen counts SetRawData calls; a parse installs only if it still matches.
	gen       uint64
	parsedGen uint64

	listeners []ParseListener
}

// New creates a model and parses its initial text synchronously.
func New(opts Options) (*Model, error) {
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultDelimiter
	}
	if opts.RowDelimiter == "" {
		opts.RowDelimiter = DefaultRowDelimiter
	}
	if opts.Delimiter == opts.RowDelimiter {
		return nil, fmt.Errorf("delimiter and row delimiter are both %q: %w", opts.Delimiter, ErrInvalidOptions)
	}
	if opts.Quote != 0 && (opts.Delimiter == string(opts.Quote) || opts.RowDelimiter == string(opts.Quote)) {
		return nil, fmt.Errorf("quote %q collides with a separator: %w", opts.Quote, ErrInvalidOptions)
	}

	m := &Model{
		raw:          opts.Data,
		delimiter:    opts.Delimiter,
		rowDelimiter: opts.RowDelimiter,
		quote:        opts.Quote,
		hasHeader:    opts.Header,
	}
	m.idx = parse(m.raw, m.delimiter, m.rowDelimiter, m.quote)
	if m.hasHeader {
		m.header = m.parsedHeaderLocked()
	}
	return m, nil
}

// RawData returns the raw text.
func (m *Model) RawData() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw
}

// SetRawData replaces the raw text. The offset index keeps describing the
// previous text until the next parse completes.
func (m *Model) SetRawData(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = s
	m.gen++
}

// Delimiter returns the field delimiter.
func (m *Model) Delimiter() string { return m.delimiter }

// RowDelimiter returns the row delimiter.
func (m *Model) RowDelimiter() string { return m.rowDelimiter }

// Quote returns the quote character, or zero if quoting is disabled.
func (m *Model) Quote() byte { return m.quote }

// HasHeader reports whether the first raw row holds column names.
func (m *Model) HasHeader() bool { return m.hasHeader }

// Header returns a copy of the column names.
func (m *Model) Header() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.header))
	copy(out, m.header)
	return out
}

// SetHeader replaces the column names.
func (m *Model) SetHeader(h []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.header = append([]string(nil), h...)
}

func (m *Model) parsedHeaderLocked() []string {
	if m.idx.rows() == 0 {
		return []string{}
	}
	n := m.idx.fieldCount(0)
	out := make([]string, n)
	for c := 0; c < n; c++ {
		out[c] = Decode(m.idx.fieldText(m.parsedText(), m.delimiter, 0, c), m.quote)
	}
	return out
}

// parsedText returns the raw text if it still matches the index, which is the
// only text field offsets are valid for. The caller holds mu.
func (m *Model) parsedText() string {
	if m.idx.textLen == len(m.raw) && m.parsedGen == m.gen {
		return m.raw
	}
	return ""
}

// headerRows returns 1 when the first raw row is a header.
func (m *Model) headerRows() int {
	if m.hasHeader {
		return 1
	}
	return 0
}

// RowCount returns the number of rows in a region.
func (m *Model) RowCount(region Region) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if region == RegionColumnHeader || region == RegionCornerHeader {
		return 1
	}
	n := m.idx.rows() - m.headerRows()
	if n < 0 {
		return 0
	}
	return n
}

// ColumnCount returns the number of columns in a region.
func (m *Model) ColumnCount(region Region) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if region == RegionRowHeader || region == RegionCornerHeader {
		return 1
	}
	return m.idx.columns
}

// OffsetIndex returns the offset of the first character of a field in raw
// row coordinates. Columns past the end of a short row resolve to the end of
// that row. The row after the last, with column 0, resolves to the end of the text.
// Anything else out of range returns -1.
func (m *Model) OffsetIndex(row, column int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ix := m.idx
	if row == ix.rows() && column == 0 {
		return ix.textLen
	}
	if row < 0 || row >= ix.rows() || column < 0 {
		return -1
	}
	if column >= ix.fieldCount(row) {
		return ix.rowEnds[row]
	}
	return ix.fieldStart(row, column)
}

// Data returns the decoded value of a cell.
func (m *Model) Data(region Region, row, column int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch region {
	case RegionBody:
		raw := row + m.headerRows()
		if raw < 0 || raw >= m.idx.rows() || column < 0 || column >= m.idx.fieldCount(raw) {
			return ""
		}
		text := m.parsedText()
		if text == "" {
			return ""
		}
		return Decode(m.idx.fieldText(text, m.delimiter, raw, column), m.quote)
	case RegionColumnHeader:
		if m.hasHeader {
			if column >= 0 && column < len(m.header) {
				return m.header[column]
			}
			return ""
		}
		return strconv.Itoa(column + 1)
	case RegionRowHeader:
		return strconv.Itoa(row + 1)
	default:
		return ""
	}
}

// Check reports the first row whose quoting or field count is inconsistent.
func (m *Model) Check() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ix := m.idx
	if len(ix.badQuotes) > 0 {
		return fmt.Errorf("raw row %d: unbalanced quote: %w", ix.badQuotes[0], ErrMalformed)
	}
	for r := 0; r < ix.rows(); r++ {
		if n := ix.fieldCount(r); n != ix.columns {
			return fmt.Errorf("raw row %d has %d fields, want %d: %w", r, n, ix.columns, ErrMalformed)
		}
	}
	return nil
}

// OnParsed registers a listener called after each installed parse.
// Listeners run on the parsing goroutine, before the parse is reported done.
func (m *Model) OnParsed(fn ParseListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// ParseAsync starts parsing the current raw text on a new goroutine.
// The returned channel receives one value and is closed when the result is
// installed. A parse superseded by a later SetRawData is discarded.
func (m *Model) ParseAsync() <-chan error {
	m.mu.RLock()
	text, gen := m.raw, m.gen
	delimiter, rowDelimiter, quote := m.delimiter, m.rowDelimiter, m.quote
	m.mu.RUnlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)

		ix := parse(text, delimiter, rowDelimiter, quote)

		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			done <- nil
			return
		}
		m.idx = ix
		m.parsedGen = gen
		listeners := make([]ParseListener, len(m.listeners))
		copy(listeners, m.listeners)
		m.mu.Unlock()

		ev := ParseEvent{
			Generation: gen,
			Rows:       ix.rows(),
			Columns:    ix.columns,
		}
		for _, fn := range listeners {
			fn(ev)
		}
		done <- nil
	}()
	return done
}

// Reparse parses the current raw text and waits for the result.
func (m *Model) Reparse(ctx context.Context) error {
	select {
	case err := <-m.ParseAsync():
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
