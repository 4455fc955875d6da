package dsv

import "strings"

// index locates every raw row and field of one version of the text.
type index struct {
	rowStarts   []int
	rowEnds     []int
	firstField  []int // index into fieldStarts for each row
	fieldStarts []int
	columns     int
	textLen     int

	// rows whose quoting does not close before the next delimiter
	badQuotes []int
}

func (ix *index) rows() int {
	return len(ix.rowStarts)
}

func (ix *index) fieldCount(row int) int {
	if row < 0 || row >= len(ix.rowStarts) {
		return 0
	}
	end := len(ix.fieldStarts)
	if row+1 < len(ix.firstField) {
		end = ix.firstField[row+1]
	}
	return end - ix.firstField[row]
}

func (ix *index) fieldStart(row, column int) int {
	return ix.fieldStarts[ix.firstField[row]+column]
}

// parse scans text once and records row and field boundaries.
//
// A row delimiter at the very end of the text terminates the last row and
// does not start a new one (RFC 4180 §2.2).
func parse(text, delimiter, rowDelimiter string, quote byte) *index {
	ix := &index{textLen: len(text)}
	n := len(text)
	pos := 0

	for pos < n {
		ix.rowStarts = append(ix.rowStarts, pos)
		ix.firstField = append(ix.firstField, len(ix.fieldStarts))
		row := len(ix.rowStarts) - 1
		badQuote := false

		for {
			ix.fieldStarts = append(ix.fieldStarts, pos)

			if quote != 0 && pos < n && text[pos] == quote {
				pos++
				closed := false
				for pos < n {
					if text[pos] == quote {
						if pos+1 < n && text[pos+1] == quote {
							pos += 2
							continue
						}
						pos++
						closed = true
						break
					}
					pos++
				}
				if !closed {
					badQuote = true
				} else if pos < n && !strings.HasPrefix(text[pos:], delimiter) && !strings.HasPrefix(text[pos:], rowDelimiter) {
					badQuote = true
				}
			}

			for pos < n && !strings.HasPrefix(text[pos:], delimiter) && !strings.HasPrefix(text[pos:], rowDelimiter) {
				pos++
			}

			if pos >= n {
				ix.rowEnds = append(ix.rowEnds, n)
				break
			}
			if strings.HasPrefix(text[pos:], rowDelimiter) {
				ix.rowEnds = append(ix.rowEnds, pos)
				pos += len(rowDelimiter)
				break
			}
			pos += len(delimiter)
		}

		if badQuote {
			ix.badQuotes = append(ix.badQuotes, row)
		}
	}

	if len(ix.rowStarts) > 0 {
		ix.columns = ix.fieldCount(0)
	}
	return ix
}

// fieldText returns the undecoded text of a field.
func (ix *index) fieldText(text, delimiter string, row, column int) string {
	start := ix.fieldStart(row, column)
	end := ix.rowEnds[row]
	if column+1 < ix.fieldCount(row) {
		end = ix.fieldStart(row, column+1) - len(delimiter)
	}
	return text[start:end]
}

// Decode strips the enclosing quotes of a field and collapses doubled quotes.
// Unquoted fields are returned unchanged.
func Decode(field string, quote byte) string {
	if quote == 0 || len(field) < 2 || field[0] != quote || field[len(field)-1] != quote {
		return field
	}
	q := string(quote)
	return strings.ReplaceAll(field[1:len(field)-1], q+q, q)
}

// Encode returns value as field text. The value is quoted when it contains
// the delimiter, the row delimiter, or the quote character, or when force is
// set. Encode never quotes when quote is zero.
func Encode(value, delimiter, rowDelimiter string, quote byte, force bool) string {
	if quote == 0 {
		return value
	}
	q := string(quote)
	needs := force ||
		strings.Contains(value, delimiter) ||
		strings.Contains(value, rowDelimiter) ||
		strings.Contains(value, q)
	if !needs {
		return value
	}
	return q + strings.ReplaceAll(value, q, q+q) + q
}

// Split parses text into decoded rows of fields using the given separators.
// It is used for data that does not belong to a Model, such as pasted text.
// A trailing row separator does not produce an empty row.
func Split(text, delimiter, rowDelimiter string, quote byte) [][]string {
	ix := parse(text, delimiter, rowDelimiter, quote)
	out := make([][]string, ix.rows())
	for r := range out {
		fields := make([]string, ix.fieldCount(r))
		for c := range fields {
			fields[c] = Decode(ix.fieldText(text, delimiter, r, c), quote)
		}
		out[r] = fields
	}
	return out
}
