package app

import (
	"io"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/dsvedit/internal/dsv"
)

// DefaultCellWidth is the widest a rendered cell may be before it is cut.
const DefaultCellWidth = 24

// Grid is the read side of a grid model.
type Grid interface {
	RowCount(region dsv.Region) int
	ColumnCount(region dsv.Region) int
	Data(region dsv.Region, row, column int) string
}

var controlEscaper = strings.NewReplacer("\r\n", `\r\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Render writes g as an aligned text table. The first line holds the column
// headers and each body row is prefixed by its row header. Widths are measured
// in terminal cells.
func Render(w io.Writer, g Grid, maxWidth int) error {
	if maxWidth <= 0 {
		maxWidth = DefaultCellWidth
	}
	rows := g.RowCount(dsv.RegionBody)
	cols := g.ColumnCount(dsv.RegionBody)

	table := make([][]string, 0, rows+1)
	head := make([]string, cols+1)
	for c := 0; c < cols; c++ {
		head[c+1] = clip(g.Data(dsv.RegionColumnHeader, 0, c), maxWidth)
	}
	table = append(table, head)
	for r := 0; r < rows; r++ {
		line := make([]string, cols+1)
		line[0] = g.Data(dsv.RegionRowHeader, r, 0)
		for c := 0; c < cols; c++ {
			line[c+1] = clip(g.Data(dsv.RegionBody, r, c), maxWidth)
		}
		table = append(table, line)
	}

	widths := make([]int, cols+1)
	for _, line := range table {
		for i, cell := range line {
			if n := uniseg.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for i, line := range table {
		writeLine(&b, line, widths)
		if i == 0 {
			for c, n := range widths {
				if c > 0 {
					b.WriteString("-+-")
				}
				b.WriteString(strings.Repeat("-", n))
			}
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeLine(b *strings.Builder, cells []string, widths []int) {
	var line strings.Builder
	for i, cell := range cells {
		if i > 0 {
			line.WriteString(" | ")
		}
		line.WriteString(cell)
		line.WriteString(strings.Repeat(" ", widths[i]-uniseg.StringWidth(cell)))
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteByte('\n')
}

// clip escapes control characters and cuts s to at most max cells on a
// grapheme boundary, marking the cut with an ellipsis.
func clip(s string, max int) string {
	s = controlEscaper.Replace(s)
	if uniseg.StringWidth(s) <= max {
		return s
	}
	var b strings.Builder
	width := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if width+w > max-1 {
			break
		}
		b.WriteString(g.Str())
		width += w
	}
	b.WriteString("…")
	return b.String()
}
