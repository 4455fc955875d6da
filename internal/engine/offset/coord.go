package offset

import "fmt"

// Coord addresses a cell, or a whole row when HasColumn is false.
type Coord struct {
	Row       int
	Column    int
	HasColumn bool
}

// Cell returns the coordinate of a single cell.
func Cell(row, column int) Coord {
	return Coord{Row: row, Column: column, HasColumn: true}
}

// Row returns the coordinate of a whole row.
func Row(row int) Coord {
	return Coord{Row: row}
}

// String returns a human-readable representation of the coordinate.
func (c Coord) String() string {
	if !c.HasColumn {
		return fmt.Sprintf("(%d,*)", c.Row)
	}
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}
