// Package change describes structural changes to a grid.
//
// Every structural operation produces exactly one Descriptor. Descriptors are
// used both to notify observers and to compute the inverse change on undo.
package change

import "fmt"

// Kind categorizes a change.
type Kind uint8

const (
	KindCellsChanged Kind = iota + 1
	KindRowsInserted
	KindRowsRemoved
	KindColumnsInserted
	KindColumnsRemoved
	KindRowsMoved
	KindColumnsMoved
	KindModelReset
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCellsChanged:
		return "cells-changed"
	case KindRowsInserted:
		return "rows-inserted"
	case KindRowsRemoved:
		return "rows-removed"
	case KindColumnsInserted:
		return "columns-inserted"
	case KindColumnsRemoved:
		return "columns-removed"
	case KindRowsMoved:
		return "rows-moved"
	case KindColumnsMoved:
		return "columns-moved"
	case KindModelReset:
		return "model-reset"
	default:
		return "unknown"
	}
}

// Descriptor records what a structural operation changed.
//
// CellsChanged uses Row, Column, RowSpan and ColumnSpan. Inserted and removed
// kinds use Index and Span. Moved kinds use Index, Destination and Span.
type Descriptor struct {
	Kind Kind

	Row        int
	Column     int
	RowSpan    int
	ColumnSpan int

	Index       int
	Span        int
	Destination int
}

// CellsChanged returns a descriptor for a rectangle of changed cells.
func CellsChanged(row, column, rowSpan, columnSpan int) Descriptor {
	return Descriptor{
		Kind:       KindCellsChanged,
		Row:        row,
		Column:     column,
		RowSpan:    rowSpan,
		ColumnSpan: columnSpan,
	}
}

// RowsInserted returns a descriptor for inserted rows.
func RowsInserted(index, span int) Descriptor {
	return Descriptor{Kind: KindRowsInserted, Index: index, Span: span}
}

// RowsRemoved returns a descriptor for removed rows.
func RowsRemoved(index, span int) Descriptor {
	return Descriptor{Kind: KindRowsRemoved, Index: index, Span: span}
}

// ColumnsInserted returns a descriptor for inserted columns.
func ColumnsInserted(index, span int) Descriptor {
	return Descriptor{Kind: KindColumnsInserted, Index: index, Span: span}
}

// ColumnsRemoved returns a descriptor for removed columns.
func ColumnsRemoved(index, span int) Descriptor {
	return Descriptor{Kind: KindColumnsRemoved, Index: index, Span: span}
}

// RowsMoved returns a descriptor for rows moved from index to destination.
func RowsMoved(index, destination, span int) Descriptor {
	return Descriptor{Kind: KindRowsMoved, Index: index, Destination: destination, Span: span}
}

// ColumnsMoved returns a descriptor for columns moved from index to destination.
func ColumnsMoved(index, destination, span int) Descriptor {
	return Descriptor{Kind: KindColumnsMoved, Index: index, Destination: destination, Span: span}
}

// ModelReset returns a descriptor for a change that invalidates the whole grid.
func ModelReset() Descriptor {
	return Descriptor{Kind: KindModelReset}
}

// IsZero reports whether d is the zero descriptor.
func (d Descriptor) IsZero() bool {
	return d.Kind == 0
}

// Inverse returns the descriptor that reverses d.
// Cells-changed and model-reset are their own inverse.
func (d Descriptor) Inverse() Descriptor {
	switch d.Kind {
	case KindRowsInserted:
		return RowsRemoved(d.Index, d.Span)
	case KindRowsRemoved:
		return RowsInserted(d.Index, d.Span)
	case KindColumnsInserted:
		return ColumnsRemoved(d.Index, d.Span)
	case KindColumnsRemoved:
		return ColumnsInserted(d.Index, d.Span)
	case KindRowsMoved:
		return RowsMoved(d.Destination, d.Index, d.Span)
	case KindColumnsMoved:
		return ColumnsMoved(d.Destination, d.Index, d.Span)
	default:
		return d
	}
}

// AffectsColumns reports whether the change alters the column structure.
func (d Descriptor) AffectsColumns() bool {
	switch d.Kind {
	case KindColumnsInserted, KindColumnsRemoved, KindColumnsMoved, KindModelReset:
		return true
	default:
		return false
	}
}

// String returns a human-readable representation of the descriptor.
func (d Descriptor) String() string {
	switch d.Kind {
	case KindCellsChanged:
		return fmt.Sprintf("%s(%d,%d %dx%d)", d.Kind, d.Row, d.Column, d.RowSpan, d.ColumnSpan)
	case KindRowsInserted, KindRowsRemoved, KindColumnsInserted, KindColumnsRemoved:
		return fmt.Sprintf("%s(%d+%d)", d.Kind, d.Index, d.Span)
	case KindRowsMoved, KindColumnsMoved:
		return fmt.Sprintf("%s(%d->%d+%d)", d.Kind, d.Index, d.Destination, d.Span)
	default:
		return d.Kind.String()
	}
}
