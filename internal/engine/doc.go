// Package engine implements structural editing of a DSV document.
//
// A Model edits a document held as one raw text buffer. Every operation is
// resolved to byte ranges of the buffer as last parsed, applied as a single
// rebuild of the text, followed by a reparse of the document, one snapshot in
// the undo log, and one change notification.
//
// Basic usage:
//
//	doc, _ := dsv.New(dsv.Options{Data: "a,b\n1,2\n3,4", Header: true, Quote: '"'})
//	m, _ := engine.New(doc)
//
//	m.SetCell(0, 1, "9")   // "a,b\n1,9\n3,4"
//	m.AddRow(1)            // "a,b\n1,9\n,\n3,4"
//	m.Undo()               // "a,b\n1,9\n3,4"
//
// Coordinates are body-relative and 0-indexed; the header row, if any, is
// not part of the body.
//
// Operations:
//
//   - SetCell: overwrite one cell
//   - AddRow, RemoveRow, MoveRow: row structure
//   - AddColumn, RemoveColumn, MoveColumn: column structure, header included
//   - CutAndCopy, Paste: clipboard transfer of a rectangle
//   - ClearRegion: empty a column, a row, or a selection as one undo step
//   - Undo, Redo: linear history
//
// Thread Safety:
//
// Operations do not overlap. An operation started while another is still
// rebuilding or reparsing the buffer fails with ErrBusy. Read methods are
// safe to call at any time and reflect the last completed parse.
package engine
