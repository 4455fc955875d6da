// Package dsv parses delimiter-separated-value text into an offset index.
//
// A Model owns the raw text of a document and an index of where every field
// begins. The index is rebuilt by ParseAsync or Reparse after the raw text is
// replaced; until that completes, offset queries describe the previous text.
//
// Rows are addressed two ways. OffsetIndex takes raw rows, where
// row 0 is the header row when the model has a header. RowCount and Data take
// a Region and address the body, so body row 0 is raw row 1 in that case.
package dsv
