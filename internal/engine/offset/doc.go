// Package offset maps grid coordinates to byte offsets in a raw DSV buffer.
//
// The Resolver is stateless: every answer is derived from the current parse
// held by an Index. Coordinates are body-relative; when the document has a
// header, body row r lives on raw row r+1 and row -1 addresses the header
// row itself.
//
// Two classifications drive every structural edit:
//
//   - A trim operation removes the last row or last column, so the separator
//     consumed is the one before the segment rather than the one after it.
//   - An extension operation addresses a position at or past the current
//     counts, which the index cannot resolve yet; inserts there append after
//     the previous segment instead.
package offset
