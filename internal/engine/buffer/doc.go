// Package buffer provides byte-range edits over a raw DSV text buffer.
//
// Edits are expressed against a single immutable source string (the text as it
// was last parsed) and applied together in one pass:
//
//	var b buffer.Batch
//	b.Add(buffer.NewDelete(4, 8))
//	b.Add(buffer.NewInsert(4, "9"))
//	text, err := b.Apply(src)
//
// Because every offset refers to the source string, callers never need to
// adjust later offsets for earlier edits. Edits must not overlap; an insertion
// at the start offset of a deletion is applied before the deletion.
package buffer
