// Package history records grid snapshots for linear undo and redo.
//
// A Store is a versioned key-value record store: every committed transaction
// becomes a new version, Undo and Redo move between versions, and GetRecord
// reads the record as of the current version. MemoryStore is the in-process
// implementation; it keeps a bounded number of versions and drops the oldest
// when the bound is exceeded.
//
// A Log keys one record per document and stores a Snapshot of the raw text,
// the header and the change descriptor after every structural operation:
//
//	log := history.NewLog(history.NewMemoryStore(1000), initial)
//
//	log.Record(history.Snapshot{RawData: text, Header: header, Change: d})
//
//	// Restore the previous state; inv is the inverse of d.
//	prev, inv, ok := log.Undo()
//
//	// Re-apply the state that was undone.
//	next, ok := log.Redo()
//
// # Transactions
//
// Multi-step operations bracket their updates so they commit as one version:
//
//	log.Begin()
//	// ... several Record calls ...
//	log.End()
//
// Transactions nest; only the outermost End commits.
package history
