// Package event fans out grid change notifications to subscribers.
//
// A Notifier carries three topics:
//
//   - TopicChanged: one change.Descriptor per structural operation.
//   - TopicRawText: the body text after each operation, header row removed.
//   - TopicCancelEditing: a request to abandon an in-progress cell edit.
//
// Delivery is synchronous and in subscription order. Handlers that panic are
// recovered and reported to the configured PanicHandler.
//
// # Busy flag
//
// A structural operation holds the notifier busy from the moment it mutates
// the buffer until the provider's reparse has completed. Reparse
// notifications arriving while busy are the operation's own echo and are
// dropped; those arriving while idle come from someone else changing the
// text and are broadcast as a model reset. A second Acquire while busy fails
// with ErrBusy, which keeps operations from overlapping.
package event
