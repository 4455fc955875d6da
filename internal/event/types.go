package event

import (
	"time"

	"github.com/dshills/dsvedit/internal/engine/change"
)

// Topic identifies a notification stream.
type Topic uint8

const (
	// TopicChanged carries change descriptors.
	TopicChanged Topic = iota + 1
	// TopicRawText carries the body text after a mutation.
	TopicRawText
	// TopicCancelEditing asks the grid to abandon an in-progress edit.
	TopicCancelEditing
)

// String returns the topic name.
func (t Topic) String() string {
	switch t {
	case TopicChanged:
		return "changed"
	case TopicRawText:
		return "raw-text"
	case TopicCancelEditing:
		return "cancel-editing"
	default:
		return "unknown"
	}
}

func (t Topic) valid() bool {
	return t >= TopicChanged && t <= TopicCancelEditing
}

// Event is a single notification.
type Event struct {
	Topic     Topic
	Change    change.Descriptor // TopicChanged
	Text      string            // TopicRawText
	Timestamp time.Time
}

// Handler receives events.
type Handler func(Event)

// PanicHandler is called when a handler panics.
type PanicHandler func(ev Event, sub Subscription, recovered any)

// DefaultPanicHandler swallows handler panics.
func DefaultPanicHandler(Event, Subscription, any) {}
