package event

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/dsvedit/internal/engine/change"
)

// Option configures a Notifier.
type Option func(*Notifier)

// WithPanicHandler sets the handler for panicking subscribers.
func WithPanicHandler(h PanicHandler) Option {
	return func(n *Notifier) {
		if h != nil {
			n.panicHandler = h
		}
	}
}

// Stats reports notifier counters.
type Stats struct {
	Published  uint64
	Delivered  uint64
	Suppressed uint64
	Panics     uint64
}

// Notifier delivers change, raw-text and cancel-editing events.
type Notifier struct {
	mu   sync.RWMutex
	subs map[Topic][]*subscription

	busy atomic.Bool

	panicHandler PanicHandler

	published  atomic.Uint64
	delivered  atomic.Uint64
	suppressed atomic.Uint64
	panics     atomic.Uint64
}

// NewNotifier creates a notifier.
func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{
		subs:         make(map[Topic][]*subscription),
		panicHandler: DefaultPanicHandler,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Subscribe registers handler on topic.
func (n *Notifier) Subscribe(t Topic, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !t.valid() {
		return nil, ErrInvalidTopic
	}

	s := &subscription{
		id:      uuid.NewString(),
		topic:   t,
		handler: handler,
		owner:   n,
	}

	n.mu.Lock()
	n.subs[t] = append(n.subs[t], s)
	n.mu.Unlock()
	return s, nil
}

func (n *Notifier) remove(s *subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.subs[s.topic]
	for i, cur := range list {
		if cur == s {
			// Copy so a publish iterating the old slice is unaffected.
			next := make([]*subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			n.subs[s.topic] = next
			return
		}
	}
}

// SubscriberCount returns the number of subscriptions on a topic.
func (n *Notifier) SubscriberCount(t Topic) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs[t])
}

// Acquire marks the notifier busy for the duration of one operation.
func (n *Notifier) Acquire() error {
	if !n.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// Release marks the notifier idle.
func (n *Notifier) Release() {
	n.busy.Store(false)
}

// IsBusy reports whether an operation holds the notifier.
func (n *Notifier) IsBusy() bool {
	return n.busy.Load()
}

// Reparsed reports a completed provider reparse. While busy it is the
// operation's own echo and is dropped; otherwise it is broadcast as a model
// reset. It returns true if the event was broadcast.
func (n *Notifier) Reparsed() bool {
	if n.busy.Load() {
		n.suppressed.Add(1)
		return false
	}
	n.Changed(change.ModelReset())
	return true
}

// Changed publishes a change descriptor.
func (n *Notifier) Changed(d change.Descriptor) {
	n.publish(Event{Topic: TopicChanged, Change: d})
}

// RawText publishes the body text after a mutation.
func (n *Notifier) RawText(text string) {
	n.publish(Event{Topic: TopicRawText, Text: text})
}

// CancelEditing publishes a cancel-editing request.
func (n *Notifier) CancelEditing() {
	n.publish(Event{Topic: TopicCancelEditing})
}

func (n *Notifier) publish(ev Event) {
	ev.Timestamp = time.Now()
	n.published.Add(1)

	n.mu.RLock()
	list := n.subs[ev.Topic]
	n.mu.RUnlock()

	for _, s := range list {
		if !s.receives() {
			continue
		}
		n.deliver(s, ev)
	}
}

func (n *Notifier) deliver(s *subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			n.panics.Add(1)
			n.panicHandler(ev, s, r)
		}
	}()
	s.handler(ev)
	n.delivered.Add(1)
}

// Stats returns a snapshot of the notifier counters.
func (n *Notifier) Stats() Stats {
	return Stats{
		Published:  n.published.Load(),
		Delivered:  n.delivered.Load(),
		Suppressed: n.suppressed.Load(),
		Panics:     n.panics.Load(),
	}
}
