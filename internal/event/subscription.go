package event

import "sync/atomic"

// Subscription is a handler registered on one topic of a Notifier.
type Subscription interface {
	ID() string
	Topic() Topic

	// Mute stops delivery until Unmute. Events published meanwhile are
	// dropped, not queued.
	Mute()
	Unmute()
	Muted() bool

	// Cancel removes the subscription from its notifier. It is safe to call
	// from inside the handler and more than once.
	Cancel()
	Cancelled() bool
}

type subscription struct {
	id        string
	topic     Topic
	handler   Handler
	owner     *Notifier
	muted     atomic.Bool
	cancelled atomic.Bool
}

func (s *subscription) ID() string      { return s.id }
func (s *subscription) Topic() Topic    { return s.topic }
func (s *subscription) Mute()           { s.muted.Store(true) }
func (s *subscription) Unmute()         { s.muted.Store(false) }
func (s *subscription) Muted() bool     { return s.muted.Load() }
func (s *subscription) Cancelled() bool { return s.cancelled.Load() }

func (s *subscription) receives() bool {
	return !s.cancelled.Load() && !s.muted.Load()
}

func (s *subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	s.owner.remove(s)
}
