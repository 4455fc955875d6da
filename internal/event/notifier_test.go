package event

import (
	"errors"
	"sync"
	"testing"

	"github.com/dshills/dsvedit/internal/engine/change"
)

func TestSubscribeAndPublish(t *testing.T) {
	n := NewNotifier()

	var got []change.Descriptor
	sub, err := n.Subscribe(TopicChanged, func(ev Event) {
		got = append(got, ev.Change)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.ID() == "" {
		t.Error("expected a subscription ID")
	}
	if sub.Topic() != TopicChanged {
		t.Errorf("Topic() = %v", sub.Topic())
	}

	n.Changed(change.RowsInserted(1, 1))
	n.RawText("ignored by this subscriber")
	n.Changed(change.RowsRemoved(1, 1))

	want := []change.Descriptor{change.RowsInserted(1, 1), change.RowsRemoved(1, 1)}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubscribeErrors(t *testing.T) {
	n := NewNotifier()
	if _, err := n.Subscribe(TopicChanged, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
	if _, err := n.Subscribe(Topic(42), func(Event) {}); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("expected ErrInvalidTopic, got %v", err)
	}
}

func TestDeliveryOrder(t *testing.T) {
	n := NewNotifier()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if _, err := n.Subscribe(TopicRawText, func(Event) { order = append(order, i) }); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}
	n.RawText("1,2")
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("delivery order = %v", order)
	}
}

func TestCancel(t *testing.T) {
	n := NewNotifier()
	calls := 0
	sub, _ := n.Subscribe(TopicCancelEditing, func(Event) { calls++ })

	n.CancelEditing()
	sub.Cancel()
	sub.Cancel()
	n.CancelEditing()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !sub.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}
	if n.SubscriberCount(TopicCancelEditing) != 0 {
		t.Error("cancelled subscription should be removed")
	}
}

func TestMute(t *testing.T) {
	n := NewNotifier()
	calls := 0
	sub, _ := n.Subscribe(TopicChanged, func(Event) { calls++ })

	sub.Mute()
	if !sub.Muted() {
		t.Error("Muted() = false after Mute")
	}
	n.Changed(change.ModelReset())
	sub.Unmute()
	n.Changed(change.ModelReset())

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := n.Stats().Published; got != 2 {
		t.Errorf("Published = %d, want 2", got)
	}
}

func TestCancelDuringPublish(t *testing.T) {
	n := NewNotifier()
	var second int
	var first Subscription
	first, _ = n.Subscribe(TopicChanged, func(Event) { first.Cancel() })
	n.Subscribe(TopicChanged, func(Event) { second++ })

	n.Changed(change.ModelReset())
	n.Changed(change.ModelReset())

	if second != 2 {
		t.Errorf("second subscriber calls = %d, want 2", second)
	}
}

func TestPanicRecovery(t *testing.T) {
	var recovered any
	n := NewNotifier(WithPanicHandler(func(_ Event, _ Subscription, r any) {
		recovered = r
	}))

	delivered := false
	n.Subscribe(TopicChanged, func(Event) { panic("boom") })
	n.Subscribe(TopicChanged, func(Event) { delivered = true })

	n.Changed(change.ModelReset())

	if recovered != "boom" {
		t.Errorf("recovered = %v", recovered)
	}
	if !delivered {
		t.Error("later subscriber should still receive the event")
	}
	if n.Stats().Panics != 1 {
		t.Errorf("Panics = %d", n.Stats().Panics)
	}
}

func TestBusyFlag(t *testing.T) {
	n := NewNotifier()

	if err := n.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !n.IsBusy() {
		t.Error("expected busy")
	}
	if err := n.Acquire(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	n.Release()
	if n.IsBusy() {
		t.Error("expected idle")
	}
	if err := n.Acquire(); err != nil {
		t.Errorf("Acquire after Release: %v", err)
	}
}

func TestReparsedSuppression(t *testing.T) {
	n := NewNotifier()
	var resets int
	n.Subscribe(TopicChanged, func(ev Event) {
		if ev.Change.Kind == change.KindModelReset {
			resets++
		}
	})

	_ = n.Acquire()
	if n.Reparsed() {
		t.Error("reparse while busy should be suppressed")
	}
	n.Release()
	if !n.Reparsed() {
		t.Error("reparse while idle should be broadcast")
	}

	if resets != 1 {
		t.Errorf("resets = %d, want 1", resets)
	}
	if n.Stats().Suppressed != 1 {
		t.Errorf("Suppressed = %d, want 1", n.Stats().Suppressed)
	}
}

func TestConcurrentAcquire(t *testing.T) {
	n := NewNotifier()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if n.Acquire() == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
}
