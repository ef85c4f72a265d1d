package database

import (
	"testing"
	"time"
)

func TestNotifierSubscribePublish(t *testing.T) {
	n := NewNotifier()

	ch1, cancel1 := n.Subscribe()
	ch2, cancel2 := n.Subscribe()
	defer cancel2()

	if got := n.ListenerCount(); got != 2 {
		t.Fatalf("ListenerCount() = %d, want 2", got)
	}

	want := Event{Type: EventEnrolled, PersonID: "p1", Name: "Alice"}
	n.Publish(want)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("listener %d got %+v, want %+v", i, got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("listener %d did not receive event", i)
		}
	}

	cancel1()
	if got := n.ListenerCount(); got != 1 {
		t.Errorf("ListenerCount() after cancel = %d, want 1", got)
	}
	if _, open := <-ch1; open {
		t.Error("cancelled listener channel should be closed")
	}

	// Double cancel must be safe.
	cancel1()
}

func TestNotifierDoesNotBlockOnSlowListener(t *testing.T) {
	n := NewNotifier()
	_, cancel := n.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Overflow the listener buffer; publishes must drop, not block.
		for i := 0; i < 100; i++ {
			n.Publish(Event{Type: EventDeleted, PersonID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on slow listener")
	}
}
