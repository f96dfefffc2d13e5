package eventbus

import (
	"testing"
	"time"
)

func TestEventBus_PublishAndSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(TopicCallCompleted)

	bus.Publish(TopicCallCompleted, CallEvent{Tool: "add_numbers", CorrelationID: "c1"})

	select {
	case evt := <-ch:
		if evt.Topic != TopicCallCompleted {
			t.Errorf("expected topic %q, got %q", TopicCallCompleted, evt.Topic)
		}
		call, ok := evt.Payload.(CallEvent)
		if !ok {
			t.Fatalf("expected CallEvent payload, got %T", evt.Payload)
		}
		if call.Tool != "add_numbers" || call.CorrelationID != "c1" {
			t.Errorf("unexpected payload: %+v", call)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout: expected event to be received within 100ms")
	}
}

func TestEventBus_MultipleSubscribers_AllReceive(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe("multi.topic")
	ch2 := bus.Subscribe("multi.topic")

	bus.Publish("multi.topic", 42)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt.Payload != 42 {
				t.Errorf("subscriber %d: expected payload 42, got %v", i, evt.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestEventBus_DifferentTopics_NoInterference(t *testing.T) {
	bus := New()
	chA := bus.Subscribe("topic.a")
	chB := bus.Subscribe("topic.b")

	bus.Publish("topic.a", "for-a")

	select {
	case evt := <-chA:
		if evt.Payload != "for-a" {
			t.Errorf("topic.a: unexpected payload %v", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("topic.a: timeout waiting for event")
	}

	// topic.b should have received nothing
	select {
	case evt := <-chB:
		t.Errorf("topic.b: received unexpected event: %v", evt)
	default:
		// correct — no event
	}
}

func TestEventBus_NonBlockingPublish_FullBuffer(t *testing.T) {
	bus := New()
	// Subscribe but never consume — buffer will fill up
	_ = bus.Subscribe("overflow.topic")

	// Publish more events than the buffer size — must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i <= defaultBufferSize+10; i++ {
			bus.Publish("overflow.topic", i)
		}
		close(done)
	}()

	select {
	case <-done:
		// correct — publish never blocked
	case <-time.After(500 * time.Millisecond):
		t.Error("Publish blocked when buffer was full (should be non-blocking)")
	}
}

func TestEventBus_Close_DrainsThenCloses(t *testing.T) {
	bus := New()
	ch := bus.Subscribe("close.topic")

	bus.Publish("close.topic", "buffered")
	bus.Close()

	// The buffered event is still readable after Close.
	select {
	case evt, open := <-ch:
		if !open {
			t.Fatal("expected the buffered event before close")
		}
		if evt.Payload != "buffered" {
			t.Errorf("unexpected payload: %v", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout draining buffered event")
	}

	// Then the channel reports closed.
	select {
	case _, open := <-ch:
		if open {
			t.Error("expected channel closed after drain")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for channel close")
	}
}

func TestEventBus_Close_Idempotent_PublishNoop(t *testing.T) {
	bus := New()
	_ = bus.Subscribe("close.topic")

	bus.Close()
	bus.Close()
	bus.Publish("close.topic", "dropped") // must not panic on closed channels

	if _, open := <-bus.Subscribe("late.topic"); open {
		t.Error("expected Subscribe after Close to return a closed channel")
	}
}
