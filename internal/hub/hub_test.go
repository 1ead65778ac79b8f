package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub(queueSize int) *Hub {
	return New(queueSize, zap.NewNop().Sugar())
}

func recvOne(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublish_FansOutToAllSubscribers(t *testing.T) {
	h := newTestHub(8)
	a := h.Subscribe()
	b := h.Subscribe()
	defer a.Close()
	defer b.Close()

	h.Publish(Event{Name: EventMedia, URL: "/last-media"})

	assert.Equal(t, EventMedia, recvOne(t, a).Name)
	assert.Equal(t, EventMedia, recvOne(t, b).Name)
}

func TestPublish_NoReplayForLateSubscriber(t *testing.T) {
	h := newTestHub(8)
	early := h.Subscribe()
	defer early.Close()

	h.Publish(Event{Name: EventMedia, URL: "/last-media"})

	late := h.Subscribe()
	defer late.Close()

	assert.Equal(t, EventMedia, recvOne(t, early).Name)
	select {
	case ev := <-late.Events():
		t.Fatalf("late subscriber received replayed event %q", ev.Name)
	default:
	}
}

func TestPublish_DropsOldestWhenQueueFull(t *testing.T) {
	h := newTestHub(2)
	sub := h.Subscribe()
	defer sub.Close()

	h.Publish(Event{Name: EventMedia, URL: "1"})
	h.Publish(Event{Name: EventMedia, URL: "2"})
	h.Publish(Event{Name: EventMedia, URL: "3"}) // evicts "1"

	assert.Equal(t, "2", recvOne(t, sub).URL)
	assert.Equal(t, "3", recvOne(t, sub).URL)
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected extra event %q", ev.URL)
	default:
	}
}

func TestPublish_DoesNotBlockOnStalledSubscriber(t *testing.T) {
	h := newTestHub(1)
	stalled := h.Subscribe()
	defer stalled.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish(Event{Name: EventRawURL, URL: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a subscriber that never drains")
	}
}

func TestClose_UnregistersAndClosesQueue(t *testing.T) {
	h := newTestHub(4)
	sub := h.Subscribe()
	require.Equal(t, 1, h.Subscribers())

	sub.Close()
	sub.Close() // idempotent
	assert.Equal(t, 0, h.Subscribers())

	_, open := <-sub.Events()
	assert.False(t, open)

	// publishing after close must not panic
	h.Publish(Event{Name: EventSong, URL: "/sounds/a.mp3"})
}
