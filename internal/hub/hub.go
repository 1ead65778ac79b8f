package hub

import (
	"sync"

	"go.uber.org/zap"
)

// Event is the envelope relayed to every connected viewer.
type Event struct {
	Name string `json:"event"`
	URL  string `json:"url"`
}

// Event names understood by the display client.
const (
	EventMedia  = "media"
	EventVideo  = "video"
	EventSong   = "song"
	EventRawURL = "raw_url"
)

// Hub fans events out to every live subscriber. Publish never blocks
// on a subscriber's consumption rate: each subscriber owns a bounded
// queue, and on overflow the oldest unread event is dropped so a slow
// viewer observes a gap rather than stalling the publisher.
type Hub struct {
	mu        sync.RWMutex
	subs      map[*Subscriber]struct{}
	queueSize int
	log       *zap.SugaredLogger
}

// Subscriber is one viewer's queue of pending events.
type Subscriber struct {
	hub  *Hub
	ch   chan Event
	once sync.Once
}

func New(queueSize int, log *zap.SugaredLogger) *Hub {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Hub{
		subs:      make(map[*Subscriber]struct{}),
		queueSize: queueSize,
		log:       log,
	}
}

// Subscribe registers a new subscriber. Events published before the
// subscription are not replayed.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{hub: h, ch: make(chan Event, h.queueSize)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish enqueues the event for every subscriber live at call time.
// Overflow handling is best-effort under concurrent publishes: two
// publishers racing on the same full queue can each drain a slot and
// one of them may then lose its retry, dropping the incoming event
// instead of the oldest. Delivery stays non-blocking and gap-only
// either way.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			// queue full: drop the oldest unread event, then retry once
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
			h.log.Debugw("subscriber lagging, dropped oldest event", "event", ev.Name)
		}
	}
}

// Subscribers reports the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Events is the receive side of the subscriber's queue. It is closed
// by Close.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close removes the subscriber from the hub and closes its queue.
// Publishing only ever targets registered subscribers under the read
// lock, so closing under the exclusive lock cannot race a send.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}
