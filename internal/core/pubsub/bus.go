// Package pubsub implements the in-process event bus: named topics, live
// subscribers, at-most-once delivery per subscriber.
//
// The bus is a live-only feed. There is no backlog and no replay: an event
// published with zero subscribers is dropped, and a subscriber only sees
// events published after it registered. Construct one bus per server (or per
// test) and inject it; there is no package-level instance.
package pubsub

import (
	"sync"

	"github.com/librarium/catalog-api/internal/api/metrics"
)

// defaultBuffer is the per-subscriber channel capacity. Delivery to each
// subscriber is independent: a subscriber that stops reading fills only its
// own buffer and starts losing events, without slowing the publisher or any
// other subscriber.
const defaultBuffer = 64

// Bus fans events out to topic subscribers. Safe for concurrent
// Subscribe/Unsubscribe/Publish from any number of goroutines.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	buffer int
}

// Subscription is a live registration on one topic. Events arrive on the
// channel returned by Events in publish order (FIFO per subscriber).
type Subscription struct {
	bus   *Bus
	topic string
	ch    chan any
	once  sync.Once
}

// NewBus returns an empty bus with the default per-subscriber buffer.
func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: defaultBuffer,
	}
}

// Subscribe registers a new listener on topic. It never blocks. The returned
// subscription receives every event published to the topic from now until
// Close is called.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		bus:   b,
		topic: topic,
		ch:    make(chan any, b.buffer),
	}

	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	metrics.SubscribersActive.WithLabelValues(topic).Inc()
	return sub
}

// Publish delivers event to every subscription currently registered on
// topic. Each delivery is an independent non-blocking send: a subscriber
// whose buffer is full loses this event, everyone else is unaffected. With
// zero subscribers the event is dropped silently.
//
// Sends happen under the read lock so a concurrent Close cannot close a
// channel mid-send; this is safe because the sends never block.
func (b *Bus) Publish(topic string, event any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.topics[topic] {
		select {
		case sub.ch <- event:
			metrics.EventsPublishedTotal.WithLabelValues(topic).Inc()
		default:
			metrics.EventsDroppedTotal.WithLabelValues(topic).Inc()
		}
	}
}

// SubscriberCount reports the number of live subscriptions on topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Events returns the subscription's receive channel. The channel is closed
// by Close; it never closes on its own.
func (s *Subscription) Events() <-chan any {
	return s.ch
}

// Topic returns the topic this subscription is registered on.
func (s *Subscription) Topic() string {
	return s.topic
}

// Close deregisters the subscription and closes its channel. Idempotent:
// safe to call any number of times. After Close returns, no further
// deliveries are attempted, even for publishes already in flight.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if subs, ok := s.bus.topics[s.topic]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.bus.topics, s.topic)
			}
		}
		s.bus.mu.Unlock()

		// Publishers hold the read lock while sending, so once the write
		// lock above is released no send on this channel can be in flight.
		close(s.ch)
		metrics.SubscribersActive.WithLabelValues(s.topic).Dec()
	})
}
