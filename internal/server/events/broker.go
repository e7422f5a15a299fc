package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Broker distributes events to every registered subscriber.
type Broker struct {
	subscribers []Subscriber
	events      chan Event
	register    chan Subscriber
	unregister  chan Subscriber
	mu          sync.RWMutex
	logger      *zerolog.Logger
	now         func() time.Time

	published atomic.Int64
	dropped   atomic.Int64
}

// NewBroker creates a broker. Subscribe may be called before Run starts;
// the register channels are buffered for that.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		events:     make(chan Event, 256),
		register:   make(chan Subscriber, 16),
		unregister: make(chan Subscriber, 16),
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes registrations and events until ctx is done, then closes
// all subscribers.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.mu.Unlock()
			b.logger.Debug().Msg("Event broker shut down")
			return

		case sub := <-b.register:
			b.mu.Lock()
			b.subscribers = append(b.subscribers, sub)
			n := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber registered")

		case sub := <-b.unregister:
			b.mu.Lock()
			for i, s := range b.subscribers {
				if s == sub {
					b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
					_ = s.Close()
					break
				}
			}
			n := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber unregistered")

		case event := <-b.events:
			b.mu.RLock()
			subs := make([]Subscriber, len(b.subscribers))
			copy(subs, b.subscribers)
			b.mu.RUnlock()

			// subscribers are sent to in order so events arrive in publish order
			for _, sub := range subs {
				if err := sub.Send(event); err != nil {
					b.logger.Warn().
						Err(err).
						Str("event_type", string(event.Type)).
						Msg("Failed to send event to subscriber")
				}
			}

			b.logger.Debug().
				Str("event_type", string(event.Type)).
				Int("subscribers", len(subs)).
				Msg("Event broadcasted")
		}
	}
}

// Publish queues an event. When the queue is full the event is dropped.
func (b *Broker) Publish(eventType EventType, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: b.now(),
		Data:      data,
	}

	select {
	case b.events <- event:
		b.published.Add(1)
	default:
		b.dropped.Add(1)
		b.logger.Warn().
			Str("event_type", string(eventType)).
			Msg("Event channel full, event dropped")
	}
}

// Subscribe registers a subscriber.
func (b *Broker) Subscribe(sub Subscriber) {
	b.register <- sub
}

// Unsubscribe removes and closes a subscriber.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.unregister <- sub
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Stats reports broker counters.
type Stats struct {
	Published   int64 `json:"published"`
	Dropped     int64 `json:"dropped"`
	QueueDepth  int   `json:"queueDepth"`
	Subscribers int   `json:"subscribers"`
}

// Stats returns the broker counters.
func (b *Broker) Stats() Stats {
	return Stats{
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
		QueueDepth:  len(b.events),
		Subscribers: b.SubscriberCount(),
	}
}
