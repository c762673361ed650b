// Package live provides in-process change signals for streaming endpoints.
//
// A signal carries no payload. Subscribers react to it by re-reading the
// state they display, so a subscriber that misses intermediate signals still
// converges on the latest state.
package live

import (
	"context"
	"sync"
)

// TeamsTopic is signalled on any team mutation.
const TeamsTopic = "teams"

// TeamTopic is signalled when one team changes.
func TeamTopic(teamID string) string {
	return "team:" + teamID
}

// NotificationsTopic is signalled when a user's durable notifications change.
func NotificationsTopic(userID string) string {
	return "notifications:" + userID
}

// DashboardTopic is signalled when a user's dashboard notifications change.
func DashboardTopic(userID string) string {
	return "dashboard:" + userID
}

// Broker fans change signals out to subscribers.
type Broker struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{topics: make(map[string]map[*Subscription]struct{})}
}

// Subscription is a handle on one or more topics. C receives a value after
// every change; pending signals coalesce into one.
type Subscription struct {
	C <-chan struct{}

	ch     chan struct{}
	broker *Broker
	topics []string
	once   sync.Once
	done   chan struct{}
}

// Subscribe registers interest in topics. The subscription is released by
// Close or when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, topics ...string) *Subscription {
	ch := make(chan struct{}, 1)
	sub := &Subscription{
		C:      ch,
		ch:     ch,
		broker: b,
		topics: topics,
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	for _, topic := range topics {
		subs, ok := b.topics[topic]
		if !ok {
			subs = make(map[*Subscription]struct{})
			b.topics[topic] = subs
		}
		subs[sub] = struct{}{}
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub
}

// Publish signals every subscriber of topics. It never blocks.
func (b *Broker) Publish(topics ...string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, topic := range topics {
		for sub := range b.topics[topic] {
			select {
			case sub.ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of subscriptions on topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.broker
		b.mu.Lock()
		for _, topic := range s.topics {
			if subs, ok := b.topics[topic]; ok {
				delete(subs, s)
				if len(subs) == 0 {
					delete(b.topics, topic)
				}
			}
		}
		b.mu.Unlock()
		close(s.done)
	})
}

// Done is closed once the subscription is released.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
