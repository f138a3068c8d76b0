// Package event fans domain events (toast shown, toast dismissed) out to the
// websocket subscribers.
package event

import (
	"reflect"
	"sync"

	"portal/internal/logger"
)

type Handler func(event any)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus routes an event to the handlers subscribed to its concrete type, in
// subscription order. Delivery is synchronous with Publish.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[reflect.Type][]subscription
	log    logger.Logger
}

func New(log logger.Logger) *Bus {
	if log == nil {
		log = logger.NewNop()
	}
	return &Bus{topics: map[reflect.Type][]subscription{}, log: log}
}

// Subscribe registers handler for events with the same type as sample and
// returns a func that removes it again.
func (b *Bus) Subscribe(sample any, handler Handler) (unsubscribe func()) {
	topic := reflect.TypeOf(sample)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() { b.remove(topic, id) }
}

func (b *Bus) remove(topic reflect.Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[topic]
	for i, s := range subs {
		if s.id == id {
			b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(ev any) {
	topic := reflect.TypeOf(ev)

	b.mu.RLock()
	subs := b.topics[topic]
	b.mu.RUnlock()

	if len(subs) == 0 {
		b.log.Debug("event: no subscribers", "event", topic.String())
		return
	}

	for _, s := range subs {
		b.deliver(topic, s, ev)
	}
}

// deliver isolates a panicking handler so the remaining ones still run.
func (b *Bus) deliver(topic reflect.Type, s subscription, ev any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("event: handler panicked",
				"event", topic.String(),
				"subscription", s.id,
				"panic", r,
			)
		}
	}()
	s.handler(ev)
}
