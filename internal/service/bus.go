package service

import (
	"sync"

	"epub-reader-engine/internal/domain"
)

type subscription struct {
	id int
	fn func(domain.Event)
}

// Bus is the in-process implementation of domain.EventBus. Dispatch is
// synchronous and in publish order; subscribers must not block.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[domain.EventType][]subscription
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{subs: make(map[domain.EventType][]subscription)}
}

// Subscribe registers fn for events of type t and returns an unsubscribe
// function.
func (b *Bus) Subscribe(t domain.EventType, fn func(domain.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[t]
		for i, sub := range subs {
			if sub.id == id {
				b.subs[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every subscriber of its type.
func (b *Bus) Publish(e domain.Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs[e.Type]))
	copy(subs, b.subs[e.Type])
	b.mu.Unlock()

	for _, sub := range subs {
		sub.fn(e)
	}
}
