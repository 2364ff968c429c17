package app

import "sync"

// Listener is called with the event payload when a topic fires.
type Listener func(payload any)

// Bus is a topic-keyed event bus. Subscribing returns an unsubscribe
// function; listeners unsubscribed mid-publish stop receiving on the
// next publish.
type Bus struct {
	mu        sync.RWMutex
	seq       int
	listeners map[string]map[int]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string]map[int]Listener)}
}

// On registers a listener for a topic and returns its unsubscribe
// function. Unsubscribing twice is harmless.
func (b *Bus) On(topic string, l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	id := b.seq
	if b.listeners[topic] == nil {
		b.listeners[topic] = make(map[int]Listener)
	}
	b.listeners[topic][id] = l
	return func() {
		b.mu.Lock()
		delete(b.listeners[topic], id)
		b.mu.Unlock()
	}
}

// Publish delivers the payload to every listener of the topic,
// synchronously, on the caller's goroutine.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	delivery := make([]Listener, 0, len(b.listeners[topic]))
	for _, l := range b.listeners[topic] {
		delivery = append(delivery, l)
	}
	b.mu.RUnlock()

	for _, l := range delivery {
		l(payload)
	}
}
