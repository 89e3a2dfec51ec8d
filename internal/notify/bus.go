// Package notify provides the process-wide broadcast channel that lets
// independent views react to cart changes without holding references to each
// other. Delivery is fire-and-forget and handler order is unspecified, so
// handlers must be independent and idempotent.
package notify

import "sync"

type Topic string

// CartUpdated is published after every successful cart mutation.
const CartUpdated Topic = "cart-updated"

type Handler func()

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

// Subscribe registers fn for topic. The returned Subscription must be
// cancelled when the owning view is torn down, so defunct views never get
// invoked.
func (b *Bus) Subscribe(topic Topic, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = fn
	return &Subscription{bus: b, topic: topic, id: id}
}

// Publish invokes every handler subscribed to topic. Publishing with zero
// subscribers is a no-op.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

type Subscription struct {
	bus   *Bus
	topic Topic
	id    int
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if m := s.bus.subs[s.topic]; m != nil {
		delete(m, s.id)
	}
	s.bus = nil
}
