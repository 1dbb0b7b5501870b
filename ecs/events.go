package ecs

// Event is a published payload. Type selects the subscribers.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Bus is a synchronous publish/subscribe hub. Handlers run on the publishing
// goroutine, in subscription order.
type Bus struct {
	next uint64
	subs map[string][]subscriber
	// queue holds deferred events until Flush.
	queue []Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscription detaches a handler. The zero value is a no-op.
type Subscription struct {
	bus       *Bus
	eventType string
	id        uint64
}

func (b *Bus) Subscribe(eventType string, fn func(Event)) Subscription {
	if b == nil || fn == nil {
		return Subscription{}
	}
	b.next++
	b.subs[eventType] = append(b.subs[eventType], subscriber{id: b.next, fn: fn})
	return Subscription{bus: b, eventType: eventType, id: b.next}
}

// Unsubscribe is safe to call more than once and from inside a handler.
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	list := s.bus.subs[s.eventType]
	for i, sub := range list {
		if sub.id != s.id {
			continue
		}
		out := make([]subscriber, 0, len(list)-1)
		out = append(out, list[:i]...)
		out = append(out, list[i+1:]...)
		if len(out) == 0 {
			delete(s.bus.subs, s.eventType)
		} else {
			s.bus.subs[s.eventType] = out
		}
		return
	}
}

func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}
	for _, sub := range b.subs[evt.Type] {
		sub.fn(evt)
	}
}

// Defer queues evt for the next Flush.
func (b *Bus) Defer(evt Event) {
	if b == nil {
		return
	}
	b.queue = append(b.queue, evt)
}

// Flush publishes deferred events in order, including ones deferred by
// handlers during the flush.
func (b *Bus) Flush() {
	if b == nil {
		return
	}
	for len(b.queue) > 0 {
		evt := b.queue[0]
		b.queue = b.queue[1:]
		b.Publish(evt)
	}
	b.queue = nil
}

func (b *Bus) Subscribers(eventType string) int {
	if b == nil {
		return 0
	}
	return len(b.subs[eventType])
}
