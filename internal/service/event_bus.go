package service

import (
	"sync"

	"cross-chain-pool/internal/core/domain"

	"github.com/rs/zerolog"
)

// EventBus fans chain events out to subscribers. Publish never blocks: it is
// called with the chain state mutex held, so a slow subscriber must not be
// able to stall the ledger. A subscriber whose buffer is full loses the
// event; consumers needing delivery guarantees keep their own cursor and
// re-query, which is why the relayer deduplicates instead of trusting
// exactly-once delivery.
type EventBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan domain.Event
	closed bool
	log    zerolog.Logger
}

// NewEventBus creates an event bus.
func NewEventBus(log zerolog.Logger) *EventBus {
	return &EventBus{
		subs: make(map[int]chan domain.Event),
		log:  log,
	}
}

// Publish delivers the event to every subscriber without blocking.
func (b *EventBus) Publish(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn().Int("subscriber", id).Str("key", ev.Key()).Msg("subscriber buffer full, event dropped")
		}
	}
}

// Subscribe registers a new subscriber with the given channel buffer. The
// returned cancel function unregisters it and closes the channel; cancel is
// safe to call more than once.
func (b *EventBus) Subscribe(buffer int) (<-chan domain.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan domain.Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Close shuts the bus down, closing all subscriber channels. Publish becomes
// a no-op afterwards.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
