package broadcast

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/vijayapps/vac_site/internal/logger"
)

// AllResources subscribes to every resource key.
const AllResources = "*"

// Emitter raises an invalidation signal for a resource.
type Emitter interface {
	Emit(resourceKey string)
}

// Subscriber registers invalidation callbacks.
type Subscriber interface {
	Subscribe(resourceKey string, fn func()) (unsubscribe func())
}

// Relay carries invalidation signals between server instances that do not share
// a store directory. Delivery is best effort and unordered.
type Relay interface {
	Publish(ctx context.Context, resourceKey string) error
	Listen(ctx context.Context, onSignal func(resourceKey string)) error
}

type subscription struct {
	id  uint64
	key string
	fn  func(resourceKey string)
}

// Bus delivers invalidation signals to in-process listeners.
// Emit is synchronous: every listener has returned before Emit does.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[string]map[uint64]*subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: map[string]map[uint64]*subscription{}}
}

// Subscribe registers fn for resourceKey (or AllResources).
// The returned function removes the registration; calling it again is a no-op.
func (b *Bus) Subscribe(resourceKey string, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return b.SubscribeKeyed(resourceKey, func(string) { fn() })
}

// SubscribeKeyed is Subscribe for listeners that need the emitted key,
// typically wildcard listeners.
func (b *Bus) SubscribeKeyed(resourceKey string, fn func(resourceKey string)) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.next++
	sub := &subscription{id: b.next, key: resourceKey, fn: fn}
	if b.subs[resourceKey] == nil {
		b.subs[resourceKey] = map[uint64]*subscription{}
	}
	b.subs[resourceKey][sub.id] = sub
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if m, ok := b.subs[sub.key]; ok {
				delete(m, sub.id)
				if len(m) == 0 {
					delete(b.subs, sub.key)
				}
			}
		})
	}
}

// Emit notifies the listeners of resourceKey and the wildcard listeners.
// A panicking listener is logged and skipped.
func (b *Bus) Emit(resourceKey string) {
	b.mu.RLock()
	targets := make([]*subscription, 0, len(b.subs[resourceKey])+len(b.subs[AllResources]))
	for _, s := range b.subs[resourceKey] {
		targets = append(targets, s)
	}
	if resourceKey != AllResources {
		for _, s := range b.subs[AllResources] {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	logger.WithResource("broadcast", resourceKey).Tracef("emitting to %d listeners", len(targets))
	for _, s := range targets {
		invoke(resourceKey, s.fn)
	}
}

func invoke(resourceKey string, fn func(string)) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithResource("broadcast", resourceKey).Errorf("listener panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	fn(resourceKey)
}

// Count returns the number of live subscriptions for resourceKey.
func (b *Bus) Count(resourceKey string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[resourceKey])
}

// Total returns the number of live subscriptions across all keys.
func (b *Bus) Total() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, m := range b.subs {
		n += len(m)
	}
	return n
}

// Watch adapts a subscription to a channel of resource keys, for streaming consumers.
// Signals are dropped when the reader falls behind by more than the buffer.
// stop must be called to release the subscription; the channel is never closed.
func (b *Bus) Watch(resourceKey string) (<-chan string, func()) {
	ch := make(chan string, 16)
	stop := b.SubscribeKeyed(resourceKey, func(key string) {
		select {
		case ch <- key:
		default:
		}
	})
	return ch, stop
}
