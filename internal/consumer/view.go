// Package consumer holds the contract every reader of a cached resource follows:
// subscribe, load once on mount, reload through the remote tier on every
// invalidation, and never apply a stale or post-close result.
package consumer

import (
	"context"
	"slices"
	"sync"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/logger"
)

// Source is the read-through loader a view is bound to.
type Source[T any] interface {
	Key() string
	LoadWithProvenance(ctx context.Context) (T, loader.Provenance)
}

// View tracks the current value of one resource.
type View[T any] struct {
	src Source[T]
	bus broadcast.Subscriber

	mu          sync.Mutex
	value       T
	provenance  loader.Provenance
	loaded      bool
	generation  uint64
	mounted     bool
	closed      bool
	hooks       []func(T, loader.Provenance)
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc

	ready     chan struct{}
	readyOnce sync.Once
}

func NewView[T any](src Source[T], bus broadcast.Subscriber) *View[T] {
	return &View[T]{
		src:   src,
		bus:   bus,
		ready: make(chan struct{}),
	}
}

// OnChange registers fn to run after every applied load, in the loading goroutine.
func (v *View[T]) OnChange(fn func(T, loader.Provenance)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hooks = append(v.hooks, fn)
}

// Mount subscribes to invalidations and issues the initial load.
// The subscription comes first so a change racing the first load is not lost.
// Mounting twice, or after Close, does nothing.
func (v *View[T]) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.mounted || v.closed {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.ctx, v.cancel = context.WithCancel(ctx)
	v.mu.Unlock()

	unsubscribe := v.bus.Subscribe(v.src.Key(), v.Reload)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		unsubscribe()
		return
	}
	v.unsubscribe = unsubscribe
	v.mu.Unlock()

	v.Reload()
}

// Reload issues a new load. Any load issued earlier that has not yet resolved
// is superseded and its result discarded.
func (v *View[T]) Reload() {
	v.mu.Lock()
	if !v.mounted || v.closed {
		v.mu.Unlock()
		return
	}
	v.generation++
	gen := v.generation
	ctx := v.ctx
	v.mu.Unlock()

	go func() {
		value, prov := v.src.LoadWithProvenance(ctx)
		v.apply(gen, value, prov)
	}()
}

func (v *View[T]) apply(gen uint64, value T, prov loader.Provenance) {
	v.mu.Lock()
	if v.closed || gen != v.generation {
		v.mu.Unlock()
		logger.WithResource("consumer", v.src.Key()).Debug("discarding superseded load")
		return
	}
	v.value = value
	v.provenance = prov
	v.loaded = true
	hooks := slices.Clone(v.hooks)
	v.mu.Unlock()

	v.readyOnce.Do(func() { close(v.ready) })
	for _, fn := range hooks {
		fn(value, prov)
	}
}

// Ready is closed once the first load has been applied.
func (v *View[T]) Ready() <-chan struct{} {
	return v.ready
}

// Current returns the last applied value, where it came from, and whether any
// load has completed yet.
func (v *View[T]) Current() (T, loader.Provenance, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.provenance, v.loaded
}

// Wait blocks until the first load is applied or ctx is done.
func (v *View[T]) Wait(ctx context.Context) (T, loader.Provenance, error) {
	select {
	case <-v.ready:
		value, prov, _ := v.Current()
		return value, prov, nil
	case <-ctx.Done():
		var zero T
		return zero, "", ctx.Err()
	}
}

// Close unsubscribes and cancels in-flight loads. Calling it again is a no-op.
func (v *View[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	unsubscribe, cancel := v.unsubscribe, v.cancel
	v.unsubscribe, v.hooks = nil, nil
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
}
