// Package loader implements the read-through path shared by every cached resource:
// remote first, then the last known-good snapshot, then a compiled-in default.
package loader

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/localstore"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote"
)

// Provenance records where a returned value came from.
type Provenance string

const (
	ProvenanceRemote  Provenance = "remote"
	ProvenanceCached  Provenance = "cached"
	ProvenanceDefault Provenance = "default"
)

// DefaultFetchTimeout bounds a remote fetch once it is detached from its caller.
const DefaultFetchTimeout = 10 * time.Second

// FetchFunc fetches a resource and returns it in canonical shape.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type options struct {
	fetchTimeout time.Duration
}

type Option func(*options)

// WithFetchTimeout overrides DefaultFetchTimeout. Non-positive values are ignored.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// Loader resolves one resource key. Values it returns are shared with concurrent
// callers and must be treated as read-only.
type Loader[T any] struct {
	key      string
	fetch    FetchFunc[T]
	store    localstore.Store
	fallback T
	opts     options
	group    singleflight.Group
}

type fetched[T any] struct {
	value T
}

// New builds a loader. fallback is deep-copied on every use, so the caller's
// value is never handed out.
func New[T any](key string, fetch FetchFunc[T], store localstore.Store, fallback T, opts ...Option) *Loader[T] {
	o := options{fetchTimeout: DefaultFetchTimeout}
	for _, apply := range opts {
		apply(&o)
	}
	return &Loader[T]{
		key:      key,
		fetch:    fetch,
		store:    store,
		fallback: fallback,
		opts:     o,
	}
}

// Key returns the resource key this loader owns.
func (l *Loader[T]) Key() string {
	return l.key
}

// Load returns the freshest available value. It never fails.
func (l *Loader[T]) Load(ctx context.Context) T {
	v, _ := l.LoadWithProvenance(ctx)
	return v
}

// LoadWithProvenance is Load plus the tier that supplied the value.
//
// A caller that gives up (ctx done) falls through to the store immediately;
// the shared fetch keeps running and still saves its result.
func (l *Loader[T]) LoadWithProvenance(ctx context.Context) (T, Provenance) {
	log := logger.WithResource("loader", l.key)

	ch := l.group.DoChan(l.key, func() (any, error) {
		return l.fetchAndSave(ctx)
	})

	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(fetched[T]).value, ProvenanceRemote
		}
		log.WithError(res.Err).Warn("remote fetch failed, using local snapshot")
	case <-ctx.Done():
		log.WithError(ctx.Err()).Debug("caller abandoned fetch, using local snapshot")
	}
	return l.local()
}

// Refresh re-runs the read-through path and reports whether the remote tier answered.
func (l *Loader[T]) Refresh(ctx context.Context) bool {
	_, p := l.LoadWithProvenance(ctx)
	return p == ProvenanceRemote
}

func (l *Loader[T]) fetchAndSave(caller context.Context) (any, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(caller), l.opts.fetchTimeout)
	defer cancel()

	value, err := l.fetch(ctx)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		// An absent row is a valid answer: its canonical value is the default.
		value, err = l.defaultValue()
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	l.store.Save(l.key, value)
	return fetched[T]{value: value}, nil
}

func (l *Loader[T]) local() (T, Provenance) {
	var cached T
	if l.store.Load(l.key, &cached) {
		return cached, ProvenanceCached
	}
	v, err := l.defaultValue()
	if err != nil {
		logger.WithResource("loader", l.key).WithError(err).Error("fallback is not serialisable")
		var zero T
		return zero, ProvenanceDefault
	}
	return v, ProvenanceDefault
}

func (l *Loader[T]) defaultValue() (T, error) {
	return content.Clone(l.fallback)
}
