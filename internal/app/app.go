package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vijayapps/vac_site/internal/auth"
	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/config"
	"github.com/vijayapps/vac_site/internal/loader"
	"github.com/vijayapps/vac_site/internal/localstore"
	"github.com/vijayapps/vac_site/internal/logger"
	"github.com/vijayapps/vac_site/internal/remote"
	"github.com/vijayapps/vac_site/internal/scheduler"
	"github.com/vijayapps/vac_site/internal/site"
)

// Watcher is implemented by stores that can observe writes made by other processes.
type Watcher interface {
	Watch(ctx context.Context, debounce time.Duration) (<-chan struct{}, error)
}

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config   *config.Config
	Remote   remote.Client
	Store    localstore.Admin
	Bus      *broadcast.Bus
	Catalog  *site.Catalog
	Sessions *auth.Sessions

	BaseCtx context.Context
	Cancel  context.CancelFunc

	background []<-chan struct{}
}

func New(cfg *config.Config, client remote.Client, store localstore.Admin, bus *broadcast.Bus) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if client == nil {
		return nil, errors.New("remote client is nil")
	}
	if store == nil {
		return nil, errors.New("local store is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	catalog, err := site.NewCatalog(client, store, loader.WithFetchTimeout(cfg.Remote.FetchTimeout))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:   cfg,
		Remote:   client,
		Store:    store,
		Bus:      bus,
		Catalog:  catalog,
		Sessions: auth.NewSessions(cfg.Admin.Password, cfg.Admin.SessionTTL),
		BaseCtx:  ctx,
		Cancel:   cancel,
	}, nil
}

// FromConfig builds the backend client, the local store and the bus described by cfg.
func FromConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	bus := broadcast.New()

	var store localstore.Admin
	if cfg.Store.Dir == "" {
		logger.WithComponent("app").Warn("no store directory configured, snapshots live in memory only")
		store = localstore.NewMemoryStore(bus)
	} else {
		fs, err := localstore.NewFileStore(cfg.Store.Dir, bus)
		if err != nil {
			return nil, fmt.Errorf("cannot init local store: %w", err)
		}
		store = fs
	}

	client, err := remote.NewClientFromConfig(ctx, remote.Options{
		Type:           cfg.Remote.Type,
		URL:            cfg.Remote.URL,
		NotifyChannel:  cfg.Remote.NotifyChannel,
		InstanceID:     uuid.NewString(),
		MigrateOnStart: cfg.Remote.MigrateOnStart,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot init remote client: %w", err)
	}

	a, err := New(cfg, client, store, bus)
	if err != nil {
		client.Close()
		return nil, err
	}
	return a, nil
}

// StartWatchers starts the background loops: the store watcher, the relay
// listener, the refresher and the session expiry loop.
func (a *App) StartWatchers() error {
	if w, ok := a.Store.(Watcher); ok && a.Config.Store.WatchEnabled {
		done, err := w.Watch(a.BaseCtx, a.Config.Store.Debounce)
		if err != nil {
			return fmt.Errorf("cannot start store watcher: %w", err)
		}
		a.background = append(a.background, done)
	}

	if a.Config.Remote.RelayEnabled {
		a.background = append(a.background, scheduler.StartRelayListener(a.BaseCtx, a.Remote, a.onRemoteChange))
	}

	a.background = append(a.background, scheduler.StartRefresher(a.BaseCtx, a.Catalog, a.Config.Store.RefreshInterval))
	a.Sessions.Start()
	return nil
}

// onRemoteChange re-reads a resource another instance reported as changed.
// The refresh saves the fresh snapshot, which signals local consumers.
func (a *App) onRemoteChange(key string) {
	if _, err := a.Catalog.Refresh(a.BaseCtx, key); err != nil {
		logger.WithResource("app", key).WithError(err).Debug("ignoring relay signal")
	}
}

// PublishChange refreshes keys locally and tells other instances about them.
// Relay failures are logged: the write itself already succeeded.
func (a *App) PublishChange(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if _, err := a.Catalog.Refresh(ctx, key); err != nil {
			logger.WithResource("app", key).WithError(err).Warn("refresh after write failed")
		}
		if !a.Config.Remote.RelayEnabled {
			continue
		}
		if err := a.Remote.Publish(ctx, key); err != nil {
			logger.WithResource("app", key).WithError(err).Warn("relay publish failed")
		}
	}
}

// Shutdown cancels the background loops, waits for them up to the server's
// shutdown timeout and closes the backend client.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()

	timeout := time.NewTimer(a.Config.Server.ShutDownTimeout)
	defer timeout.Stop()
	for _, done := range a.background {
		select {
		case <-done:
		case <-timeout.C:
			logger.WithComponent("app").Warn("background loops did not stop in time")
			a.closeResources()
			return
		}
	}
	a.closeResources()
}

func (a *App) closeResources() {
	if a.Sessions != nil {
		a.Sessions.Stop()
	}
	a.Remote.Close()
}
