// Package scheduler runs the background loops that keep the local store warm
// and relay invalidations between server instances.
package scheduler

import (
	"context"
	"time"

	"github.com/vijayapps/vac_site/internal/logger"
)

// Refresher re-runs every loader it owns. *site.Catalog satisfies it.
type Refresher interface {
	RefreshAll(ctx context.Context) int
	Keys() []string
}

// StartRefresher re-runs every loader on each tick so the durable store holds a
// recent snapshot even for resources nobody has requested lately.
// A non-positive interval disables it. The returned channel is closed once the
// loop has exited.
func StartRefresher(ctx context.Context, r Refresher, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		logger.WithComponent("refresh").Info("background refresh disabled")
		close(done)
		return done
	}

	logger.WithComponent("refresh").Debugf("starting refresher with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("refresh").Info("refresher stopped")
				return
			case <-ticker.C:
				refreshOnce(ctx, r)
			}
		}
	}()
	return done
}

func refreshOnce(ctx context.Context, r Refresher) {
	keys := r.Keys()
	ok := r.RefreshAll(ctx)
	entry := logger.WithComponent("refresh").WithField("resources", len(keys)).WithField("remote", ok)
	if ok < len(keys) {
		entry.Warn("some resources were served from the local snapshot")
		return
	}
	entry.Debug("refresh tick complete")
}
