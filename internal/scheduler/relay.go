package scheduler

import (
	"context"
	"time"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/logger"
)

const (
	relayMinBackoff = time.Second
	relayMaxBackoff = 30 * time.Second
)

// StartRelayListener keeps a Listen call open on relay, reconnecting with
// exponential backoff, and hands every received key to onSignal in its own
// goroutine. The returned channel is closed once ctx is done and Listen returned.
func StartRelayListener(ctx context.Context, relay broadcast.Relay, onSignal func(resourceKey string)) <-chan struct{} {
	done := make(chan struct{})
	log := logger.WithComponent("relay")
	go func() {
		defer close(done)
		backoff := relayMinBackoff
		for {
			started := time.Now()
			err := relay.Listen(ctx, func(key string) {
				go onSignal(key)
			})
			if ctx.Err() != nil {
				log.Info("relay listener stopped")
				return
			}
			if time.Since(started) > relayMaxBackoff {
				backoff = relayMinBackoff
			}
			log.WithError(err).Warnf("relay listener exited, retrying in %v", backoff)

			t := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				log.Info("relay listener stopped")
				return
			case <-t.C:
			}
			backoff = min(backoff*2, relayMaxBackoff)
		}
	}()
	return done
}
