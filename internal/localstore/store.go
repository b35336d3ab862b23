// Package localstore keeps the last known-good snapshot of each cached resource
// so a process can keep serving content while the hosted backend is unreachable.
//
// Writes are fail-open: a snapshot that cannot be persisted is logged and dropped,
// because the caller already holds the value in memory. Reads never error either;
// a missing, unreadable or corrupt entry reads as absent.
package localstore

import (
	"time"

	"github.com/vijayapps/vac_site/internal/broadcast"
)

// Store is the durable snapshot store used by the read-through loaders.
type Store interface {
	// Save persists snapshot under resourceKey and emits an invalidation for it.
	Save(resourceKey string, snapshot any)
	// Load decodes the snapshot for resourceKey into into. It reports false when absent.
	Load(resourceKey string, into any) bool
	// Timestamp returns the time of the last save for resourceKey.
	Timestamp(resourceKey string) (time.Time, bool)
}

// Admin is the operator surface used by sitectl.
type Admin interface {
	Store
	Keys() []string
	Raw(resourceKey string) ([]byte, bool)
	Purge(resourceKey string)
}

type noopEmitter struct{}

func (noopEmitter) Emit(string) {}

func emitterOrNoop(e broadcast.Emitter) broadcast.Emitter {
	if e == nil {
		return noopEmitter{}
	}
	return e
}
