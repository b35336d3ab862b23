package localstore

import (
	"bytes"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/logger"
)

// MemoryStore is an in-process Store. It survives nothing beyond the process and is
// used when no store directory is configured, and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	stamps  map[string]time.Time
	emitter broadcast.Emitter
}

var _ Admin = (*MemoryStore)(nil)

func NewMemoryStore(emitter broadcast.Emitter) *MemoryStore {
	return &MemoryStore{
		data:    map[string][]byte{},
		stamps:  map[string]time.Time{},
		emitter: emitterOrNoop(emitter),
	}
}

func (m *MemoryStore) Save(resourceKey string, snapshot any) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		logger.WithResource("memory-store", resourceKey).Warnf("snapshot not saved: encode: %v", err)
		return
	}

	m.mu.Lock()
	if bytes.Equal(m.data[resourceKey], payload) {
		m.mu.Unlock()
		return
	}
	m.data[resourceKey] = payload
	m.stamps[resourceKey] = time.Now()
	m.mu.Unlock()

	m.emitter.Emit(resourceKey)
}

func (m *MemoryStore) Load(resourceKey string, into any) bool {
	data, ok := m.Raw(resourceKey)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		logger.WithResource("memory-store", resourceKey).Warnf("ignoring corrupt snapshot: %v", err)
		return false
	}
	return true
}

func (m *MemoryStore) Raw(resourceKey string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[resourceKey]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

func (m *MemoryStore) Timestamp(resourceKey string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts, ok := m.stamps[resourceKey]
	return ts, ok
}

func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MemoryStore) Purge(resourceKey string) {
	m.mu.Lock()
	delete(m.data, resourceKey)
	delete(m.stamps, resourceKey)
	m.mu.Unlock()
	m.emitter.Emit(resourceKey)
}

// Put stores raw bytes without validation or signalling. Tests use it to plant corrupt entries.
func (m *MemoryStore) Put(resourceKey string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[resourceKey] = bytes.Clone(raw)
	m.stamps[resourceKey] = time.Now()
}
