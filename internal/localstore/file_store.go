package localstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vijayapps/vac_site/internal/broadcast"
	"github.com/vijayapps/vac_site/internal/logger"
)

const (
	dataExt      = ".json"
	timestampExt = ".ts"
	tmpMarker    = ".tmp-"
)

// FileStore keeps one JSON file per resource in a directory, plus a sibling
// timestamp file. Several processes may share the directory; each write is a
// whole-value atomic replace, so concurrent writers resolve as last write wins.
type FileStore struct {
	dir     string
	emitter broadcast.Emitter
	now     func() time.Time

	mu sync.Mutex
	// lastSeen is the newest timestamp this instance wrote or already signalled, per key.
	lastSeen map[string]int64
}

var _ Admin = (*FileStore)(nil)

// purgedMarker in lastSeen means this instance removed the snapshot itself.
const purgedMarker int64 = -1

// NewFileStore creates the directory if needed. Signals from Save are sent to emitter.
func NewFileStore(dir string, emitter broadcast.Emitter) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{
		dir:      dir,
		emitter:  emitterOrNoop(emitter),
		now:      time.Now,
		lastSeen: map[string]int64{},
	}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func escapeKey(resourceKey string) string {
	return url.QueryEscape(resourceKey)
}

func (s *FileStore) dataPath(resourceKey string) string {
	return filepath.Join(s.dir, escapeKey(resourceKey)+dataExt)
}

func (s *FileStore) timestampPath(resourceKey string) string {
	return filepath.Join(s.dir, escapeKey(resourceKey)+timestampExt)
}

// keyFromFile maps a directory entry back to its resource key.
func keyFromFile(name string) (string, bool) {
	if strings.Contains(name, tmpMarker) {
		return "", false
	}
	base, ok := strings.CutSuffix(name, dataExt)
	if !ok {
		base, ok = strings.CutSuffix(name, timestampExt)
	}
	if !ok || base == "" {
		return "", false
	}
	key, err := url.QueryUnescape(base)
	if err != nil {
		return "", false
	}
	return key, true
}

// Save writes snapshot and its timestamp, then emits. Identical snapshots are not rewritten.
func (s *FileStore) Save(resourceKey string, snapshot any) {
	log := logger.WithResource("localstore", resourceKey)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Warnf("snapshot not saved: encode: %v", err)
		return
	}

	s.mu.Lock()
	current, readErr := os.ReadFile(s.dataPath(resourceKey))
	if readErr == nil && bytes.Equal(current, payload) {
		s.mu.Unlock()
		log.Tracef("snapshot unchanged, skipping write")
		return
	}

	ts := s.now().UnixMilli()
	if prev := s.lastSeen[resourceKey]; ts <= prev {
		ts = prev + 1
	}
	if err := writeAtomic(s.dir, s.dataPath(resourceKey), payload); err != nil {
		s.mu.Unlock()
		log.Warnf("snapshot not saved: %v", err)
		return
	}
	if err := writeAtomic(s.dir, s.timestampPath(resourceKey), []byte(strconv.FormatInt(ts, 10))); err != nil {
		log.Warnf("snapshot timestamp not saved: %v", err)
	}
	s.lastSeen[resourceKey] = ts
	s.mu.Unlock()

	log.Debugf("snapshot saved (%d bytes)", len(payload))
	s.emitter.Emit(resourceKey)
}

// Load decodes the stored snapshot into into.
func (s *FileStore) Load(resourceKey string, into any) bool {
	data, ok := s.Raw(resourceKey)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, into); err != nil {
		logger.WithResource("localstore", resourceKey).Warnf("ignoring corrupt snapshot: %v", err)
		return false
	}
	return true
}

// Raw returns the stored bytes for resourceKey.
func (s *FileStore) Raw(resourceKey string) ([]byte, bool) {
	data, err := os.ReadFile(s.dataPath(resourceKey))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.WithResource("localstore", resourceKey).Warnf("snapshot unreadable: %v", err)
		}
		return nil, false
	}
	return data, true
}

// Timestamp reads the sibling timestamp entry.
func (s *FileStore) Timestamp(resourceKey string) (time.Time, bool) {
	ms, ok := s.readTimestamp(resourceKey)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func (s *FileStore) readTimestamp(resourceKey string) (int64, bool) {
	data, err := os.ReadFile(s.timestampPath(resourceKey))
	if err != nil {
		return 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// Keys lists the stored resource keys in lexical order.
func (s *FileStore) Keys() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.WithComponent("localstore").Warnf("list store dir: %v", err)
		return nil
	}
	keys := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), dataExt) {
			continue
		}
		if key, ok := keyFromFile(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Purge removes a snapshot and its timestamp, then emits so views refetch.
func (s *FileStore) Purge(resourceKey string) {
	s.mu.Lock()
	for _, p := range []string{s.dataPath(resourceKey), s.timestampPath(resourceKey)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WithResource("localstore", resourceKey).Warnf("purge: %v", err)
		}
	}
	s.lastSeen[resourceKey] = purgedMarker
	s.mu.Unlock()
	s.emitter.Emit(resourceKey)
}

// writeAtomic writes payload to a temp file in dir and renames it over path.
func writeAtomic(dir, path string, payload []byte) error {
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+tmpMarker)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}
