package localstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vijayapps/vac_site/internal/logger"
)

// DefaultDebounce coalesces the write/rename/chmod bursts of one atomic save.
const DefaultDebounce = 200 * time.Millisecond

// Watch starts the cross-process transport: changes made to the directory by
// other FileStore instances are re-emitted on this store's emitter. Writes made
// through this instance are recognised by their timestamp and not re-emitted,
// since Save already signalled them synchronously.
//
// The watcher stops when ctx is cancelled; the returned channel is closed once
// its goroutine has exited.
func (s *FileStore) Watch(ctx context.Context, debounce time.Duration) (<-chan struct{}, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch dir: %w", err)
	}

	log := logger.WithComponent("localstore-watch")
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer watcher.Close()

		var mu sync.Mutex
		timers := map[string]*time.Timer{}
		stopped := false
		defer func() {
			mu.Lock()
			stopped = true
			for _, t := range timers {
				t.Stop()
			}
			mu.Unlock()
		}()

		// schedule restarts the per-key debounce timer.
		schedule := func(key string) {
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			if t, ok := timers[key]; ok {
				t.Stop()
			}
			timers[key] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(timers, key)
				halted := stopped
				mu.Unlock()
				if halted {
					return
				}
				if s.noticeExternalChange(key) {
					log.WithField("resource", key).Debug("snapshot changed by another process")
					s.emitter.Emit(key)
				}
			})
		}

		log.Debugf("watching %s", s.dir)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				key, ok := keyFromFile(filepath.Base(event.Name))
				if !ok {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					schedule(key)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("watcher error: %v", err)
			}
		}
	}()

	return done, nil
}

// noticeExternalChange reports whether the current on-disk state of key was not
// yet signalled by this instance, and records it as signalled.
func (s *FileStore) noticeExternalChange(key string) bool {
	ts, ok := s.readTimestamp(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		// Removed or timestamp unreadable: signal once, unless this instance purged it.
		if s.lastSeen[key] == purgedMarker {
			return false
		}
		s.lastSeen[key] = purgedMarker
		return true
	}
	if ts == s.lastSeen[key] {
		return false
	}
	s.lastSeen[key] = ts
	return true
}
