package storage

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultWatchInterval is how often the storage file is polled for
// external writes.
const DefaultWatchInterval = time.Second

// Watcher observes the storage file for writes made by another process
// (for example a second running instance) and invokes a callback when the
// file changes underneath us. The callback is expected to fully reload
// in-memory state; there is no merging.
type Watcher struct {
	path     string
	interval time.Duration
	onChange func()
	done     chan struct{}
}

// NewWatcher creates a Watcher for the given storage file path.
// A non-positive interval uses DefaultWatchInterval.
func NewWatcher(path string, interval time.Duration, onChange func()) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		path:     path,
		interval: interval,
		onChange: onChange,
		done:     make(chan struct{}),
	}
}

// Start begins polling in a background goroutine until Stop is called.
func (w *Watcher) Start() {
	lastMod, lastSize := w.stat()

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.done:
				return
			case <-ticker.C:
				mod, size := w.stat()
				if mod.Equal(lastMod) && size == lastSize {
					continue
				}
				lastMod, lastSize = mod, size
				log.Debug().Str("path", w.path).Msg("storage changed externally")
				w.onChange()
			}
		}
	}()
}

// Stop ends polling. Safe to call once.
func (w *Watcher) Stop() {
	close(w.done)
}

func (w *Watcher) stat() (time.Time, int64) {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}, -1
	}
	return info.ModTime(), info.Size()
}
