package config

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Watcher polls the configuration file and reloads it when the modification
// time changes. Polling keeps the dependency surface flat and works on
// every filesystem, including bind mounts where inotify events are
// unreliable.
type Watcher struct {
	mu sync.RWMutex

	loader   *Loader
	path     string
	interval time.Duration
	logger   *zap.Logger

	current  *Config
	lastMod  time.Time
	onReload []func(old, new *Config)
	stop     chan struct{}
	running  bool
}

// NewWatcher creates a watcher over the given config path. The initial
// configuration is loaded immediately; a load failure at construction is
// fatal, later reload failures only log and keep the previous config.
func NewWatcher(path string, interval time.Duration, logger *zap.Logger) (*Watcher, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	loader := NewLoader().WithConfigPath(path)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("initial config load: %w", err)
	}
	w := &Watcher{
		loader:   loader,
		path:     path,
		interval: interval,
		logger:   logger,
		current:  cfg,
		stop:     make(chan struct{}),
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	return w, nil
}

// Current returns the most recently applied configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnReload registers a callback invoked after each successful reload.
// Callbacks run on the watcher goroutine and must not block.
func (w *Watcher) OnReload(fn func(old, new *Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// Start begins polling until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case <-ticker.C:
				w.poll()
			}
		}
	}()
}

// Stop halts polling. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stop)
}

func (w *Watcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		// A transiently missing file (atomic replace in flight) is not a
		// reload trigger.
		return
	}

	w.mu.RLock()
	unchanged := !info.ModTime().After(w.lastMod)
	w.mu.RUnlock()
	if unchanged {
		return
	}

	cfg, err := w.loader.Load()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}

	w.mu.Lock()
	old := w.current
	w.current = cfg
	w.lastMod = info.ModTime()
	callbacks := make([]func(old, new *Config), len(w.onReload))
	copy(callbacks, w.onReload)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded", zap.String("path", w.path))
	for _, fn := range callbacks {
		fn(old, cfg)
	}
}
