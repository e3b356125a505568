package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 300 * time.Millisecond

// Watcher reloads the YAML config file when it changes and applies the new
// log level. Only the log level is hot-reloadable; other changes are logged
// and take effect on restart.
type Watcher struct {
	path    string
	level   zap.AtomicLevel
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	current   *Config
	callbacks []func(*Config)
	done      chan struct{}
	stopOnce  sync.Once
}

// NewWatcher watches cfg.ConfigFile. The parent directory is watched so that
// editors replacing the file atomically are noticed.
func NewWatcher(cfg *Config, level zap.AtomicLevel, logger *zap.Logger) (*Watcher, error) {
	if cfg.ConfigFile == "" {
		return nil, fmt.Errorf("no config file to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	path := filepath.Clean(cfg.ConfigFile)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		level:   level,
		logger:  logger.Named("ConfigWatcher"),
		watcher: fsw,
		current: cfg,
		done:    make(chan struct{}),
	}
	go w.loop()

	w.logger.Info("configuration hot reloading enabled", zap.String("file", path))
	return w, nil
}

// OnChange registers a callback run after each successful reload.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Current returns the last successfully loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stop ends the watch loop. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	next := Default()
	if err := loadFile(w.path, next); err != nil {
		w.logger.Error("config reload failed", zap.Error(err))
		return
	}
	next.applyEnv()
	next.ConfigFile = w.path
	if err := next.Validate(); err != nil {
		w.logger.Error("invalid configuration after reload", zap.Error(err))
		return
	}

	level, err := ParseLevel(next.LogLevel)
	if err != nil {
		w.logger.Error("invalid log level after reload", zap.Error(err))
		return
	}
	if level != w.level.Level() {
		w.logger.Info("log level changed",
			zap.String("from", w.level.Level().String()),
			zap.String("to", level.String()))
		w.level.SetLevel(level)
	}

	w.mu.Lock()
	w.current = next
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(next)
	}
}
