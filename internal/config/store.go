package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"build-notifier/internal/domain/model"
	"build-notifier/internal/domain/ports"
)

const reloadDebounce = 250 * time.Millisecond

// Store hands out immutable settings snapshots and owns the update path.
// Readers never lock; writers serialize on mu, validate, then swap the pointer.
type Store struct {
	path   string
	logger ports.Logger

	mu      sync.Mutex
	current atomic.Pointer[model.Settings]
}

// NewStore loads and validates the settings file at path.
func NewStore(path string, logger ports.Logger) (*Store, error) {
	s, err := LoadSettings(path)
	if err != nil {
		return nil, err
	}
	st := &Store{path: path, logger: logger}
	st.current.Store(s)
	return st, nil
}

// Snapshot returns the settings in effect. Callers must not modify the result.
func (s *Store) Snapshot() model.Settings {
	return *s.current.Load()
}

// Update validates and installs new settings.
func (s *Store) Update(next *model.Settings) error {
	if err := Validate(next); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Store(cloneSettings(next))
	return nil
}

// Reload re-reads the settings file. On failure the previous snapshot stays active.
func (s *Store) Reload() error {
	next, err := LoadSettings(s.path)
	if err != nil {
		return err
	}
	return s.Update(next)
}

// Watch reloads the settings whenever the file changes, until ctx is done.
// The directory is watched so editors that replace the file are handled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(s.path)
	file := filepath.Base(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	reload := func() {
		if err := s.Reload(); err != nil {
			s.logger.Warn(ctx, "settings reload rejected; keeping previous settings", "path", s.path, "error", err)
			return
		}
		s.logger.Info(ctx, "settings reloaded", "path", s.path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("settings watcher closed")
			}
			if filepath.Base(ev.Name) != file {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Debounce partial writes.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("settings watcher closed")
			}
			s.logger.Warn(ctx, "settings watcher error", "error", err)
		}
	}
}

func cloneSettings(in *model.Settings) *model.Settings {
	out := *in
	if in.Jobs != nil {
		out.Jobs = make(map[string]model.NotifierConfig, len(in.Jobs))
		for k, v := range in.Jobs {
			out.Jobs[k] = v
		}
	}
	return &out
}
