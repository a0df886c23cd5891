package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dyike/ArenaGo/internal/logs"
)

const watchDebounce = 250 * time.Millisecond

// Manager owns the config file on disk and serves the current snapshot.
// Watch applies external edits to the file back into the snapshot, so a
// long-running session picks up new settings without a restart.
type Manager struct {
	path string

	mu  sync.RWMutex
	cfg Config

	watchOnce sync.Once
	selfWrite atomic.Bool
}

// NewManager loads the config file at path, seeding it from seed when it
// does not exist yet. An empty path picks a per-user default location.
// Seed credentials are kept on the snapshot but never written to disk.
func NewManager(path string, seed *Config) (*Manager, error) {
	if path == "" {
		var err error
		path, err = userConfigPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	m := &Manager{path: path}

	cfg, err := m.load()
	switch {
	case err == nil:
	case os.IsNotExist(err):
		if seed != nil {
			cfg = *seed
		} else {
			cfg = *DefaultConfigWithRoot(filepath.Dir(path))
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if err := m.write(cfg); err != nil {
			return nil, fmt.Errorf("write initial config: %w", err)
		}
	default:
		return nil, err
	}

	if seed != nil {
		copyCredentials(&cfg, seed)
	}
	m.cfg = cfg
	return m, nil
}

// Path returns the location of the backing file.
func (m *Manager) Path() string {
	return m.path
}

// Snapshot returns the current configuration by value.
func (m *Manager) Snapshot() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Save validates cfg, adopts it as the snapshot and persists it.
// Unchanged configs are not rewritten.
func (m *Manager) Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	same := reflect.DeepEqual(m.cfg, cfg)
	if !same {
		m.cfg = cfg
	}
	m.mu.Unlock()

	if same {
		return nil
	}
	return m.write(cfg)
}

// Watch starts following the backing file until ctx is cancelled.
// onChange runs after each successful external reload. Only the first
// call arms the watcher.
func (m *Manager) Watch(ctx context.Context, onChange func(Config)) error {
	var err error
	m.watchOnce.Do(func() {
		var w *fsnotify.Watcher
		w, err = fsnotify.NewWatcher()
		if err != nil {
			return
		}
		// watch the directory: editors replace the file by rename
		if err = w.Add(filepath.Dir(m.path)); err != nil {
			w.Close()
			return
		}
		go m.followFile(ctx, w, onChange)
	})
	return err
}

func (m *Manager) followFile(ctx context.Context, w *fsnotify.Watcher, onChange func(Config)) {
	defer w.Close()

	var pending *time.Timer
	for {
		select {
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != filepath.Clean(m.path) {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if m.selfWrite.Load() {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(watchDebounce, func() { m.reload(onChange) })
		case werr, ok := <-w.Errors:
			if !ok {
				return
			}
			logs.Logger().Warn().Err(werr).Msg("config watcher error")
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) reload(onChange func(Config)) {
	cfg, err := m.load()
	if err != nil {
		logs.Logger().Warn().Err(err).Str("path", m.path).Msg("config reload rejected")
		return
	}

	m.mu.Lock()
	copyCredentials(&cfg, &m.cfg)
	changed := !reflect.DeepEqual(m.cfg, cfg)
	if changed {
		m.cfg = cfg
	}
	m.mu.Unlock()

	if changed && onChange != nil {
		onChange(cfg)
	}
}

func (m *Manager) load() (Config, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", m.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// write replaces the file atomically and briefly mutes the watcher so
// our own writes do not bounce back as reloads.
func (m *Manager) write(cfg Config) error {
	m.selfWrite.Store(true)
	time.AfterFunc(2*watchDebounce, func() { m.selfWrite.Store(false) })

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".config-*")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&cfg); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp config: %w", err)
	}
	return os.Rename(tmp.Name(), m.path)
}

// copyCredentials carries the env-only secret fields from src onto dst.
// They have no representation in the file, so every load would blank
// them otherwise.
func copyCredentials(dst, src *Config) {
	dst.DeepSeekAPIKey = src.DeepSeekAPIKey
	dst.OpenAIAPIKey = src.OpenAIAPIKey
	dst.LongportAppKey = src.LongportAppKey
	dst.LongportAppSecret = src.LongportAppSecret
	dst.LongportAccessToken = src.LongportAccessToken
}

func userConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "arenago", "config.json"), nil
}
