package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "2s" parse naturally.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds the application configuration
type Config struct {
	// BackendURL is the base URL of the CognitiveFlow backend
	BackendURL string `yaml:"backend_url"`

	// PollInterval is the cadence of the host context poll
	PollInterval Duration `yaml:"poll_interval"`

	// RequestTimeout bounds each backend call (the transport default)
	RequestTimeout Duration `yaml:"request_timeout"`

	// Theme is the catppuccin flavour (mocha, macchiato, frappe, latte)
	Theme string `yaml:"theme"`

	// ExportDir is where exported results are written
	ExportDir string `yaml:"export_dir"`

	// DefaultMode preselects the AI mode for new workflows (analyze, create, automate)
	DefaultMode string `yaml:"default_mode"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:8000",
		PollInterval:   Duration(2 * time.Second),
		RequestTimeout: Duration(30 * time.Second),
		Theme:          "mocha",
		ExportDir:      ".",
		DefaultMode:    "analyze",
	}
}

// Load reads the config from a YAML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //nolint:gosec // config path from known locations
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPath returns the first config file that exists in the standard
// locations, or empty if none does.
func DefaultPath() string {
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "cogniflow", "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "cogniflow", "config.yaml"))
	}

	for _, path := range paths {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil {
			return cleanPath
		}
	}

	return ""
}

// LoadFromDefaultPath attempts to load config from standard locations
func LoadFromDefaultPath() (*Config, error) {
	if path := DefaultPath(); path != "" {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Watch reloads the config whenever path changes and passes the result
// to apply. The parent directory is watched because editors commonly
// replace the file instead of writing it in place. The returned stop
// function is idempotent.
func Watch(path string, apply func(*Config)) (func(), error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	cleanPath := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(cleanPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != cleanPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if cfg, err := Load(cleanPath); err == nil {
					apply(cfg)
				}
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			_ = fsw.Close()
		})
	}
	return stop, nil
}

// global config instance, guarded because the watcher goroutine replaces
// it while UI command goroutines read it
var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the global config instance, loading it if necessary.
// Safe for concurrent use.
func Global() *Config {
	globalMu.RLock()
	cfg := globalConfig
	globalMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	loaded, err := LoadFromDefaultPath()
	if err != nil {
		loaded = DefaultConfig()
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		globalConfig = loaded
	}
	return globalConfig
}

// SetGlobal replaces the global config instance. Called by tests and by
// the config watcher on reload.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}
