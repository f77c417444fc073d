package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/engine/highlight"
)

const (
	DefaultFileName      = "rosview.toml"
	DefaultDBName        = "records.db"
	DefaultServiceName   = "rosview"
	DefaultRefreshRate   = 10.0
	DefaultWatchDebounce = 250 * time.Millisecond
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeNotFound, "read config"),
			coreerrors.CtxPath, path,
		)
	}

	cfg := newConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeValidationError, "decode config"),
			coreerrors.CtxPath, path,
		)
	}

	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, coreerrors.AddContext(err, coreerrors.CtxPath, path)
	}
	return cfg, nil
}

// newConfig presets the fields whose zero value is a meaningful setting, so
// that decoding only overrides them when the file names them.
func newConfig() *Config {
	return &Config{
		DB:    Database{Enabled: true},
		Graph: Graph{HighlightLevel: highlight.LevelSiblings},
	}
}

// LoadOrDefault loads path when it exists and falls back to DefaultConfig
// otherwise. Environment overrides apply either way.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = DefaultDBName
	}
	if cfg.DB.BusyTimeout == 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Console.IncludeMode) == "" {
		cfg.Console.IncludeMode = "any"
	}
	if strings.TrimSpace(cfg.Console.ExcludeMode) == "" {
		cfg.Console.ExcludeMode = "any"
	}

	if len(cfg.Watch.Paths) == 0 {
		cfg.Watch.Paths = []string{"logs"}
	}
	if len(cfg.Watch.Include) == 0 {
		cfg.Watch.Include = []string{"*.jsonl", "*.log"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = DefaultServiceName
	}

	if cfg.UI.RefreshPerSecond == 0 {
		cfg.UI.RefreshPerSecond = DefaultRefreshRate
	}
}
