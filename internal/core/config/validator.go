package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gobwas/glob"

	coreerrors "rosview/internal/core/errors"
	"rosview/internal/engine/filter"
	"rosview/internal/engine/highlight"
)

// Validate checks every section and reports all problems at once.
func Validate(cfg *Config) error {
	var problems []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateDatabase,
		validateConsole,
		validateGraph,
		validateWatch,
		validateObservability,
		validateUI,
	} {
		if err := check(cfg); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return coreerrors.Wrap(errors.Join(problems...), coreerrors.CodeValidationError, "invalid config")
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	if cfg.DB.BusyTimeout < 0 {
		return fmt.Errorf("db.busy_timeout must be >= 0, got %s", cfg.DB.BusyTimeout)
	}
	return nil
}

func validateConsole(cfg *Config) error {
	if _, err := filter.ParseMode(cfg.Console.IncludeMode); err != nil {
		return fmt.Errorf("console.include_mode: %w", err)
	}
	if _, err := filter.ParseMode(cfg.Console.ExcludeMode); err != nil {
		return fmt.Errorf("console.exclude_mode: %w", err)
	}
	if err := validateFilterSpecs("console.include", cfg.Console.Include); err != nil {
		return err
	}
	return validateFilterSpecs("console.exclude", cfg.Console.Exclude)
}

func validateFilterSpecs(section string, specs []FilterSpec) error {
	for i, spec := range specs {
		if !spec.Regex {
			continue
		}
		if err := filter.NewWith(spec.Text, true, true).Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", section, i, err)
		}
	}
	return nil
}

func validateGraph(cfg *Config) error {
	level := cfg.Graph.HighlightLevel
	if level < highlight.LevelNone || level > highlight.LevelSiblings {
		return fmt.Errorf("graph.highlight_level must be between %d and %d, got %d",
			highlight.LevelNone, highlight.LevelSiblings, level)
	}
	if _, err := cfg.Graph.Palette.BuildPalette(); err != nil {
		return fmt.Errorf("graph.palette: %w", err)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	for _, path := range cfg.Watch.Paths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("watch.paths must not contain empty entries")
		}
	}
	for _, pattern := range append(append([]string(nil), cfg.Watch.Include...), cfg.Watch.Exclude...) {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("watch pattern %q: %w", pattern, err)
		}
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	addr := strings.TrimSpace(cfg.Observability.MetricsAddr)
	if addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("observability.metrics_addr %q: %w", addr, err)
		}
	}
	if cfg.Observability.Tracing && strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		return fmt.Errorf("observability.service_name must not be empty when tracing is enabled")
	}
	return nil
}

func validateUI(cfg *Config) error {
	if cfg.UI.RefreshPerSecond <= 0 {
		return fmt.Errorf("ui.refresh_per_second must be > 0, got %g", cfg.UI.RefreshPerSecond)
	}
	return nil
}
