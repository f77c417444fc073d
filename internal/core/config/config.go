// # internal/core/config/config.go
package config

import (
	"time"

	"rosview/internal/engine/filter"
	"rosview/internal/engine/highlight"
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	DB            Database      `toml:"db"`
	Console       Console       `toml:"console"`
	Graph         Graph         `toml:"graph"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
	UI            UI            `toml:"ui"`
}

type Paths struct {
	StateDir string `toml:"state_dir"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

// Console holds the include and exclude filter lists shown in the record console.
type Console struct {
	IncludeMode string       `toml:"include_mode"`
	ExcludeMode string       `toml:"exclude_mode"`
	Include     []FilterSpec `toml:"include"`
	Exclude     []FilterSpec `toml:"exclude"`
}

type FilterSpec struct {
	Text    string `toml:"text"`
	Regex   bool   `toml:"regex"`
	Enabled *bool  `toml:"enabled"`
}

type Graph struct {
	File           string  `toml:"file"`
	HighlightLevel int     `toml:"highlight_level"`
	Palette        Palette `toml:"palette"`
}

// Palette colors are hex strings; empty entries keep the built-in color.
type Palette struct {
	Active      string `toml:"active"`
	Source      string `toml:"source"`
	Sink        string `toml:"sink"`
	SelfLoop    string `toml:"self_loop"`
	Sibling     string `toml:"sibling"`
	NodeDefault string `toml:"node_default"`
	EdgeDefault string `toml:"edge_default"`
}

type Watch struct {
	Paths    []string      `toml:"paths"`
	Include  []string      `toml:"include"`
	Exclude  []string      `toml:"exclude"`
	Debounce time.Duration `toml:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	Tracing      bool   `toml:"tracing"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

type UI struct {
	RefreshPerSecond float64 `toml:"refresh_per_second"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := newConfig()
	applyDefaults(cfg)
	return cfg
}

func (s FilterSpec) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// BuildConsole turns the configured filter lists into a live console.
func (c Console) BuildConsole() (*filter.Console, error) {
	includeMode, err := filter.ParseMode(c.IncludeMode)
	if err != nil {
		return nil, err
	}
	excludeMode, err := filter.ParseMode(c.ExcludeMode)
	if err != nil {
		return nil, err
	}

	console := filter.NewConsole(includeMode, excludeMode)
	for _, spec := range c.Include {
		console.Include.Add(filter.NewWith(spec.Text, spec.Regex, spec.IsEnabled()))
	}
	for _, spec := range c.Exclude {
		console.Exclude.Add(filter.NewWith(spec.Text, spec.Regex, spec.IsEnabled()))
	}
	return console, nil
}

// BuildPalette overlays the configured colors on the default palette.
func (p Palette) BuildPalette() (highlight.Palette, error) {
	out := highlight.DefaultPalette()
	slots := []struct {
		raw    string
		target *highlight.Color
	}{
		{p.Active, &out.Active},
		{p.Source, &out.Source},
		{p.Sink, &out.Sink},
		{p.SelfLoop, &out.SelfLoop},
		{p.Sibling, &out.Sibling},
		{p.NodeDefault, &out.NodeDefault},
		{p.EdgeDefault, &out.EdgeDefault},
	}
	for _, slot := range slots {
		if slot.raw == "" {
			continue
		}
		c, err := highlight.ParseColor(slot.raw)
		if err != nil {
			return highlight.Palette{}, err
		}
		*slot.target = c
	}
	return out, nil
}
