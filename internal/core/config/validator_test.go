package config

import (
	"strings"
	"testing"

	coreerrors "rosview/internal/core/errors"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graph.HighlightLevel = 7
	cfg.Watch.Exclude = []string{"[unclosed"}
	cfg.Observability.MetricsAddr = "no-port"
	cfg.UI.RefreshPerSecond = 0

	err := Validate(cfg)
	if !coreerrors.IsCode(err, coreerrors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	for _, want := range []string{"graph.highlight_level", "[unclosed", "metrics_addr", "refresh_per_second"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestValidate_Sections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"version", func(c *Config) { c.Version = 3 }, "config version"},
		{"db path", func(c *Config) { c.DB.Path = " " }, "db.path"},
		{"db disabled", func(c *Config) { c.DB.Enabled = false; c.DB.Path = "" }, ""},
		{"include mode", func(c *Config) { c.Console.IncludeMode = "xor" }, "console.include_mode"},
		{"exclude regex", func(c *Config) {
			c.Console.Exclude = []FilterSpec{{Text: "a)(b", Regex: true}}
		}, "console.exclude[0]"},
		{"plain text is never checked", func(c *Config) {
			c.Console.Include = []FilterSpec{{Text: "a)(b"}}
		}, ""},
		{"palette", func(c *Config) { c.Graph.Palette.Sink = "#zzz" }, "graph.palette"},
		{"watch path", func(c *Config) { c.Watch.Paths = []string{""} }, "watch.paths"},
		{"tracing name", func(c *Config) {
			c.Observability.Tracing = true
			c.Observability.ServiceName = ""
		}, "service_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
