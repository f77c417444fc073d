package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "[graph]\nhighlight_level = 1\n")

	got := make(chan *Config, 4)
	w := NewWatcher(path, func(cfg *Config) { got <- cfg })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[graph]\nhighlight_level = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-got:
		if cfg.Graph.HighlightLevel != 2 {
			t.Fatalf("expected reloaded level 2, got %d", cfg.Graph.HighlightLevel)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_InvalidFileKeepsQuiet(t *testing.T) {
	path := writeConfig(t, "")

	got := make(chan *Config, 4)
	w := NewWatcher(path, func(cfg *Config) { got <- cfg })
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[graph]\nhighlight_level = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-got:
		t.Fatalf("invalid config must not reach the callback, got %+v", cfg.Graph)
	case <-time.After(500 * time.Millisecond):
	}
}
