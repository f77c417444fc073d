package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	BaseDir    string
	StateDir   string
	DBPath     string
	GraphFile  string
	WatchPaths []string
}

// ResolvePaths anchors every relative path in cfg at base, which is normally
// the directory holding the config file.
func ResolvePaths(cfg *Config, base string) (ResolvedPaths, error) {
	if strings.TrimSpace(base) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return ResolvedPaths{}, err
	}

	stateDir := ResolveRelative(base, cfg.Paths.StateDir)

	dbPath := strings.TrimSpace(cfg.DB.Path)
	if filepath.IsAbs(dbPath) {
		dbPath = filepath.Clean(dbPath)
	} else {
		dbPath = filepath.Join(stateDir, dbPath)
	}

	resolved := ResolvedPaths{
		BaseDir:  filepath.Clean(base),
		StateDir: stateDir,
		DBPath:   filepath.Clean(dbPath),
	}
	if strings.TrimSpace(cfg.Graph.File) != "" {
		resolved.GraphFile = ResolveRelative(base, cfg.Graph.File)
	}
	for _, p := range cfg.Watch.Paths {
		resolved.WatchPaths = append(resolved.WatchPaths, ResolveRelative(base, p))
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// EnsureStateDir creates the state directory when it is missing.
func (p ResolvedPaths) EnsureStateDir() error {
	return os.MkdirAll(p.StateDir, 0o755)
}
