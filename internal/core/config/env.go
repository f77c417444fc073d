package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: ROSVIEW_[SECTION]_[KEY] (e.g., ROSVIEW_OBSERVABILITY_METRICS_ADDR).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Paths.StateDir, "ROSVIEW_PATHS_STATE_DIR")

	setEnvBool(&cfg.DB.Enabled, "ROSVIEW_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "ROSVIEW_DB_PATH")
	setEnvDuration(&cfg.DB.BusyTimeout, "ROSVIEW_DB_BUSY_TIMEOUT")

	setEnvString(&cfg.Graph.File, "ROSVIEW_GRAPH_FILE")
	setEnvInt(&cfg.Graph.HighlightLevel, "ROSVIEW_GRAPH_HIGHLIGHT_LEVEL")

	setEnvList(&cfg.Watch.Paths, "ROSVIEW_WATCH_PATHS")
	setEnvDuration(&cfg.Watch.Debounce, "ROSVIEW_WATCH_DEBOUNCE")

	setEnvString(&cfg.Observability.MetricsAddr, "ROSVIEW_OBSERVABILITY_METRICS_ADDR")
	setEnvBool(&cfg.Observability.Tracing, "ROSVIEW_OBSERVABILITY_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "ROSVIEW_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "ROSVIEW_OBSERVABILITY_SERVICE_NAME")

	setEnvFloat64(&cfg.UI.RefreshPerSecond, "ROSVIEW_UI_REFRESH_PER_SECOND")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma separated value, dropping blank entries.
func setEnvList(target *[]string, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	slog.Debug("applying env override", "key", key, "value", val)
	*target = out
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
