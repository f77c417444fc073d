package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"rosview/internal/core/config"
	coreerrors "rosview/internal/core/errors"
	"rosview/internal/core/watcher"
	"rosview/internal/data/graphfile"
	"rosview/internal/data/records"
	"rosview/internal/engine/filter"
	"rosview/internal/engine/graph"
	"rosview/internal/output"
	"rosview/internal/shared/observability"
	"rosview/internal/shared/util"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("rosview v%s\n", versionString)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	base := cwd
	if cfgPath != "" {
		base = filepath.Dir(cfgPath)
	}
	paths, err := config.ResolvePaths(cfg, base)
	if err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return 1
	}
	configLevel := cfg.Graph.HighlightLevel
	if err := applyModeOptions(opts, cfg, &paths, cwd); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingOptions{
		Enabled:      cfg.Observability.Tracing,
		ServiceName:  cfg.Observability.ServiceName,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	console, err := cfg.Console.BuildConsole()
	if err != nil {
		slog.Error("invalid console filters", "error", err)
		return 1
	}

	g, err := loadGraph(cfg, paths.GraphFile, opts.level)
	if err != nil {
		slog.Error("failed to load graph", "error", err, "path", paths.GraphFile)
		return 1
	}

	if opts.exportGraph != "" {
		if err := exportGraph(g, opts.exportGraph); err != nil {
			slog.Error("failed to export graph", "error", err)
			return 1
		}
		fmt.Printf("Graph written to %s (%d nodes, %d edges)\n", opts.exportGraph, g.Stats().Nodes, g.Stats().Edges)
		return 0
	}

	store, err := openStoreIfEnabled(cfg, paths)
	if err != nil {
		slog.Error("record store setup failed", "error", err)
		return 1
	}
	if store != nil {
		defer store.Close()
	}

	if opts.records {
		if store == nil {
			fmt.Fprintln(os.Stderr, "--records requires db.enabled=true")
			return 1
		}
		if err := printRecordsCommand(ctx, os.Stdout, store, console, opts); err != nil {
			slog.Error("failed to print records", "error", err)
			return 1
		}
		return 0
	}

	if addr := strings.TrimSpace(cfg.Observability.MetricsAddr); addr != "" {
		server := NewObservabilityServer(addr, healthCheck(store, g))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	var sink watcher.Appender
	if store != nil {
		sink = store
	}

	if opts.once {
		tailer := watcher.NewTailer(sink, nil)
		n, err := backfill(ctx, cfg, paths, tailer)
		if err != nil {
			slog.Error("ingest failed", "error", err)
			return 1
		}
		fmt.Printf("Ingested %d records from %s\n", n, strings.Join(paths.WatchPaths, ", "))
		return 0
	}

	reloads := make(chan *config.Config, 1)
	if cfgPath != "" {
		cfgWatcher := config.NewWatcher(cfgPath, func(next *config.Config) {
			select {
			case reloads <- next:
			default:
				slog.Warn("dropping config reload, previous one still pending")
			}
		})
		if err := cfgWatcher.Start(ctx); err != nil {
			slog.Warn("config hot reload unavailable", "error", err)
		} else {
			defer cfgWatcher.Stop()
		}
	}

	if opts.ui {
		batcher := newRecordBatcher()
		tailer := watcher.NewTailer(sink, batcher.add)
		initial, err := loadInitialRecords(ctx, store, opts)
		if err != nil {
			slog.Error("failed to load stored records", "error", err)
			return 1
		}
		w, err := startLogWatcher(ctx, cfg, paths, tailer)
		if err != nil {
			slog.Error("failed to start log watcher", "error", err)
			return 1
		}
		defer w.Close()

		if err := runUI(ctx, uiSession{
			console:  console,
			graph:    g,
			initial:  initial,
			batcher:  batcher,
			refresh:  cfg.UI.RefreshPerSecond,
			reloadCh: reloads,

			configLevel: configLevel,
			logWatcher:  w,
		}); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	printer := newRecordPrinter(os.Stdout, console)
	tailer := watcher.NewTailer(sink, printer.print)
	w, err := startLogWatcher(ctx, cfg, paths, tailer)
	if err != nil {
		slog.Error("failed to start log watcher", "error", err)
		return 1
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return 0
		case next := <-reloads:
			if err := printer.reload(next); err != nil {
				slog.Error("config reload rejected", "error", err)
				continue
			}
			w.SetDebounce(next.Watch.Debounce)
		}
	}
}

func loadConfig(path, cwd string) (*config.Config, string, error) {
	if path != defaultConfigPath {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, abs, nil
	}

	candidate := filepath.Join(cwd, config.DefaultFileName)
	if _, err := os.Stat(candidate); err != nil {
		cfg, err := config.LoadOrDefault("")
		return cfg, "", err
	}
	cfg, err := config.Load(candidate)
	if err != nil {
		return nil, "", err
	}
	return cfg, candidate, nil
}

func applyModeOptions(opts cliOptions, cfg *config.Config, paths *config.ResolvedPaths, cwd string) error {
	if opts.graphPath != "" {
		paths.GraphFile = config.ResolveRelative(cwd, opts.graphPath)
	}
	if opts.level > 3 {
		return fmt.Errorf("--level must be between 0 and 3, got %d", opts.level)
	}
	if opts.level >= 0 {
		cfg.Graph.HighlightLevel = opts.level
	}
	if opts.limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", opts.limit)
	}
	if opts.ui && (opts.records || opts.once || opts.exportGraph != "") {
		return fmt.Errorf("--ui cannot be combined with --records, --once or --export-graph")
	}
	return nil
}

func loadGraph(cfg *config.Config, path string, levelOverride int) (*graph.Graph, error) {
	palette, err := cfg.Graph.Palette.BuildPalette()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return graph.New(cfg.Graph.HighlightLevel, palette), nil
	}
	g, err := graphfile.Load(path, graphfile.Options{Level: cfg.Graph.HighlightLevel, Palette: palette})
	if err != nil {
		return nil, err
	}
	if levelOverride >= 0 {
		g.SetLevel(levelOverride)
	}
	return g, nil
}

func exportGraph(g *graph.Graph, path string) error {
	format := output.FormatForPath(path)
	if format != output.FormatYAML {
		text, err := output.Generate(g, format)
		if err != nil {
			return err
		}
		return writeBytes(path, []byte(text))
	}

	var buf bytes.Buffer
	if err := graphfile.Encode(&buf, g); err != nil {
		return err
	}
	return writeBytes(path, buf.Bytes())
}

func writeBytes(path string, data []byte) error {
	return util.WriteFileWithDirs(path, data, 0o644)
}

func openStoreIfEnabled(cfg *config.Config, paths config.ResolvedPaths) (*records.Store, error) {
	if !cfg.DB.Enabled {
		return nil, nil
	}
	if err := paths.EnsureStateDir(); err != nil {
		return nil, err
	}
	store, err := records.OpenWithTimeout(paths.DBPath, cfg.DB.BusyTimeout)
	if err != nil {
		if records.IsCorruptError(err) {
			return nil, fmt.Errorf("record store %s is corrupt; move it aside to start fresh: %w", paths.DBPath, err)
		}
		return nil, err
	}
	return store, nil
}

func parseStamp(flagName, value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--%s must be RFC3339 or YYYY-MM-DD, got %q", flagName, value)
}

func recordWindow(opts cliOptions) (time.Time, time.Time, error) {
	since, err := parseStamp("since", opts.since)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	until, err := parseStamp("until", opts.until)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return time.Time{}, time.Time{}, coreerrors.New(coreerrors.CodeValidationError, "--until is before --since")
	}
	return since, until, nil
}

func printRecordsCommand(ctx context.Context, out io.Writer, store *records.Store, console *filter.Console, opts cliOptions) error {
	since, until, err := recordWindow(opts)
	if err != nil {
		return err
	}
	for _, perr := range console.Validate() {
		slog.Warn("filter will match nothing", "error", perr)
	}
	// The limit applies after filtering, so fetch the whole window.
	recs, err := store.Range(ctx, since, until, 0)
	if err != nil {
		return err
	}
	visible := console.Apply(recs)
	if opts.limit > 0 && len(visible) > opts.limit {
		visible = visible[len(visible)-opts.limit:]
	}
	for _, rec := range visible {
		fmt.Fprintln(out, formatRecord(rec))
	}
	return nil
}

func loadInitialRecords(ctx context.Context, store *records.Store, opts cliOptions) ([]filter.Record, error) {
	if store == nil {
		return nil, nil
	}
	since, until, err := recordWindow(opts)
	if err != nil {
		return nil, err
	}
	limit := opts.limit
	if limit == 0 {
		limit = defaultMaxRecords
	}
	return store.Latest(ctx, since, until, limit)
}

func formatRecord(rec filter.Record) string {
	return fmt.Sprintf("%s [%s] %s %s: %s",
		rec.Stamp.Format(time.RFC3339Nano), rec.Severity, rec.Node, rec.Location, rec.Message)
}

// recordPrinter writes visible records as they arrive in headless mode.
type recordPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	console *filter.Console
}

func newRecordPrinter(out io.Writer, console *filter.Console) *recordPrinter {
	return &recordPrinter{out: out, console: console}
}

func (p *recordPrinter) print(recs []filter.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, rec := range p.console.Apply(recs) {
		fmt.Fprintln(p.out, formatRecord(rec))
	}
}

func (p *recordPrinter) reload(cfg *config.Config) error {
	console, err := cfg.Console.BuildConsole()
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.console = console
	p.mu.Unlock()
	slog.Info("console filters reloaded", "include", console.Include.Len(), "exclude", console.Exclude.Len())
	return nil
}

// backfill ingests what the watched files already contain.
func backfill(ctx context.Context, cfg *config.Config, paths config.ResolvedPaths, tailer *watcher.Tailer) (int, error) {
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Watch.Include, cfg.Watch.Exclude, func([]string) {})
	if err != nil {
		return 0, err
	}
	defer w.Close()
	recs, err := tailer.Ingest(ctx, w.Files(paths.WatchPaths))
	return len(recs), err
}

func startLogWatcher(ctx context.Context, cfg *config.Config, paths config.ResolvedPaths, tailer *watcher.Tailer) (*watcher.Watcher, error) {
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Watch.Include, cfg.Watch.Exclude, func(changed []string) {
		if _, err := tailer.Ingest(ctx, changed); err != nil {
			slog.Error("ingest failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	var roots []string
	for _, root := range paths.WatchPaths {
		if _, err := os.Stat(root); err != nil {
			slog.Warn("watch path unavailable, skipping", "path", root, "error", err)
			continue
		}
		roots = append(roots, root)
	}

	if _, err := tailer.Ingest(ctx, w.Files(roots)); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Watch(roots); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func healthCheck(store *records.Store, g *graph.Graph) HealthCheck {
	stats := g.Stats()
	return func(ctx context.Context) HealthStatus {
		status := HealthStatus{Status: "up", GraphNodes: stats.Nodes, GraphEdges: stats.Edges}
		if store == nil {
			return status
		}
		n, err := store.Count(ctx)
		if err != nil {
			status.Status = "degraded"
			status.Error = err.Error()
			return status
		}
		status.Records = n
		return status
	}
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "rosview", "rosview.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "rosview", "rosview.log")
	}

	return "rosview.log"
}
