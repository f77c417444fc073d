package cli

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"rosview/internal/core/config"
	"rosview/internal/core/watcher"
	"rosview/internal/engine/filter"
	"rosview/internal/engine/graph"
	"rosview/internal/shared/util"
)

// recordBatcher collects records from the ingest goroutine and forwards
// them in batches no faster than the limiter allows.
type recordBatcher struct {
	mu      sync.Mutex
	pending []filter.Record
	notify  chan struct{}
}

func newRecordBatcher() *recordBatcher {
	return &recordBatcher{notify: make(chan struct{}, 1)}
}

func (b *recordBatcher) add(recs []filter.Record) {
	if len(recs) == 0 {
		return
	}
	b.mu.Lock()
	b.pending = append(b.pending, recs...)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *recordBatcher) take() []filter.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

func (b *recordBatcher) run(ctx context.Context, limiter *util.Limiter, send func([]filter.Record)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.notify:
		}
		if err := limiter.Wait(ctx, 1); err != nil {
			return
		}
		if recs := b.take(); len(recs) > 0 {
			send(recs)
		}
	}
}

type uiSession struct {
	console  *filter.Console
	graph    *graph.Graph
	initial  []filter.Record
	batcher  *recordBatcher
	refresh  float64
	reloadCh <-chan *config.Config

	// configLevel is the highlight level the config file asked for, before
	// any --level override.
	configLevel int

	// logWatcher picks up debounce changes from reloaded configs.
	logWatcher *watcher.Watcher
}

func runUI(ctx context.Context, s uiSession) error {
	m := initialModel(s.console, s.graph, s.initial)
	m.configLevel = s.configLevel
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := util.NewLimiter(s.refresh, 1)
	go s.batcher.run(ctx, limiter, func(recs []filter.Record) {
		p.Send(recordsMsg{records: recs})
	})

	if s.reloadCh != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case cfg, ok := <-s.reloadCh:
					if !ok {
						return
					}
					if s.logWatcher != nil {
						s.logWatcher.SetDebounce(cfg.Watch.Debounce)
					}
					p.Send(configMsg{cfg: cfg})
				}
			}
		}()
	}

	_, err := p.Run()
	return err
}
