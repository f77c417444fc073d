package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rosview/internal/core/config"
	"rosview/internal/engine/filter"
	"rosview/internal/engine/graph"
	"rosview/internal/engine/highlight"
	"rosview/internal/engine/timeline"
)

const (
	defaultMaxRecords = 5000
	defaultSeenIDs    = 4 * defaultMaxRecords
	tickInterval      = 100 * time.Millisecond
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelConsole panelMode = iota
	panelGraph
	panelTimeline
)

func (p panelMode) String() string {
	switch p {
	case panelGraph:
		return "graph"
	case panelTimeline:
		return "timeline"
	}
	return "console"
}

// filterRef locates a filter inside the console's two lists.
type filterRef struct {
	exclude bool
	index   int
}

// changeFlag is shared between the model copies bubbletea passes around and
// the console's change subscription.
type changeFlag struct {
	dirty       bool
	unsubscribe func()
}

type model struct {
	console *filter.Console
	changes *changeFlag
	graph   *graph.Graph
	nav     *timeline.Navigator

	records    []filter.Record
	seen       *idSet
	visible    []filter.Record
	maxRecords int
	hasRange   bool

	filterList list.Model
	filterRefs []filterRef
	edgeList   list.Model
	edgeIDs    []string
	input      textinput.Model
	editing    bool
	editTarget filterRef
	editNew    bool

	mode       panelMode
	width      int
	height     int
	lastUpdate time.Time
	lastTick   time.Time
	status     string
	cycles     int

	// configLevel is the [graph] highlight_level of the running config, or
	// -1 when unknown. Reloads only touch the graph when it changes, so a
	// --level override or a graph file level survives unrelated edits.
	configLevel int
}

// recordsMsg delivers freshly ingested records.
type recordsMsg struct {
	records []filter.Record
}

// configMsg delivers a reloaded configuration.
type configMsg struct {
	cfg *config.Config
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var next tea.Model
		next, cmd = handleKeyActions(msg, m)
		m = next.(model)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.width = msg.Width - h
		m.height = msg.Height - v - 8
		if m.height < 5 {
			m.height = 5
		}
		m.filterList.SetSize(m.width, m.height/2)
		m.edgeList.SetSize(m.width, m.height)
	case recordsMsg:
		m = m.ingest(msg.records)
	case configMsg:
		m = m.applyConfig(msg.cfg)
	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() && m.nav.Advance(now.Sub(m.lastTick)) {
			m.changes.dirty = true
		}
		m.lastTick = now
		cmd = tick()
	}

	if m.changes.dirty {
		m.changes.dirty = false
		m = m.refreshConsole()
	}
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d records | %d shown | panel: %s",
		m.lastUpdate.Format("15:04:05"), len(m.records), len(m.visible), m.mode))

	header := fmt.Sprintf("%s\n%s\n", titleStyle("ROS Console & Graph Viewer"), status)
	help := renderHelp(m)

	var body string
	switch m.mode {
	case panelGraph:
		body = renderGraphPanel(m)
	case panelTimeline:
		body = renderTimelinePanel(m)
	default:
		body = renderConsolePanel(m)
	}
	if m.status != "" {
		body += "\n\n" + statusStyle.Render(m.status)
	}

	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func initialModel(console *filter.Console, g *graph.Graph, records []filter.Record) model {
	filterList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	filterList.Title = "Filters"
	filterList.SetShowStatusBar(false)
	filterList.SetFilteringEnabled(false)

	edgeList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	edgeList.Title = "Edges"
	edgeList.SetShowStatusBar(false)
	edgeList.SetFilteringEnabled(false)

	input := textinput.New()
	input.Placeholder = "filter text"
	input.CharLimit = 256

	if console == nil {
		console = filter.NewConsole(filter.ModeAny, filter.ModeAny)
	}
	if g == nil {
		g = graph.New(highlight.LevelSiblings, highlight.DefaultPalette())
	}

	m := model{
		graph:      g,
		nav:        timeline.New(time.Time{}, time.Time{}),
		seen:       newIDSet(defaultSeenIDs),
		maxRecords: defaultMaxRecords,
		filterList: filterList,
		edgeList:   edgeList,
		input:      input,
		mode:       panelConsole,
		lastUpdate: time.Now(),
		changes:    &changeFlag{},

		configLevel: -1,
	}
	m = m.attachConsole(console)
	m = m.refreshEdges()
	m = m.ingest(records)
	return m.refreshConsole()
}

// attachConsole swaps in a console and moves the change subscription to it.
func (m model) attachConsole(console *filter.Console) model {
	if m.changes.unsubscribe != nil {
		m.changes.unsubscribe()
	}
	flag := m.changes
	m.console = console
	flag.unsubscribe = console.Subscribe(func() { flag.dirty = true })
	flag.dirty = true
	return m.refreshFilters()
}

// idSet remembers the most recently added ids, up to limit. It outlives the
// record window so a record trimmed from the console is not taken back in
// when a backfill delivers it again.
type idSet struct {
	ids   map[string]struct{}
	order []string
	limit int
}

func newIDSet(limit int) *idSet {
	return &idSet{ids: make(map[string]struct{}), limit: limit}
}

// add reports whether id was new.
func (s *idSet) add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	if s.limit > 0 && len(s.order) > s.limit {
		delete(s.ids, s.order[0])
		s.order = s.order[1:]
	}
	return true
}

// ingest merges records by stamp, dropping ids seen before, and keeps only
// the newest maxRecords.
func (m model) ingest(recs []filter.Record) model {
	added := 0
	for _, rec := range recs {
		if rec.ID != "" {
			if !m.seen.add(rec.ID) {
				continue
			}
		}
		m.records = append(m.records, rec)
		added++
	}
	if added == 0 {
		return m
	}
	start, end := m.nav.Bounds()
	following := !m.hasRange || m.nav.Playhead().Equal(end)

	sort.SliceStable(m.records, func(i, j int) bool {
		return m.records[i].Stamp.Before(m.records[j].Stamp)
	})
	if m.maxRecords > 0 && len(m.records) > m.maxRecords {
		drop := len(m.records) - m.maxRecords
		m.records = append([]filter.Record(nil), m.records[drop:]...)
	}

	first, last := m.records[0].Stamp, m.records[len(m.records)-1].Stamp
	if !m.hasRange || !first.Equal(start) || !last.Equal(end) {
		m.nav.SetRange(first, last)
		m.hasRange = true
	}
	if following {
		m.nav.End()
	}
	m.lastUpdate = time.Now()
	m.changes.dirty = true
	return m
}

func (m model) applyConfig(cfg *config.Config) model {
	if cfg == nil {
		return m
	}
	console, err := cfg.Console.BuildConsole()
	if err != nil {
		m.status = fmt.Sprintf("Config reload rejected: %v", err)
		return m
	}
	m = m.attachConsole(console)
	if level := cfg.Graph.HighlightLevel; level != m.configLevel {
		if m.configLevel >= 0 {
			m = m.setLevel(level)
		}
		m.configLevel = level
	}
	m.status = "Configuration reloaded."
	return m
}

// refreshConsole recomputes the records shown in the console: those that
// pass the filters and are not later than the playhead.
func (m model) refreshConsole() model {
	playhead := m.nav.Playhead()
	visible := make([]filter.Record, 0, len(m.records))
	for _, rec := range m.records {
		if m.hasRange && rec.Stamp.After(playhead) {
			break
		}
		if m.console.Visible(rec) {
			visible = append(visible, rec)
		}
	}
	m.visible = visible
	return m
}

func (m model) refreshFilters() model {
	var items []list.Item
	var refs []filterRef
	add := func(exclude bool, c *filter.Collection) {
		kind := "include"
		if exclude {
			kind = "exclude"
		}
		for i, f := range c.Filters() {
			items = append(items, item{
				title: fmt.Sprintf("[%s/%s] %q", kind, c.Mode(), f.Text()),
				desc:  describeFilter(f),
			})
			refs = append(refs, filterRef{exclude: exclude, index: i})
		}
	}
	add(false, m.console.Include)
	add(true, m.console.Exclude)
	m.filterList.SetItems(items)
	m.filterRefs = refs
	return m
}

func describeFilter(f *filter.Filter) string {
	state := "disabled"
	if f.IsEnabled() {
		state = "enabled"
	}
	if !f.IsRegex() {
		return state + ", substring of message"
	}
	if err := f.Validate(); err != nil {
		return state + ", regex on location (invalid pattern)"
	}
	return state + ", regex on location"
}

func (m model) refreshEdges() model {
	edges := m.graph.Edges()
	items := make([]list.Item, 0, len(edges))
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		title := fmt.Sprintf("%s -> %s", e.From().Name(), e.To().Name())
		if e.Label() != "" {
			title += " [" + e.Label() + "]"
		}
		items = append(items, item{
			title: title,
			desc:  fmt.Sprintf("%s, %s, %d siblings", e.ID(), e.State(), len(e.Siblings())),
		})
		ids = append(ids, e.ID())
	}
	m.edgeList.SetItems(items)
	m.edgeIDs = ids
	m.cycles = len(m.graph.DetectCycles())
	return m
}
