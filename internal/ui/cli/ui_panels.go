package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"rosview/internal/engine/filter"
	"rosview/internal/engine/highlight"
)

const timelineWidth = 50

func renderHelp(m model) string {
	var keys string
	switch {
	case m.editing:
		keys = "Keys: enter save | esc cancel"
	case m.mode == panelGraph:
		keys = "Keys: tab panel | j/k move hover | enter hover | esc clear | +/- highlight level | q quit"
	case m.mode == panelTimeline:
		keys = "Keys: tab panel | p play/pause | f faster | b reverse | home/end | h/l seek | z/Z zoom | 0 reset zoom | q quit"
	default:
		keys = "Keys: tab panel | a include | x exclude | e edit | space toggle | r regex | m mode | d delete | q quit"
	}
	return statusStyle.Render(keys)
}

func renderConsolePanel(m model) string {
	var b strings.Builder
	b.WriteString(m.filterList.View())
	if m.editing {
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")
	b.WriteString(renderRecords(m.visible, m.recordRows()))
	return b.String()
}

func (m model) recordRows() int {
	rows := m.height / 2
	if rows < 5 {
		rows = 5
	}
	return rows
}

// renderRecords shows the newest rows records, oldest first.
func renderRecords(recs []filter.Record, rows int) string {
	if len(recs) == 0 {
		return statusStyle.Render("No records match the current filters.")
	}
	if len(recs) > rows {
		recs = recs[len(recs)-rows:]
	}
	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		line := fmt.Sprintf("%s %-5s %s %s: %s",
			rec.Stamp.Format("15:04:05.000"), rec.Severity, rec.Node, rec.Location, rec.Message)
		lines = append(lines, severityStyle(rec.Severity).Render(line))
	}
	return strings.Join(lines, "\n")
}

func severityStyle(s filter.Severity) lipgloss.Style {
	switch s {
	case filter.SeverityError, filter.SeverityFatal:
		return errorStyle
	case filter.SeverityWarn:
		return warnStyle
	case filter.SeverityDebug:
		return statusStyle
	}
	return lipgloss.NewStyle()
}

func renderGraphPanel(m model) string {
	stats := m.graph.Stats()
	summary := fmt.Sprintf("%d nodes | %d edges | %d self loops | %d with siblings | level %d",
		stats.Nodes, stats.Edges, stats.SelfLoops, stats.Siblings, stats.Level)
	if m.cycles > 0 {
		summary += " | " + errorStyle.Render(fmt.Sprintf("%d cycles", m.cycles))
	} else {
		summary += " | " + successStyle.Render("acyclic")
	}

	nodes := m.graph.Nodes()
	swatches := make([]string, 0, len(nodes))
	for _, n := range nodes {
		label := n.Label
		if label == "" {
			label = n.Name()
		}
		swatches = append(swatches, colored(n.Color()).Render("● "+label))
	}

	var edges []string
	for _, e := range m.graph.Edges() {
		line := fmt.Sprintf("%s %s -> %s", e.ID(), e.From().Name(), e.To().Name())
		if arrow, ok := e.Arrow(); ok {
			line += fmt.Sprintf(" arrow=%v", arrow)
		}
		edges = append(edges, colored(e.Color()).Render(line))
	}

	if hovered := m.graph.Hovered(); hovered != "" {
		if e, ok := m.graph.Edge(hovered); ok && !e.IsSelfLoop() {
			if path, ok := m.graph.FindPath(e.To().Name(), e.From().Name()); ok {
				summary += "\n" + warnStyle.Render("feedback: "+strings.Join(path, " -> "))
			}
		}
	}

	return strings.Join([]string{
		m.edgeList.View(),
		summary,
		strings.Join(swatches, "  "),
		strings.Join(edges, "\n"),
	}, "\n\n")
}

func colored(c highlight.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(highlight.RGB(c.R, c.G, c.B).Hex()))
}

func renderTimelinePanel(m model) string {
	if !m.hasRange {
		return statusStyle.Render("No records received yet.")
	}
	start, end := m.nav.Bounds()
	from, to := m.nav.Window()
	playhead := m.nav.Playhead()

	state := "paused"
	if m.nav.Playing() {
		state = "playing"
	}

	inWindow := 0
	for _, rec := range m.records {
		if !rec.Stamp.Before(from) && !rec.Stamp.After(to) {
			inWindow++
		}
	}

	return strings.Join([]string{
		renderTimelineBar(from, to, playhead, timelineWidth),
		fmt.Sprintf("window   %s .. %s (%s)", formatStamp(from), formatStamp(to), to.Sub(from)),
		fmt.Sprintf("playhead %s", formatStamp(playhead)),
		fmt.Sprintf("range    %s .. %s", formatStamp(start), formatStamp(end)),
		fmt.Sprintf("%s at %gx | %d records in window", state, m.nav.Rate(), inWindow),
	}, "\n")
}

// renderTimelineBar draws the window as width cells with the playhead as |.
func renderTimelineBar(from, to, playhead time.Time, width int) string {
	cells := []rune(strings.Repeat("─", width))
	pos := 0
	if span := to.Sub(from); span > 0 {
		pos = int(float64(playhead.Sub(from)) / float64(span) * float64(width-1))
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= width {
		pos = width - 1
	}
	cells[pos] = '|'
	return "[" + string(cells) + "]"
}

func formatStamp(t time.Time) string {
	return t.Format("15:04:05.000")
}
