package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rosview/internal/engine/filter"
	"rosview/internal/engine/highlight"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editing {
		return handleEditKeys(msg, m)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.mode = (m.mode + 1) % 3
		m.status = ""
		return m, nil
	case "shift+tab":
		m.mode = (m.mode + 2) % 3
		m.status = ""
		return m, nil
	}

	switch m.mode {
	case panelGraph:
		return handleGraphKeys(msg, m)
	case panelTimeline:
		return handleTimelineKeys(msg, m), nil
	}
	return handleConsoleKeys(msg, m)
}

func handleConsoleKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		return startEdit(m, filterRef{exclude: false}, true), nil
	case "x":
		return startEdit(m, filterRef{exclude: true}, true), nil
	case "e":
		ref, f, ok := selectedFilter(m)
		if !ok {
			return m, nil
		}
		m = startEdit(m, ref, false)
		m.input.SetValue(f.Text())
		m.input.CursorEnd()
		return m, nil
	case " ":
		if _, f, ok := selectedFilter(m); ok {
			f.SetEnabled(!f.IsEnabled())
			// Disabling a filter is silent, so refresh unconditionally.
			m.changes.dirty = true
			m = m.refreshFilters()
		}
		return m, nil
	case "r":
		if _, f, ok := selectedFilter(m); ok {
			f.SetRegex(!f.IsRegex())
			m = reportPattern(m.refreshFilters(), f)
		}
		return m, nil
	case "m":
		c := m.console.Include
		if ref, _, ok := selectedFilter(m); ok && ref.exclude {
			c = m.console.Exclude
		}
		if c.Mode() == filter.ModeAny {
			c.SetMode(filter.ModeAll)
		} else {
			c.SetMode(filter.ModeAny)
		}
		return m.refreshFilters(), nil
	case "d":
		if ref, _, ok := selectedFilter(m); ok {
			if err := collectionFor(m, ref).Remove(ref.index); err != nil {
				m.status = err.Error()
			}
			m = m.refreshFilters()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterList, cmd = m.filterList.Update(msg)
	return m, cmd
}

func handleEditKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		text := m.input.Value()
		m.editing = false
		m.input.Blur()
		m.input.SetValue("")

		c := collectionFor(m, m.editTarget)
		var f *filter.Filter
		if m.editNew {
			f = filter.NewWith(text, false, true)
			c.Add(f)
		} else {
			f = c.At(m.editTarget.index)
			if f == nil {
				return m, nil
			}
			f.SetText(text)
		}
		return reportPattern(m.refreshFilters(), f), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func startEdit(m model, ref filterRef, isNew bool) model {
	m.editing = true
	m.editNew = isNew
	m.editTarget = ref
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func reportPattern(m model, f *filter.Filter) model {
	if err := f.Validate(); err != nil {
		m.status = fmt.Sprintf("Pattern %q does not compile; it matches nothing until fixed.", f.Text())
	} else {
		m.status = ""
	}
	return m
}

func selectedFilter(m model) (filterRef, *filter.Filter, bool) {
	idx := m.filterList.Index()
	if idx < 0 || idx >= len(m.filterRefs) {
		return filterRef{}, nil, false
	}
	ref := m.filterRefs[idx]
	f := collectionFor(m, ref).At(ref.index)
	return ref, f, f != nil
}

func collectionFor(m model, ref filterRef) *filter.Collection {
	if ref.exclude {
		return m.console.Exclude
	}
	return m.console.Include
}

func handleGraphKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if id, ok := selectedEdge(m); ok {
			m = hoverEdge(m, "", id)
		}
		return m.refreshEdges(), nil
	case "esc":
		m.graph.ClearHover()
		return m.refreshEdges(), nil
	case "+", "=":
		return m.setLevel(m.graph.Level() + 1), nil
	case "-":
		return m.setLevel(m.graph.Level() - 1), nil
	}

	before, hadBefore := selectedEdge(m)
	var cmd tea.Cmd
	m.edgeList, cmd = m.edgeList.Update(msg)
	after, ok := selectedEdge(m)
	if ok && (!hadBefore || after != before) {
		m = hoverEdge(m, before, after)
		m = m.refreshEdges()
	}
	return m, cmd
}

// hoverEdge leaves the edge the cursor came from and enters the new one.
func hoverEdge(m model, from, to string) model {
	if from != "" && from != to {
		if _, err := m.graph.Unhover(from, highlight.RegionPath); err != nil {
			m.status = err.Error()
		}
	}
	if _, err := m.graph.Hover(to, highlight.RegionPath); err != nil {
		m.status = err.Error()
	}
	return m
}

func selectedEdge(m model) (string, bool) {
	idx := m.edgeList.Index()
	if idx < 0 || idx >= len(m.edgeIDs) {
		return "", false
	}
	return m.edgeIDs[idx], true
}

// setLevel changes the highlight level and re-enters the hovered edge so
// the new level is visible right away.
func (m model) setLevel(level int) model {
	if level < highlight.LevelNone {
		level = highlight.LevelNone
	}
	if level > highlight.LevelSiblings {
		level = highlight.LevelSiblings
	}
	hovered := m.graph.Hovered()
	if hovered != "" {
		_, _ = m.graph.Unhover(hovered, highlight.RegionPath)
	}
	m.graph.SetLevel(level)
	if hovered != "" {
		_, _ = m.graph.Hover(hovered, highlight.RegionPath)
	}
	return m.refreshEdges()
}

func handleTimelineKeys(msg tea.KeyMsg, m model) model {
	switch msg.String() {
	case "p":
		m.nav.Toggle()
	case "f":
		m.nav.FastForward()
	case "b":
		m.nav.Rewind()
	case "home":
		m.nav.Start()
	case "end":
		m.nav.End()
	case "z":
		m.nav.ZoomIn()
	case "Z":
		m.nav.ZoomOut()
	case "0":
		m.nav.ResetZoom()
	case "left", "h":
		m.nav.Seek(m.nav.Playhead().Add(-seekStep(m)))
	case "right", "l":
		m.nav.Seek(m.nav.Playhead().Add(seekStep(m)))
	default:
		return m
	}
	m.changes.dirty = true
	return m
}

func seekStep(m model) time.Duration {
	from, to := m.nav.Window()
	step := to.Sub(from) / 20
	if step < time.Millisecond {
		step = time.Millisecond
	}
	return step
}
