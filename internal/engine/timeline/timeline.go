// Package timeline implements playback navigation over a bounded time range.
package timeline

import (
	"time"
)

const (
	MaxRate    = 16.0
	MinZoom    = time.Millisecond
	zoomFactor = 2
)

// Navigator tracks a playhead, a playback rate and a visible window.
// It is not safe for concurrent use.
type Navigator struct {
	start, end time.Time
	playhead   time.Time
	rate       float64
	playing    bool
	span       time.Duration
}

func New(start, end time.Time) *Navigator {
	n := &Navigator{}
	n.SetRange(start, end)
	return n
}

// SetRange replaces the bounds, swapping them if reversed, and resets zoom.
// The playhead is clamped into the new range.
func (n *Navigator) SetRange(start, end time.Time) {
	if end.Before(start) {
		start, end = end, start
	}
	first := n.start.IsZero() && n.end.IsZero()
	n.start, n.end = start, end
	n.span = end.Sub(start)
	if first || n.playhead.IsZero() {
		n.playhead = start
	}
	n.playhead = n.clamp(n.playhead)
	if n.rate == 0 {
		n.rate = 1
	}
}

func (n *Navigator) Bounds() (time.Time, time.Time) { return n.start, n.end }
func (n *Navigator) Playhead() time.Time             { return n.playhead }
func (n *Navigator) Rate() float64                   { return n.rate }
func (n *Navigator) Playing() bool                   { return n.playing }

func (n *Navigator) Play()   { n.playing = true }
func (n *Navigator) Stop()   { n.playing = false }
func (n *Navigator) Toggle() { n.playing = !n.playing }

// FastForward switches to forward playback or doubles the forward rate.
func (n *Navigator) FastForward() {
	if n.rate <= 0 {
		n.rate = 1
	} else if n.rate*2 <= MaxRate {
		n.rate *= 2
	}
	n.playing = true
}

// Rewind switches to reverse playback or doubles the reverse rate.
func (n *Navigator) Rewind() {
	if n.rate >= 0 {
		n.rate = -1
	} else if n.rate*2 >= -MaxRate {
		n.rate *= 2
	}
	n.playing = true
}

func (n *Navigator) Start() { n.playhead = n.start }
func (n *Navigator) End()   { n.playhead = n.end }

func (n *Navigator) Seek(t time.Time) { n.playhead = n.clamp(t) }

// Advance moves the playhead by rate*wall while playing. Reaching either
// bound stops playback. It reports whether the playhead moved.
func (n *Navigator) Advance(wall time.Duration) bool {
	if !n.playing || wall <= 0 {
		return false
	}
	delta := time.Duration(float64(wall) * n.rate)
	next := n.playhead.Add(delta)
	clamped := n.clamp(next)
	moved := !clamped.Equal(n.playhead)
	n.playhead = clamped
	if !clamped.Equal(next) {
		n.playing = false
	}
	return moved
}

func (n *Navigator) ZoomIn() {
	next := n.span / zoomFactor
	if next < MinZoom {
		next = MinZoom
	}
	n.span = next
}

func (n *Navigator) ZoomOut() {
	full := n.end.Sub(n.start)
	next := n.span * zoomFactor
	if next > full {
		next = full
	}
	n.span = next
}

func (n *Navigator) ResetZoom() { n.span = n.end.Sub(n.start) }

// Window returns the visible range centred on the playhead and kept inside
// the bounds.
func (n *Navigator) Window() (time.Time, time.Time) {
	full := n.end.Sub(n.start)
	if n.span >= full {
		return n.start, n.end
	}
	from := n.playhead.Add(-n.span / 2)
	if from.Before(n.start) {
		from = n.start
	}
	to := from.Add(n.span)
	if to.After(n.end) {
		to = n.end
		from = to.Add(-n.span)
	}
	return from, to
}

func (n *Navigator) clamp(t time.Time) time.Time {
	if t.Before(n.start) {
		return n.start
	}
	if t.After(n.end) {
		return n.end
	}
	return t
}
