package timeline

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNavigator_RateControls(t *testing.T) {
	n := New(base, base.Add(time.Minute))
	if n.Rate() != 1 || n.Playing() {
		t.Fatalf("expected paused at rate 1, got rate=%v playing=%v", n.Rate(), n.Playing())
	}

	n.FastForward()
	if n.Rate() != 2 || !n.Playing() {
		t.Fatalf("expected rate 2 while playing, got %v", n.Rate())
	}
	for i := 0; i < 10; i++ {
		n.FastForward()
	}
	if n.Rate() != MaxRate {
		t.Fatalf("expected rate capped at %v, got %v", MaxRate, n.Rate())
	}

	n.Rewind()
	if n.Rate() != -1 {
		t.Fatalf("expected rewind to flip to -1, got %v", n.Rate())
	}
	n.Rewind()
	if n.Rate() != -2 {
		t.Fatalf("expected -2, got %v", n.Rate())
	}
	for i := 0; i < 10; i++ {
		n.Rewind()
	}
	if n.Rate() != -MaxRate {
		t.Fatalf("expected rate floored at %v, got %v", -MaxRate, n.Rate())
	}
	n.FastForward()
	if n.Rate() != 1 {
		t.Fatalf("expected fast forward from reverse to reset to 1, got %v", n.Rate())
	}
}

func TestNavigator_AdvanceStopsAtBounds(t *testing.T) {
	n := New(base, base.Add(10*time.Second))
	if n.Advance(time.Second) {
		t.Fatal("expected no movement while stopped")
	}

	n.Play()
	n.FastForward() // rate 2
	if !n.Advance(2 * time.Second) {
		t.Fatal("expected movement while playing")
	}
	if got := n.Playhead().Sub(base); got != 4*time.Second {
		t.Fatalf("expected playhead at +4s, got %v", got)
	}

	n.Advance(time.Minute)
	if !n.Playhead().Equal(base.Add(10*time.Second)) {
		t.Fatalf("expected playhead clamped to end, got %v", n.Playhead())
	}
	if n.Playing() {
		t.Fatal("expected playback to stop at the end")
	}

	n.Rewind()
	n.Advance(3 * time.Second)
	if got := n.Playhead().Sub(base); got != 7*time.Second {
		t.Fatalf("expected reverse playback to +7s, got %v", got)
	}
}

func TestNavigator_StartEndSeek(t *testing.T) {
	n := New(base.Add(time.Minute), base) // reversed bounds are swapped
	n.End()
	if !n.Playhead().Equal(base.Add(time.Minute)) {
		t.Fatal("expected End to jump to the upper bound")
	}
	n.Start()
	if !n.Playhead().Equal(base) {
		t.Fatal("expected Start to jump to the lower bound")
	}
	n.Seek(base.Add(-time.Hour))
	if !n.Playhead().Equal(base) {
		t.Fatal("expected seek to clamp")
	}
	n.Toggle()
	if !n.Playing() {
		t.Fatal("expected toggle to start playback")
	}
	n.Stop()
	if n.Playing() {
		t.Fatal("expected stop")
	}
}

func TestNavigator_Zoom(t *testing.T) {
	n := New(base, base.Add(8*time.Second))
	from, to := n.Window()
	if !from.Equal(base) || !to.Equal(base.Add(8*time.Second)) {
		t.Fatal("expected full window initially")
	}

	n.Seek(base.Add(4 * time.Second))
	n.ZoomIn()
	from, to = n.Window()
	if !from.Equal(base.Add(2*time.Second)) || !to.Equal(base.Add(6*time.Second)) {
		t.Fatalf("expected window centred on playhead, got %v..%v", from.Sub(base), to.Sub(base))
	}

	n.Seek(base.Add(7 * time.Second))
	from, to = n.Window()
	if !to.Equal(base.Add(8*time.Second)) || to.Sub(from) != 4*time.Second {
		t.Fatalf("expected window shifted inside bounds, got %v..%v", from.Sub(base), to.Sub(base))
	}

	for i := 0; i < 50; i++ {
		n.ZoomIn()
	}
	from, to = n.Window()
	if to.Sub(from) != MinZoom {
		t.Fatalf("expected minimum zoom %v, got %v", MinZoom, to.Sub(from))
	}

	for i := 0; i < 50; i++ {
		n.ZoomOut()
	}
	from, to = n.Window()
	if to.Sub(from) != 8*time.Second {
		t.Fatal("expected zoom out capped at full range")
	}

	n.ZoomIn()
	n.ResetZoom()
	from, to = n.Window()
	if !from.Equal(base) || !to.Equal(base.Add(8*time.Second)) {
		t.Fatal("expected reset zoom to show everything")
	}
}

func TestNavigator_SetRangeKeepsPlayhead(t *testing.T) {
	n := New(base, base.Add(10*time.Second))
	n.Seek(base.Add(5 * time.Second))
	n.SetRange(base, base.Add(20*time.Second))
	if !n.Playhead().Equal(base.Add(5 * time.Second)) {
		t.Fatalf("expected playhead to survive range growth, got %v", n.Playhead().Sub(base))
	}
	n.SetRange(base, base.Add(2*time.Second))
	if !n.Playhead().Equal(base.Add(2 * time.Second)) {
		t.Fatal("expected playhead clamped into shrunken range")
	}
}
