package highlight

import (
	"fmt"
	"strconv"
	"strings"

	coreerrors "rosview/internal/core/errors"
)

// Color is an RGBA value independent of any rendering library.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// Hex renders #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa (the leading # is optional).
func ParseColor(raw string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return Color{}, coreerrors.New(coreerrors.CodeValidationError, fmt.Sprintf("invalid color %q", raw))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, coreerrors.Wrap(err, coreerrors.CodeValidationError, fmt.Sprintf("invalid color %q", raw))
	}
	if len(s) == 6 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Colorable is what the propagation policy needs from nodes and edges.
type Colorable interface {
	SetColor(Color)
	Color() Color
	DefaultColor() Color
	ResetColor()
}

// paint holds the resting and current color of an entity.
type paint struct {
	current    Color
	def        Color
	overridden bool
}

func newPaint(def Color) paint {
	return paint{current: def, def: def}
}

func (p *paint) SetColor(c Color) {
	p.current = c
	p.overridden = true
}

func (p *paint) Color() Color        { return p.current }
func (p *paint) DefaultColor() Color { return p.def }

func (p *paint) ResetColor() {
	p.current = p.def
	p.overridden = false
}

// SetDefaultColor changes the resting color. An entity that is currently
// highlighted keeps its highlight until it is reset.
func (p *paint) SetDefaultColor(c Color) {
	p.def = c
	if !p.overridden {
		p.current = c
	}
}
