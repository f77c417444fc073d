package highlight

// Palette assigns an indicator color to each hover role.
type Palette struct {
	Active      Color // hovered edge
	Source      Color // from-node of a regular edge
	Sink        Color // to-node of a regular edge
	SelfLoop    Color // the single endpoint of a self loop
	Sibling     Color // edges sharing the hovered edge's endpoints
	NodeDefault Color
	EdgeDefault Color
}

var (
	ColorBlack  = RGB(0x00, 0x00, 0x00)
	ColorRed    = RGB(0xff, 0x00, 0x00)
	ColorBlue   = RGB(0x00, 0x00, 0xff)
	ColorGreen  = RGB(0x00, 0xff, 0x00)
	ColorTeal   = RGB(0x00, 0x80, 0x80)
	ColorOrange = RGB(0xff, 0xa5, 0x00)
)

func DefaultPalette() Palette {
	return Palette{
		Active:      ColorRed,
		Source:      ColorBlue,
		Sink:        ColorGreen,
		SelfLoop:    ColorTeal,
		Sibling:     ColorOrange,
		NodeDefault: ColorBlack,
		EdgeDefault: ColorBlack,
	}
}
