package resource

import (
	"bytes"
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	paletteColors = 256
	// color mapping table and a 4-byte placeholder precede the colors
	paletteHeader = 256 + 4
)

var paletteMarker = []byte("PAL")

type PaletteEntry struct {
	Used bool
	colorful.Color
}

// Palette is a 256 color VGA palette.
type Palette [paletteColors]PaletteEntry

// NewPalette parses an SCI1 palette: a mapping table, a placeholder and
// 256 {used, r, g, b} entries, optionally behind a "PAL" marker as found at
// the end of views.
func NewPalette(b []byte) (*Palette, error) {
	b = bytes.TrimPrefix(b, paletteMarker)
	if len(b) < paletteHeader+4*paletteColors {
		return nil, fmt.Errorf("%w: %d byte palette", ErrMalformedResource, len(b))
	}

	var p Palette
	for i := range p {
		e := b[paletteHeader+4*i:]
		p[i] = PaletteEntry{
			Used: e[0] != 0,
			Color: colorful.Color{
				R: float64(e[1]) / 255,
				G: float64(e[2]) / 255,
				B: float64(e[3]) / 255,
			},
		}
	}
	return &p, nil
}

func (p *Palette) Colors() color.Palette {
	colors := make(color.Palette, len(p))
	for i, e := range p {
		colors[i] = e.Color
	}
	return colors
}

func (p *Palette) Hex(i uint8) string {
	return p[i].Hex()
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// EGAPalette holds the 16 colors SCI0 views index.
var EGAPalette = color.Palette{
	hex("#000000"),
	hex("#0000aa"),
	hex("#00aa00"),
	hex("#00aaaa"),
	hex("#aa0000"),
	hex("#aa00aa"),
	hex("#aa5500"),
	hex("#aaaaaa"),

	hex("#555555"),
	hex("#5555ff"),
	hex("#55ff55"),
	hex("#55ffff"),
	hex("#ff5555"),
	hex("#ff55ff"),
	hex("#ffff55"),
	hex("#ffffff"),
}

// GrayPalette stands in for views that carry no palette of their own.
var GrayPalette = func() color.Palette {
	colors := make(color.Palette, paletteColors)
	for i := range colors {
		colors[i] = color.Gray{Y: uint8(i)}
	}
	return colors
}()
