package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"strings"
)

const cursorSize = 16

// Cursor is an SCI0 mouse cursor: a 16x16 two-color bitmap with a
// transparency mask, one uint16 per row, bit 0 on the left.
type Cursor struct {
	HotSpot
	Transparency [cursorSize]uint16
	Color        [cursorSize]uint16
}

type HotSpot struct {
	X int16
	Y int16
}

func NewCursor(b []byte) (*Cursor, error) {
	var cursor Cursor
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &cursor); err != nil {
		return nil, fmt.Errorf("%w: cursor: %w", ErrMalformedResource, err)
	}
	return &cursor, nil
}

// CursorPalette indexes the pixels of Cursor.Image.
var CursorPalette = color.Palette{
	color.Transparent,
	color.Black,
	color.White,
}

const (
	cursorClear = iota
	cursorBlack
	cursorWhite
)

func (c *Cursor) at(x, y int) uint8 {
	switch {
	case (c.Transparency[y]>>uint(x))&1 == 1:
		return cursorClear
	case (c.Color[y]>>uint(x))&1 == 1:
		return cursorWhite
	default:
		return cursorBlack
	}
}

// Image renders the cursor with CursorPalette.
func (c *Cursor) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, cursorSize, cursorSize), CursorPalette)
	for y := 0; y < cursorSize; y++ {
		for x := 0; x < cursorSize; x++ {
			img.SetColorIndex(x, y, c.at(x, y))
		}
	}
	return img
}

func (c *Cursor) String() string {
	var sb strings.Builder
	for y := 0; y < cursorSize; y++ {
		for x := 0; x < cursorSize; x++ {
			switch c.at(x, y) {
			case cursorClear:
				sb.WriteByte(' ')
			case cursorWhite:
				sb.WriteString("█")
			default:
				sb.WriteString("░")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
