package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
)

type viewHeader struct {
	Groups   uint16
	Mirrored uint16
	_        uint32
}

// vgaViewHeader is the header of an SCI1 view as rebuilt from its packed
// form.
type vgaViewHeader struct {
	Groups   uint8
	Flags    uint8
	Mirrored uint16
	_        uint16
	Palette  uint16
}

// NewView parses an SCI0 view: 16 color cels with 4-bit run lengths.
func NewView(b []byte) (View, error) {
	r := bytes.NewReader(b)

	var header viewHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	v := &viewReader{r: r, src: b, decode: decodeEGA}
	return v.groups(int(header.Groups), header.Mirrored)
}

// NewVGAView parses an SCI1 view: 256 color cels with run lengths in their
// own control bytes. The palette is nil if the view carries none.
func NewVGAView(b []byte) (View, *Palette, error) {
	r := bytes.NewReader(b)

	var header vgaViewHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, err
	}

	v := &viewReader{r: r, src: b, vga: true, decode: decodeVGA}
	view, err := v.groups(int(header.Groups), header.Mirrored)
	if err != nil {
		return nil, nil, err
	}
	if header.Palette == 0 {
		return view, nil, nil
	}

	// the palette block follows the last cel
	if !bytes.HasPrefix(b[v.end:], paletteMarker) {
		return nil, nil, fmt.Errorf("%w: view palette missing at %d", ErrMalformedResource, v.end)
	}
	palette, err := NewPalette(b[v.end:])
	if err != nil {
		return nil, nil, err
	}
	return view, palette, nil
}

type viewReader struct {
	r      *bytes.Reader
	src    []byte
	vga    bool
	decode func(r io.ByteReader, bitmap []uint8, key uint8) error
	end    int
}

func (v *viewReader) groups(count int, mirror uint16) (View, error) {
	r := v.r
	view := make(View, 0, count)

	groupPointers := make([]uint16, count)
	if err := binary.Read(r, binary.LittleEndian, &groupPointers); err != nil {
		return nil, err
	}

	for g, groupPointer := range groupPointers {
		if _, err := r.Seek(int64(groupPointer), io.SeekStart); err != nil {
			return nil, err
		}

		var groupHeader struct {
			Images uint16
			_      [2]byte
		}

		if err := binary.Read(r, binary.LittleEndian, &groupHeader); err != nil {
			return nil, err
		}

		mirrored := g < 16 && mirror&(1<<uint(g)) != 0

		group := SpriteGroup{}

		spritePointers := make([]uint16, groupHeader.Images)
		if err := binary.Read(r, binary.LittleEndian, &spritePointers); err != nil {
			return nil, err
		}

		for _, spritePointer := range spritePointers {
			sprite, err := v.sprite(int64(spritePointer))
			if err != nil {
				return nil, err
			}
			if mirrored {
				sprite.mirror()
			}
			group = append(group, sprite)
		}
		view = append(view, group)
	}

	return view, nil
}

func (v *viewReader) sprite(offset int64) (Sprite, error) {
	r := v.r
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return Sprite{}, err
	}

	sprite := Sprite{}
	if err := binary.Read(r, binary.LittleEndian, &sprite.SpriteHeader); err != nil {
		return Sprite{}, err
	}
	if v.vga {
		// VGA cel headers pad the key color to a word
		if _, err := r.ReadByte(); err != nil {
			return Sprite{}, err
		}
	}

	bitmap := make([]uint8, int(sprite.Width)*int(sprite.Height))
	if err := v.decode(r, bitmap, sprite.KeyColor); err != nil {
		return Sprite{}, err
	}
	sprite.Pixels = bitmap

	if pos := len(v.src) - r.Len(); pos > v.end {
		v.end = pos
	}
	return sprite, nil
}

// decodeEGA expands runs of a color in the low nibble repeated by the high
// nibble.
func decodeEGA(r io.ByteReader, bitmap []uint8, key uint8) error {
	i := 0
	for i < len(bitmap) {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		c := b & 0xF
		repeat := int(b >> 4)
		if i+repeat > len(bitmap) {
			return fmt.Errorf("%w: run of %d overflows cel", ErrMalformedResource, repeat)
		}
		for n := 0; n < repeat; n++ {
			bitmap[i] = c
			i++
		}
	}
	return nil
}

// decodeVGA expands cel RLE: 0xxxxxxx copies x bytes, 10xxxxxx repeats the
// next byte x times, 11xxxxxx leaves x pixels transparent.
func decodeVGA(r io.ByteReader, bitmap []uint8, key uint8) error {
	i := 0
	for i < len(bitmap) {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		n := int(b & 0x3f)
		if b&0x80 == 0 {
			n = int(b)
		}
		if i+n > len(bitmap) {
			return fmt.Errorf("%w: run of %d overflows cel", ErrMalformedResource, n)
		}

		switch b & 0xc0 {
		case 0xc0:
			for ; n > 0; n-- {
				bitmap[i] = key
				i++
			}
		case 0x80:
			c, err := r.ReadByte()
			if err != nil {
				return err
			}
			for ; n > 0; n-- {
				bitmap[i] = c
				i++
			}
		default:
			for ; n > 0; n-- {
				c, err := r.ReadByte()
				if err != nil {
					return err
				}
				bitmap[i] = c
				i++
			}
		}
	}
	return nil
}

type View []SpriteGroup

type SpriteGroup []Sprite

// GIF renders the group as an animation, one frame per cel, aligned on the
// cels' displacements.
func (g SpriteGroup) GIF(palette color.Palette) *gif.GIF {
	var images []*image.Paletted
	var delays []int
	var dispose []byte

	rect := image.Rectangle{}
	for i, s := range g {
		r := image.Rect(int(s.X), int(s.Y), int(s.X)+int(s.Width), int(s.Y)+int(s.Height))
		if i == 0 {
			rect = r
		} else {
			rect = rect.Union(r)
		}
	}

	offset := rect.Min
	rect = rect.Sub(rect.Min)

	for _, s := range g {
		srcRect := image.Rect(
			0, 0,
			int(s.Width), int(s.Height),
		)

		source := &image.Paletted{
			Pix:     s.Pixels,
			Stride:  int(s.Width),
			Rect:    srcRect,
			Palette: palette,
		}

		mask := image.NewAlpha(srcRect)
		for i := range mask.Pix {
			if s.Pixels[i] != s.KeyColor {
				mask.Pix[i] = 0xff
			}
		}

		img := image.NewPaletted(rect, palette)

		draw.DrawMask(
			img,
			image.Rect(
				int(s.X)-offset.X,
				int(s.Y)-offset.Y,
				int(s.Width)+int(s.X)-offset.X,
				int(s.Height)+int(s.Y)-offset.Y,
			),
			source,
			image.Point{},
			mask,
			image.Point{},
			draw.Src,
		)

		images = append(images, img)
		delays = append(delays, 20)
		dispose = append(dispose, gif.DisposalPrevious)
	}

	return &gif.GIF{
		Image:    images,
		Delay:    delays,
		Disposal: dispose,
	}
}

type SpriteHeader struct {
	Width    uint16
	Height   uint16
	X        int8
	Y        int8
	KeyColor uint8
}

type Sprite struct {
	SpriteHeader
	Pixels []uint8
}

func (s *Sprite) mirror() {
	s.X = -s.X
	stride := int(s.Width)
	for y := 0; y < int(s.Height); y++ {
		offs := y * stride
		for x := 0; x < stride>>1; x++ {
			a := offs + x
			b := offs + stride - x - 1
			s.Pixels[a], s.Pixels[b] = s.Pixels[b], s.Pixels[a]
		}
	}
}
