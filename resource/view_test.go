package resource

import (
	"bytes"
	"errors"
	"testing"
)

func TestView(t *testing.T) {
	src := []byte{
		1, 0, 0, 0, 0, 0, 0, 0,
		10, 0,
		1, 0, 0, 0,
		16, 0,
		2, 0, 1, 0, 0xfe, 3, 0,
		0x21,
	}

	view, err := NewView(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(view) != 1 || len(view[0]) != 1 {
		t.Fatalf("expected one group with one sprite, got %v", view)
	}
	s := view[0][0]
	if s.Width != 2 || s.Height != 1 || s.X != -2 || s.Y != 3 {
		t.Fatalf("unexpected header %+v", s.SpriteHeader)
	}
	if !bytes.Equal(s.Pixels, []byte{1, 1}) {
		t.Fatalf("unexpected pixels % x", s.Pixels)
	}
}

// rebuilt SCI1 view: two loops sharing one table, the second mirrored
var vgaView = []byte{
	0x02, 0x80, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0c, 0x00, 0x0c, 0x00,
	0x02, 0x00, 0x00, 0x00,
	0x14, 0x00, 0x21, 0x00,
	0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 0xff, 0x00,
	0x04, 0x01, 0x02, 0x03, 0x04,
	0x04, 0x00, 0x01, 0x00, 0x01, 0x02, 0x05, 0x00,
	0x83, 0x09, 0xc1,
}

func TestVGAView(t *testing.T) {
	view, palette, err := NewVGAView(vgaView)
	if err != nil {
		t.Fatal(err)
	}
	if palette != nil {
		t.Fatal("expected no palette")
	}
	if len(view) != 2 {
		t.Fatalf("expected 2 loops, got %d", len(view))
	}

	for _, tCase := range []struct {
		name   string
		sprite Sprite
		x      int8
		pixels []byte
	}{
		{"loop 0 cel 0", view[0][0], 0, []byte{1, 2, 3, 4}},
		{"loop 0 cel 1", view[0][1], 1, []byte{9, 9, 9, 5}},
		{"loop 1 cel 0", view[1][0], 0, []byte{2, 1, 4, 3}},
		{"loop 1 cel 1", view[1][1], -1, []byte{5, 9, 9, 9}},
	} {
		if tCase.sprite.X != tCase.x {
			t.Errorf("%s: expected x %d, got %d", tCase.name, tCase.x, tCase.sprite.X)
		}
		if !bytes.Equal(tCase.sprite.Pixels, tCase.pixels) {
			t.Errorf("%s: expected % x, got % x", tCase.name, tCase.pixels, tCase.sprite.Pixels)
		}
	}

	if c := view[0][1]; c.KeyColor != 5 || c.Y != 2 || c.Width != 4 {
		t.Fatalf("unexpected header %+v", c.SpriteHeader)
	}
}

func TestVGAViewPalette(t *testing.T) {
	src := append([]byte(nil), vgaView...)
	src[6] = 1
	src = append(src, "PAL"...)
	src = append(src, paletteBytes()...)

	_, palette, err := NewVGAView(src)
	if err != nil {
		t.Fatal(err)
	}
	if palette == nil || palette.Hex(1) != "#0180fe" {
		t.Fatalf("palette was not read: %v", palette)
	}

	if _, _, err := NewVGAView(src[:len(vgaView)+10]); !errors.Is(err, ErrMalformedResource) {
		t.Fatalf("expected ErrMalformedResource, got %v", err)
	}
}

func TestVGAViewOverflow(t *testing.T) {
	src := append([]byte(nil), vgaView...)
	src[28] = 0x05

	if _, _, err := NewVGAView(src); !errors.Is(err, ErrMalformedResource) {
		t.Fatalf("expected ErrMalformedResource, got %v", err)
	}
}

func TestSpriteGroupGIF(t *testing.T) {
	view, _, err := NewVGAView(vgaView)
	if err != nil {
		t.Fatal(err)
	}

	g := view[0].GIF(GrayPalette)
	if len(g.Image) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(g.Image))
	}
	// cels span (0,0)-(2,2) and (1,2)-(5,3)
	if b := g.Image[0].Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("unexpected frame bounds %v", b)
	}
	if c := g.Image[1].ColorIndexAt(1, 2); c != 9 {
		t.Fatalf("expected color 9 at (1,2), got %d", c)
	}
}
