package resource

import (
	"errors"
	"testing"
)

func paletteBytes() []byte {
	b := make([]byte, paletteHeader+4*paletteColors)
	for i := 0; i < paletteColors; i++ {
		e := b[paletteHeader+4*i:]
		e[0] = uint8(i % 2)
		e[1], e[2], e[3] = uint8(i), 0x80, 0xff-uint8(i)
	}
	return b
}

func TestPalette(t *testing.T) {
	for _, tCase := range []struct {
		name string
		src  []byte
	}{
		{"palette resource", paletteBytes()},
		{"view palette block", append([]byte("PAL"), paletteBytes()...)},
	} {
		t.Run(tCase.name, func(t *testing.T) {
			p, err := NewPalette(tCase.src)
			if err != nil {
				t.Fatal(err)
			}
			if p[0].Used || !p[1].Used {
				t.Fatal("used flags were not read")
			}
			if hex := p.Hex(0x10); hex != "#1080ef" {
				t.Fatalf("expected #1080ef, got %s", hex)
			}

			colors := p.Colors()
			if len(colors) != 256 {
				t.Fatalf("expected 256 colors, got %d", len(colors))
			}
			r, g, b, _ := colors[0xff].RGBA()
			if r>>8 != 0xff || g>>8 != 0x80 || b>>8 != 0x00 {
				t.Fatalf("unexpected color %04x %04x %04x", r, g, b)
			}
		})
	}

	if _, err := NewPalette(make([]byte, 100)); !errors.Is(err, ErrMalformedResource) {
		t.Fatalf("expected ErrMalformedResource, got %v", err)
	}
}

func TestEGAPalette(t *testing.T) {
	if len(EGAPalette) != 16 {
		t.Fatalf("expected 16 colors, got %d", len(EGAPalette))
	}
	r, g, b, _ := EGAPalette[6].RGBA()
	if r>>8 != 0xaa || g>>8 != 0x55 || b>>8 != 0x00 {
		t.Fatalf("unexpected brown %04x %04x %04x", r, g, b)
	}
}
