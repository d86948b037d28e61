package sci

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/32bitkid/scires/resource"
)

func TestLookupSCI1(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "RESOURCE.MAP")

	script := sci1Resource(t, resource.TypeScript, 1, 0, []byte{0x12, 0x34}, 2, true)
	view := sci1Resource(t, resource.TypeView, 5, 3, literalsLZW1(packedView), len(packedView), true)
	pic := sci1Resource(t, resource.TypePic, 9, 4, literalsLZW1(packedPic), packedPicSize, true)

	writeFile(t, mapPath, lookupMap(
		lookupSpan{0x82, sci1Entry(1, 0, 0)},
		lookupSpan{0x80, append(sci1Entry(5, 1, 0x10), sci1Entry(6, 1, 0x20)...)},
		lookupSpan{0x81, sci1Entry(9, 0, uint32(len(script)))},
	))
	writeFile(t, filepath.Join(dir, "RESOURCE.000"), append(script, pic...))
	writeFile(t, filepath.Join(dir, "RESOURCE.001"), append(make([]byte, 0x10), view...))

	a, err := OpenSCI1(mapPath)
	if err != nil {
		t.Fatal(err)
	}
	if a.Generation() != resource.SCI1 {
		t.Fatalf("expected SCI1, got %s", a.Generation())
	}

	names, _ := a.Names("*")
	if want := []string{"1.scr", "5.v56", "6.v56", "9.p56"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	if loc, _ := a.Lookup("6.v56"); loc != (Location{Type: resource.TypeView, Number: 6, Volume: 1, Offset: 0x20}) {
		t.Fatalf("unexpected location %+v", loc)
	}

	out, err := a.Fetch("1.scr")
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x82, 0x00, 0x12, 0x34}; !bytes.Equal(out, want) {
		t.Fatalf("expected % x, got % x", want, out)
	}

	out, err = a.Fetch("5.v56")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2+len(packedView) {
		t.Fatalf("expected %d bytes, got %d", 2+len(packedView), len(out))
	}
	if !bytes.Equal(out[:4], []byte{0x80, 0x00, 0x02, 0x80}) {
		t.Fatalf("unexpected view header % x", out[:4])
	}
	if cel := out[2+28 : 2+33]; !bytes.Equal(cel, []byte{0x04, 1, 2, 3, 4}) {
		t.Fatalf("cel data was not rebuilt: % x", cel)
	}

	out, err = a.Fetch("9.p56")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2+packedPicSize {
		t.Fatalf("expected %d bytes, got %d", 2+packedPicSize, len(out))
	}
	if !bytes.Equal(out[:4], []byte{0x81, 0x00, 0xfe, 0x02}) {
		t.Fatalf("expected a set palette op, got % x", out[:4])
	}
	if !bytes.Equal(out[2+262:2+262+1024], packedPic[13:13+1024]) {
		t.Fatal("palette was not copied")
	}
	embedded := []byte{
		0xfe, 0x01, 0x00, 0x00, 0x00, 0x0b, 0x00,
		0x02, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x00,
		0x02, 0x0a, 0x0b,
		0xff,
	}
	if !bytes.Equal(out[2+1286:], embedded) {
		t.Fatalf("unexpected embedded view % x", out[2+1286:])
	}

	// the volume holds no header at 0x20
	if _, err := a.Fetch("6.v56"); !errors.Is(err, ErrMalformedHeader) {
		t.Fatalf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestLookupSCI11(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "RESOURCE.MAP")

	var volume []byte
	volume = append(volume, sci1Resource(t, resource.TypeText, 2, 0, []byte("hi"), 2, false)...)
	volume = append(volume, 0) // entries are word aligned
	palette := len(volume)
	volume = append(volume, sci1Resource(t, resource.TypePalette, 999, 0, []byte{1, 2, 3, 4}, 4, false)...)
	volume = append(volume, 0)
	view := len(volume)
	volume = append(volume, sci1Resource(t, resource.TypeView, 7, 18, dclAI, 13, false)...)

	writeFile(t, mapPath, lookupMap(
		lookupSpan{0x80, sci11Entry(7, uint32(view))},
		lookupSpan{0x83, sci11Entry(2, 0)},
		lookupSpan{0x8b, sci11Entry(999, uint32(palette))},
	))
	writeFile(t, filepath.Join(dir, "RESOURCE.000"), volume)

	a, err := OpenSCI1(mapPath)
	if err != nil {
		t.Fatal(err)
	}
	if a.Generation() != resource.SCI11 {
		t.Fatalf("expected SCI1.1, got %s", a.Generation())
	}

	for _, tCase := range []struct {
		name string
		want []byte
	}{
		{"2.tex", []byte{0x83, 0x00, 'h', 'i'}},
		{"999.pal", []byte{0x8b, 0x80, 0, 0, 1, 2, 3, 4}},
		{"7.v56", append(append([]byte{0x80, 0x80}, make([]byte, 24)...), "AIAIAIAIAIAIA"...)},
	} {
		t.Run(tCase.name, func(t *testing.T) {
			out, err := a.Fetch(tCase.name)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(out, tCase.want) {
				t.Fatalf("expected % x, got % x", tCase.want, out)
			}
		})
	}
}

func TestLookupSCI32(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "RESMAP.000")

	stored := append(pack(t, sci32Header{Type: uint8(resource.TypeScript), Number: 3, Packed: 4, Unpacked: 4, Method: 0}), "ABCD"...)
	badMethod := append(pack(t, sci32Header{Type: uint8(resource.TypeScript), Number: 4, Packed: 2, Unpacked: 4, Method: 2}), 0, 0)

	writeFile(t, mapPath, lookupMap(
		lookupSpan{uint8(resource.TypeScript), append(sci1Entry(3, 1, 0), sci1Entry(4, 1, uint32(len(stored)))...)},
		lookupSpan{uint8(resource.TypeAudio36), sci1Entry(10, 2, 0)},
	))
	writeFile(t, filepath.Join(dir, "RESSCI.001"), append(stored, badMethod...))

	a, err := OpenSCI1(mapPath)
	if err != nil {
		t.Fatal(err)
	}
	if a.Generation() != resource.SCI32 {
		t.Fatalf("expected SCI32, got %s", a.Generation())
	}

	names, _ := a.Names("*")
	if want := []string{"3.scr", "4.scr", "10.a36"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	out, err := a.Fetch("3.scr")
	if err != nil {
		t.Fatal(err)
	}
	if want := append([]byte{0x82, 0x00}, "ABCD"...); !bytes.Equal(out, want) {
		t.Fatalf("expected % x, got % x", want, out)
	}
	// tagged with the high bit like every other generation, not with the
	// bare type byte of the volume header
	if out[0] != uint8(resource.Tag(resource.TypeScript)) || out[0] == uint8(resource.TypeScript) {
		t.Fatalf("unexpected SCI32 tag 0x%02x", out[0])
	}
	if typ, body, err := resource.Payload(out); err != nil || typ != resource.TypeScript || string(body) != "ABCD" {
		t.Fatalf("payload does not parse as a patch: %v %v %q", typ, err, body)
	}

	if _, err := a.Fetch("4.scr"); !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if _, err := a.Fetch("10.a36"); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestLookupEncodingDetection(t *testing.T) {
	for _, tCase := range []struct {
		name  string
		spans []lookupSpan
		want  resource.Generation
		err   error
	}{
		{"six byte entries", []lookupSpan{{0x80, make([]byte, 12)}, {0x82, make([]byte, 18)}}, resource.SCI1, nil},
		{"five byte entries", []lookupSpan{{0x80, make([]byte, 10)}, {0x82, make([]byte, 5)}}, resource.SCI11, nil},
		{"both sizes divide", []lookupSpan{{0x80, make([]byte, 30)}}, 0, ErrAmbiguousMapEncoding},
		{"no size divides", []lookupSpan{{0x80, make([]byte, 7)}}, 0, ErrMalformedHeader},
		{"sizes disagree across spans", []lookupSpan{{0x80, make([]byte, 6)}, {0x82, make([]byte, 5)}}, 0, ErrMalformedHeader},
	} {
		t.Run(tCase.name, func(t *testing.T) {
			spans, err := parseLookupTable(lookupMap(tCase.spans...))
			if err != nil {
				t.Fatal(err)
			}
			gen, err := detectEncoding(spans)
			if tCase.err != nil {
				if !errors.Is(err, tCase.err) {
					t.Fatalf("expected %v, got %v", tCase.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if gen != tCase.want {
				t.Fatalf("expected %s, got %s", tCase.want, gen)
			}
		})
	}
}

func TestLookupMapErrors(t *testing.T) {
	for _, tCase := range []struct {
		name string
		data []byte
		want error
	}{
		{"not terminated", []byte{0x80, 0x06, 0x00, 0x82}, ErrFormatMismatch},
		{"span past end of map", []byte{0x80, 0x06, 0x00, 0xff, 0x40, 0x00}, ErrFormatMismatch},
		{"span inside the table", []byte{0x80, 0x01, 0x00, 0xff, 0x06, 0x00}, ErrFormatMismatch},
		{"ambiguous", lookupMap(lookupSpan{0x80, make([]byte, 30)}), ErrAmbiguousMapEncoding},
		{"unknown type", lookupMap(lookupSpan{0x9f, make([]byte, 6)}), ErrUnknownResourceType},
	} {
		t.Run(tCase.name, func(t *testing.T) {
			mapPath := filepath.Join(t.TempDir(), "RESOURCE.MAP")
			writeFile(t, mapPath, tCase.data)

			_, err := OpenSCI1(mapPath)
			if !errors.Is(err, tCase.want) {
				t.Fatalf("expected %v, got %v", tCase.want, err)
			}
		})
	}
}
