package sci

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/32bitkid/scires/decompression"
	"github.com/32bitkid/scires/reorder"
	"github.com/32bitkid/scires/resource"
)

const lookupEndToken uint8 = 0xff

type lookupEntry struct {
	Type   uint8
	Offset uint16
}

// entrySpan is the run of map entries for one lookup type.
type entrySpan struct {
	typ  uint8
	data []byte
}

type entryEncoding struct {
	gen  resource.Generation
	size int
}

// The two SCI1 encodings are told apart only by which entry size divides
// every span.
var lookupEncodings = []entryEncoding{
	{resource.SCI1, 6},
	{resource.SCI11, 5},
}

// LookupArchive is an archive indexed by an SCI1 style map: a table of
// (type, offset) pairs ending with type 0xFF, each pointing at the entries
// for that type.
type LookupArchive struct {
	index
	mapPath string
	gen     resource.Generation
}

func newLookupArchive(mapPath string, data []byte) (*LookupArchive, error) {
	spans, err := parseLookupTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mapPath, err)
	}
	gen, err := detectEncoding(spans)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mapPath, err)
	}
	idx, err := parseLookupEntries(spans, gen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mapPath, err)
	}
	slog.Debug("sci: opened map", "map", mapPath, "generation", gen, "entries", idx.Len())

	return &LookupArchive{
		index:   idx,
		mapPath: mapPath,
		gen:     gen,
	}, nil
}

func parseLookupTable(data []byte) ([]entrySpan, error) {
	r := bytes.NewReader(data)

	var lookup []lookupEntry
	var end uint16
	for {
		var e lookupEntry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return nil, fmt.Errorf("%w: lookup table not terminated after %d types", ErrFormatMismatch, len(lookup))
		}
		if e.Type == lookupEndToken {
			end = e.Offset
			break
		}
		lookup = append(lookup, e)
	}

	tableEnd := 3 * (len(lookup) + 1)
	spans := make([]entrySpan, 0, len(lookup))
	for i, e := range lookup {
		stop := end
		if i+1 < len(lookup) {
			stop = lookup[i+1].Offset
		}
		if int(e.Offset) < tableEnd || e.Offset > stop || int(stop) > len(data) {
			return nil, fmt.Errorf("%w: type 0x%02x spans %d-%d of a %d byte map", ErrFormatMismatch, e.Type, e.Offset, stop, len(data))
		}
		spans = append(spans, entrySpan{typ: e.Type, data: data[e.Offset:stop]})
	}
	return spans, nil
}

// detectEncoding picks the generation of a lookup-table map. Type bytes
// without the high bit only occur in SCI32 maps; otherwise exactly one of
// the SCI1 entry sizes must divide every span.
func detectEncoding(spans []entrySpan) (resource.Generation, error) {
	for _, s := range spans {
		if s.typ < 0x80 {
			return resource.SCI32, nil
		}
	}

	var fits []entryEncoding
	for _, enc := range lookupEncodings {
		ok := true
		for _, s := range spans {
			if len(s.data)%enc.size != 0 {
				ok = false
				break
			}
		}
		if ok {
			fits = append(fits, enc)
		}
	}

	switch len(fits) {
	case 0:
		return 0, fmt.Errorf("%w: no entry size divides every lookup span", ErrMalformedHeader)
	case 1:
		return fits[0].gen, nil
	default:
		return 0, fmt.Errorf("%w: entry spans fit both %s and %s", ErrAmbiguousMapEncoding, fits[0].gen, fits[1].gen)
	}
}

func parseLookupEntries(spans []entrySpan, gen resource.Generation) (index, error) {
	size := 6
	if gen == resource.SCI11 {
		size = 5
	}

	idx := newIndex()
	for _, s := range spans {
		if len(s.data)%size != 0 {
			return index{}, fmt.Errorf("%w: %d byte span for type 0x%02x is not a whole number of %d byte entries", ErrMalformedHeader, len(s.data), s.typ, size)
		}

		t := resource.Type(s.typ)
		if gen != resource.SCI32 {
			t = resource.Type(s.typ - 0x80)
		}

		for e := s.data; len(e) > 0; e = e[size:] {
			loc := Location{
				Type:   t,
				Number: resource.Number(binary.LittleEndian.Uint16(e)),
			}
			if gen == resource.SCI11 {
				// word aligned offset with a carry byte, single volume
				off := uint32(binary.LittleEndian.Uint16(e[2:])) | uint32(e[4])<<16
				loc.Offset = off << 1
			} else {
				off := binary.LittleEndian.Uint32(e[2:])
				loc.Volume = uint8(off >> 28)
				loc.Offset = off & 0x0FFFFFFF
			}

			name, err := resource.Name(gen, loc.Type, loc.Number)
			if err != nil {
				return index{}, err
			}
			idx.add(name, loc)
		}
	}
	return idx, nil
}

func (a *LookupArchive) Generation() resource.Generation { return a.gen }

func (a *LookupArchive) volume(v uint8) string {
	if a.gen == resource.SCI32 {
		return filepath.Join(filepath.Dir(a.mapPath), fmt.Sprintf("RESSCI.%03d", v))
	}
	return volumeName(a.mapPath, v)
}

func (a *LookupArchive) headerReader() headerReader {
	switch a.gen {
	case resource.SCI1:
		return sci1HeaderReader(true)
	case resource.SCI11:
		return sci1HeaderReader(false)
	default:
		return readSCI32Header
	}
}

func (a *LookupArchive) Stat(name string) (Header, error) {
	loc, err := a.locate(name)
	if err != nil {
		return Header{}, err
	}
	h, err := statVolume(a.volume(loc.Volume), loc, a.headerReader())
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", name, err)
	}
	return h, nil
}

func (a *LookupArchive) Fetch(name string) ([]byte, error) {
	loc, err := a.locate(name)
	if err != nil {
		return nil, err
	}
	h, packed, err := readVolume(a.volume(loc.Volume), loc, a.headerReader())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	payload, err := a.decode(h, packed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return append(a.prefix(h.Type), payload...), nil
}

func (a *LookupArchive) decode(h Header, packed []byte) ([]byte, error) {
	if a.gen == resource.SCI32 {
		// SCI32 volumes keep incompressible resources as they are,
		// whatever the method says.
		if h.CompressedSize >= h.DecompressedSize {
			if len(packed) < h.CompressedSize {
				return nil, fmt.Errorf("%w: have %d of %d stored bytes", ErrCorruptStream, len(packed), h.CompressedSize)
			}
			return packed, nil
		}
		return decompression.Decompressors.SCI32.Decompress(h.Method, packed, h.CompressedSize, h.DecompressedSize)
	}

	lut := decompression.Decompressors.SCI1
	if a.gen == resource.SCI11 {
		lut = decompression.Decompressors.SCI11
	}
	out, err := lut.Decompress(h.Method, packed, h.CompressedSize, h.DecompressedSize)
	if err != nil {
		return nil, err
	}
	switch h.Method {
	case 3:
		return reorder.View(out)
	case 4:
		return reorder.Pic(out, h.DecompressedSize)
	}
	return out, nil
}

// prefix is the patch file header for t. SCI1.1 patch files of views,
// pictures and palettes carry a longer header than the type tag.
func (a *LookupArchive) prefix(t resource.Type) []byte {
	if a.gen != resource.SCI11 {
		return tag(t)
	}
	switch t {
	case resource.TypeView, resource.TypePic:
		p := binary.LittleEndian.AppendUint16(nil, resource.Tag(t)|0x8000)
		return append(p, make([]byte, 2+22)...)
	case resource.TypePalette:
		p := binary.LittleEndian.AppendUint16(nil, resource.Tag(t)|0x8000)
		return append(p, 0, 0)
	}
	return tag(t)
}
