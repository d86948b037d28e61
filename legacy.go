package sci

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/32bitkid/scires/decompression"
	"github.com/32bitkid/scires/resource"
)

const idEndToken uint16 = (1 << 16) - 1
const tailEndToken uint32 = (1 << 32) - 1

// legacyEntry is a 6-byte SCI0 map entry. Tail packs the volume number in
// its top 6 bits and the offset in the low 26.
type legacyEntry struct {
	ID   resource.RID
	Tail uint32
}

func (e legacyEntry) location() Location {
	return Location{
		Type:   e.ID.Type(),
		Number: e.ID.Number(),
		Volume: uint8(e.Tail >> 26),
		Offset: e.Tail & ((1 << 26) - 1),
	}
}

// LegacyArchive is an archive indexed by an SCI0 style map: a flat list of
// packed ids terminated by six 0xFF bytes.
type LegacyArchive struct {
	index
	mapPath       string
	gen           resource.Generation
	decompressors decompression.LUT
}

func newLegacyArchive(mapPath string, data []byte, gen resource.Generation) (*LegacyArchive, error) {
	var decompressors decompression.LUT
	switch gen {
	case resource.SCI0:
		decompressors = decompression.Decompressors.SCI0
	case resource.SCI01:
		decompressors = decompression.Decompressors.SCI01
	default:
		return nil, fmt.Errorf("%w: %s does not use a legacy map", ErrFormatMismatch, gen)
	}

	idx, err := parseLegacyMap(data, gen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mapPath, err)
	}
	slog.Debug("sci: opened map", "map", mapPath, "generation", gen, "entries", idx.Len())

	return &LegacyArchive{
		index:         idx,
		mapPath:       mapPath,
		gen:           gen,
		decompressors: decompressors,
	}, nil
}

func parseLegacyMap(data []byte, gen resource.Generation) (index, error) {
	r := bytes.NewReader(data)

	// Find the sentinel before trusting any entry; a map without one is
	// some other format.
	var entries []legacyEntry
	for {
		var e legacyEntry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return index{}, fmt.Errorf("%w: no end-of-map sentinel after %d entries", ErrFormatMismatch, len(entries))
		}
		if uint16(e.ID) == idEndToken && e.Tail == tailEndToken {
			break
		}
		entries = append(entries, e)
	}

	idx := newIndex()
	for _, e := range entries {
		loc := e.location()
		name, err := resource.Name(gen, loc.Type, loc.Number)
		if err != nil {
			return index{}, err
		}
		idx.add(name, loc)
	}
	return idx, nil
}

func (a *LegacyArchive) Generation() resource.Generation { return a.gen }

func (a *LegacyArchive) Stat(name string) (Header, error) {
	loc, err := a.locate(name)
	if err != nil {
		return Header{}, err
	}
	h, err := statVolume(volumeName(a.mapPath, loc.Volume), loc, readSCI0Header)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", name, err)
	}
	return h, nil
}

func (a *LegacyArchive) Fetch(name string) ([]byte, error) {
	loc, err := a.locate(name)
	if err != nil {
		return nil, err
	}
	h, packed, err := readVolume(volumeName(a.mapPath, loc.Volume), loc, readSCI0Header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	payload, err := a.decompressors.Decompress(h.Method, packed, h.CompressedSize, h.DecompressedSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return append(tag(h.Type), payload...), nil
}
