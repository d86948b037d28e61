// Package sci implements access to the resource archives of Sierra On-Line
// games built on the Sierra Creative Interpreter.
//
// A game ships its resources either as loose patch files or packed into
// volume files (RESOURCE.000, RESOURCE.001, ...) addressed by a map file
// (RESOURCE.MAP, RESMAP.000). The map format changed twice over the life of
// the engine: SCI0 games use a flat list of packed ids, SCI1 and later
// games a per-type lookup table. Volumes store each resource behind a
// small header that names the compression method.
//
// Every payload returned by Fetch starts with the 2-byte resource type tag
// found at the start of patch files, so callers never need to know which
// generation served it.
package sci

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/32bitkid/scires/decompression"
	"github.com/32bitkid/scires/resource"
)

// Location is where the map says a resource lives.
type Location struct {
	Type   resource.Type
	Number resource.Number
	Volume uint8
	Offset uint32
}

// Header is the resource header found in a volume at a Location.
type Header struct {
	Type             resource.Type
	Number           resource.Number
	CompressedSize   int
	DecompressedSize int
	Method           decompression.Method
}

// Archive is an opened map and its volumes. The index is built once when
// the archive is opened and is never modified afterwards; Stat and Fetch
// open their own volume handle, so an Archive is safe for concurrent use.
type Archive interface {
	Generation() resource.Generation

	// Names returns the indexed names matching a path.Match pattern, in
	// map order.
	Names(pattern string) ([]string, error)
	Lookup(name string) (Location, bool)
	Len() int

	// Stat reads the volume header of name without decompressing it.
	Stat(name string) (Header, error)
	// Fetch returns the type tag followed by the decoded payload of name.
	Fetch(name string) ([]byte, error)
}

// DefaultMaps are the map file names tried by OpenDir, in order.
var DefaultMaps = []string{"RESOURCE.MAP", "RESMAP.000"}

// Opener builds an Archive from the contents of the map file at mapPath.
// It returns an error wrapping ErrFormatMismatch when the map is not of its
// format.
type Opener func(mapPath string, data []byte) (Archive, error)

// Openers are tried in order by Open.
var Openers = []Opener{
	func(mapPath string, data []byte) (Archive, error) {
		a, err := newLegacyArchive(mapPath, data, resource.SCI0)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	func(mapPath string, data []byte) (Archive, error) {
		a, err := newLookupArchive(mapPath, data)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
}

// Open reads the map at mapPath and hands it to each of Openers until one
// accepts it. Only a format mismatch moves on to the next opener; any other
// failure is returned as is.
func Open(mapPath string) (Archive, error) {
	data, err := readMap(mapPath)
	if err != nil {
		return nil, err
	}

	var mismatches []error
	for _, open := range Openers {
		a, err := open(mapPath, data)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, ErrFormatMismatch) {
			return nil, err
		}
		slog.Debug("sci: map rejected", "map", mapPath, "reason", err)
		mismatches = append(mismatches, err)
	}
	return nil, fmt.Errorf("%w: %s: no known map format: %w", ErrMalformedHeader, mapPath, errors.Join(mismatches...))
}

// OpenDir opens the first of DefaultMaps found in dir.
func OpenDir(dir string) (Archive, error) {
	for _, name := range DefaultMaps {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return Open(p)
	}
	return nil, fmt.Errorf("%w: no resource map in %s", ErrNotFound, dir)
}

// OpenSCI0 opens a legacy map with the SCI0 method table.
func OpenSCI0(mapPath string) (*LegacyArchive, error) {
	return openWith(mapPath, resource.SCI0)
}

// OpenSCI01 opens a legacy map with the SCI01 method table, which swaps
// LZW for the comp3 variant.
func OpenSCI01(mapPath string) (*LegacyArchive, error) {
	return openWith(mapPath, resource.SCI01)
}

// OpenSCI1 opens a lookup-table map. SCI1, SCI1.1 and SCI32 maps are told
// apart by their contents.
func OpenSCI1(mapPath string) (*LookupArchive, error) {
	data, err := readMap(mapPath)
	if err != nil {
		return nil, err
	}
	return newLookupArchive(mapPath, data)
}

func openWith(mapPath string, gen resource.Generation) (*LegacyArchive, error) {
	data, err := readMap(mapPath)
	if err != nil {
		return nil, err
	}
	return newLegacyArchive(mapPath, data, gen)
}

func readMap(mapPath string) ([]byte, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return data, nil
}

// index keeps map entries in map order. The first entry seen for a name
// wins.
type index struct {
	names   []string
	entries map[string]Location
}

func newIndex() index {
	return index{entries: make(map[string]Location)}
}

func (idx *index) add(name string, loc Location) {
	if _, ok := idx.entries[name]; ok {
		return
	}
	idx.names = append(idx.names, name)
	idx.entries[name] = loc
}

func (idx *index) Len() int { return len(idx.names) }

func (idx *index) Lookup(name string) (Location, bool) {
	loc, ok := idx.entries[name]
	return loc, ok
}

func (idx *index) Names(pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	var names []string
	for _, name := range idx.names {
		if ok, _ := path.Match(pattern, name); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (idx *index) locate(name string) (Location, error) {
	loc, ok := idx.entries[name]
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return loc, nil
}

// volumeName is the legacy volume naming: the map's stem with the volume
// number as extension.
func volumeName(mapPath string, volume uint8) string {
	base := filepath.Base(mapPath)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(filepath.Dir(mapPath), fmt.Sprintf("%s.%03d", stem, volume))
}
