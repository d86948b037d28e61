// Package reorder rebuilds SCI1 view and picture resources stored with
// methods 3 and 4. Those resources are decompressed into a packed layout that
// keeps cel headers, RLE control bytes and pixel bytes in separate blocks;
// the engine expects them interleaved, with pointer tables in front.
//
// Both transforms are one-way: running them on their own output does not
// return the packed form.
package reorder

import (
	"encoding/binary"
	"fmt"

	"github.com/32bitkid/scires/decompression"
)

const (
	picOpOPX           = 0xfe
	picOpxEmbeddedView = 0x01
	picOpxSetPalette   = 0x02

	// bytes between the start of an embedded view op and its RLE data
	extraMagicSize = 15
	// palette-set op + identity map + placeholder + 256 colors, minus the op
	palSize = 1284

	viewHeaderColors8Bit = 0x80

	colorCount   = 256
	paletteBytes = 4 * colorCount
)

func corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", decompression.ErrCorruptStream, fmt.Sprintf(format, args...))
}

// layout writes into a fixed-size destination and remembers the first write
// that would fall outside it.
type layout struct {
	dst []byte
	err error
}

func (l *layout) fits(off, n int) bool {
	if l.err != nil {
		return false
	}
	if off < 0 || n < 0 || off+n > len(l.dst) {
		l.err = corrupt("write of %d bytes at %d exceeds %d byte resource", n, off, len(l.dst))
		return false
	}
	return true
}

func (l *layout) put8(off int, v uint8) {
	if l.fits(off, 1) {
		l.dst[off] = v
	}
}

func (l *layout) put16(off int, v int) {
	if v < 0 || v > 0xffff {
		if l.err == nil {
			l.err = corrupt("value %d does not fit a 16-bit field", v)
		}
		return
	}
	if l.fits(off, 2) {
		binary.LittleEndian.PutUint16(l.dst[off:], uint16(v))
	}
}

func (l *layout) copy(off int, src []byte) {
	if l.fits(off, len(src)) {
		copy(l.dst[off:], src)
	}
}

// slice returns dst[off:off+n], or nil after recording an error.
func (l *layout) slice(off, n int) []byte {
	if !l.fits(off, n) {
		return nil
	}
	return l.dst[off : off+n]
}

// span returns src[off:off+n] or an error if the source is too short.
func span(src []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(src) {
		return nil, corrupt("read of %d bytes at %d exceeds %d byte source", n, off, len(src))
	}
	return src[off : off+n], nil
}

func identity(b []byte) {
	for i := range b {
		b[i] = uint8(i)
	}
}
