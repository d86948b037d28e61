package reorder

import "encoding/binary"

// Pic rebuilds a method 4 picture into size bytes:
//
//	fe 02, identity map[256], u32 0, palette[1024]   set-palette op
//	...                                              drawing ops before the view
//	fe 01 00 00 00 u16, cel header[7], 00, rle       embedded view op
//	...                                              remaining drawing ops
//
// The packed source starts with the embedded view's RLE size, its offset in
// the output and its pixel count, then the cel header, the palette, the
// drawing ops, the view's pixel bytes and finally its RLE control bytes.
func Pic(src []byte, size int) ([]byte, error) {
	if len(src) < 6+7 {
		return nil, corrupt("picture header truncated")
	}

	l := &layout{dst: make([]byte, size)}
	l.put8(0, picOpOPX)
	l.put8(1, picOpxSetPalette)
	if m := l.slice(2, colorCount); m != nil {
		identity(m)
	}
	l.copy(2+colorCount, []byte{0, 0, 0, 0})
	w := 2 + colorCount + 4

	viewSize := int(binary.LittleEndian.Uint16(src[0:]))
	viewStart := int(binary.LittleEndian.Uint16(src[2:]))
	dataSize := int(binary.LittleEndian.Uint16(src[4:]))
	viewData := src[6:13]
	s := 13

	palette, err := span(src, s, paletteBytes)
	if err != nil {
		return nil, err
	}
	l.copy(w, palette)
	w += paletteBytes
	s += paletteBytes

	if viewStart != palSize+2 {
		n := viewStart - (palSize + 2)
		if n < 0 {
			return nil, corrupt("embedded view at %d overlaps the palette", viewStart)
		}
		ops, err := span(src, s, n)
		if err != nil {
			return nil, err
		}
		l.copy(w, ops)
		s += n
	}

	extra := viewStart + extraMagicSize + viewSize
	if extra > size {
		return nil, corrupt("embedded view ends at %d past %d byte picture", extra, size)
	}
	if size != extra {
		ops, err := span(src, s, size-extra)
		if err != nil {
			return nil, err
		}
		l.copy(extra, ops)
		s += size - extra
	}

	pixels, err := span(src, s, dataSize)
	if err != nil {
		return nil, err
	}
	s += dataSize

	l.put8(viewStart, picOpOPX)
	l.put8(viewStart+1, picOpxEmbeddedView)
	l.copy(viewStart+2, []byte{0, 0, 0})
	l.put16(viewStart+5, viewSize+8)
	l.copy(viewStart+7, viewData)
	l.put8(viewStart+14, 0)
	cel := l.slice(viewStart+extraMagicSize, viewSize)
	if l.err != nil {
		return nil, l.err
	}

	if _, _, err := interleave(cel, src[s:], pixels); err != nil {
		return nil, err
	}
	return l.dst, nil
}
