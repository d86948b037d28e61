package reorder

import "encoding/binary"

// packed view header
type viewHeader struct {
	CelLengths uint16 // offset of the cel length table, minus two
	Loops      uint8
	Unique     uint8 // loops that carry their own cel table
	Mirrored   uint16
	Unknown    uint16
	Palette    uint16
	Cels       uint16
}

const viewHeaderSize = 12

// View rebuilds a method 3 view in place of a buffer the size of src:
//
//	u8 loops, u8 0x80, u16 mirror mask, u16 unknown, u16 palette offset
//	u16 loop pointers[loops]
//	per unique loop: u16 cels, u16 0, u16 cel pointers[cels],
//	    then per cel: cel header[6], u16 clear key, rle
//	"PAL", identity map[256], u32 0, palette[1024]   if a palette is present
//
// A loop whose bit is set in the mirror mask gets no table of its own and
// points at the most recent unique loop instead.
func View(src []byte) ([]byte, error) {
	if len(src) < viewHeaderSize {
		return nil, corrupt("view header truncated")
	}
	h := viewHeader{
		CelLengths: binary.LittleEndian.Uint16(src[0:]),
		Loops:      src[2],
		Unique:     src[3],
		Mirrored:   binary.LittleEndian.Uint16(src[4:]),
		Unknown:    binary.LittleEndian.Uint16(src[6:]),
		Palette:    binary.LittleEndian.Uint16(src[8:]),
		Cels:       binary.LittleEndian.Uint16(src[10:]),
	}
	s := viewHeaderSize

	celLengths := int(h.CelLengths) + 2
	table, err := span(src, celLengths, 2*int(h.Cels))
	if err != nil {
		return nil, err
	}
	lengths := make([]int, h.Cels)
	for i := range lengths {
		lengths[i] = int(binary.LittleEndian.Uint16(table[2*i:]))
	}

	celCounts, err := span(src, s, int(h.Unique))
	if err != nil {
		return nil, err
	}
	s += int(h.Unique)

	l := &layout{dst: make([]byte, len(src))}
	l.put8(0, h.Loops)
	l.put8(1, viewHeaderColors8Bit)
	l.put16(2, int(h.Mirrored))
	l.put16(4, int(h.Unknown))
	l.put16(6, int(h.Palette))

	loopPtr := 8
	w := loopPtr + 2*int(h.Loops)
	celPos := make([]int, h.Cels)
	lastLoop := -1
	celIndex, unique := 0, 0

	for loop := 0; loop < int(h.Loops); loop++ {
		if loop < 16 && h.Mirrored&(1<<uint(loop)) != 0 {
			if lastLoop < 0 {
				return nil, corrupt("loop %d mirrors before any loop is defined", loop)
			}
			l.put16(loopPtr, lastLoop)
			loopPtr += 2
			continue
		}

		if unique >= len(celCounts) {
			return nil, corrupt("loop %d has no cel count", loop)
		}
		count := int(celCounts[unique])
		unique++
		if celIndex+count > len(celPos) {
			return nil, corrupt("loop %d needs %d cels, only %d declared", loop, celIndex+count, len(celPos))
		}

		lastLoop = w
		l.put16(loopPtr, w)
		loopPtr += 2
		l.put16(w, count)
		l.put16(w+2, 0)
		w += 4

		celHeader := w + 2*count
		for c := 0; c < count; c++ {
			l.put16(w, celHeader)
			w += 2
			celPos[celIndex+c] = celHeader
			celHeader += 8 + lengths[celIndex+c]
		}

		for c := 0; c < count; c++ {
			geometry, err := span(src, s, 7)
			if err != nil {
				return nil, err
			}
			s += 7
			l.copy(w, geometry[:6])
			l.put16(w+6, int(geometry[6]))
			w += 8 + lengths[celIndex]
			celIndex++
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	if celIndex != len(celPos) {
		return nil, corrupt("loops place %d of %d cels", celIndex, len(celPos))
	}

	rle := celLengths + 2*int(h.Cels)
	pix := rle
	for c := range lengths {
		if pix > len(src) {
			return nil, corrupt("rle stream overruns view")
		}
		n, err := controlLength(src[pix:], lengths[c])
		if err != nil {
			return nil, err
		}
		pix += n
	}

	for c, length := range lengths {
		cel := l.slice(celPos[c]+8, length)
		if l.err != nil {
			return nil, l.err
		}
		if rle > len(src) || pix > len(src) {
			return nil, corrupt("rle stream overruns view")
		}
		nc, np, err := interleave(cel, src[rle:], src[pix:])
		if err != nil {
			return nil, err
		}
		rle += nc
		pix += np
	}

	if h.Palette != 0 {
		palette, err := span(src, s, paletteBytes)
		if err != nil {
			return nil, err
		}
		l.copy(w, []byte("PAL"))
		w += 3
		if m := l.slice(w, colorCount); m != nil {
			identity(m)
		}
		w += colorCount
		l.copy(w, []byte{0, 0, 0, 0})
		w += 4
		l.copy(w, palette)
		w += paletteBytes
	}
	if l.err != nil {
		return nil, l.err
	}

	return l.dst, nil
}
