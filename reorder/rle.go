package reorder

// Cel RLE control bytes:
//
//	0xxxxxxx  copy the next x pixel bytes
//	10xxxxxx  repeat the next pixel byte x times
//	11xxxxxx  skip x pixels (transparent)
//
// The packed layout stores the control bytes and the pixel bytes in two
// streams. interleave merges them back into the engine's single stream.

// interleave fills dst from the control and pixel streams and reports how
// many bytes of each it consumed.
func interleave(dst, controls, pixels []byte) (int, int, error) {
	pos, c, p := 0, 0, 0
	for pos < len(dst) {
		if c >= len(controls) {
			return 0, 0, corrupt("rle control stream ends after %d bytes", c)
		}
		b := controls[c]
		c++
		dst[pos] = b
		pos++

		switch b & 0xc0 {
		case 0x00, 0x40:
			n := int(b)
			if pos+n > len(dst) {
				return 0, 0, corrupt("rle copy of %d overruns %d byte cel", n, len(dst))
			}
			if p+n > len(pixels) {
				return 0, 0, corrupt("rle pixel stream ends after %d bytes", p)
			}
			copy(dst[pos:], pixels[p:p+n])
			pos += n
			p += n
		case 0x80:
			if pos >= len(dst) {
				return 0, 0, corrupt("rle run overruns %d byte cel", len(dst))
			}
			if p >= len(pixels) {
				return 0, 0, corrupt("rle pixel stream ends after %d bytes", p)
			}
			dst[pos] = pixels[p]
			pos++
			p++
		}
	}
	return c, p, nil
}

// controlLength probes how many control bytes produce a size byte cel
// without materialising it.
func controlLength(controls []byte, size int) (int, error) {
	pos, c := 0, 0
	for pos < size {
		if c >= len(controls) {
			return 0, corrupt("rle control stream ends after %d bytes", c)
		}
		b := controls[c]
		c++
		pos++

		switch b & 0xc0 {
		case 0x00, 0x40:
			pos += int(b)
		case 0x80:
			pos++
		}
	}
	return c, nil
}
