package decompression

// lsbCursor reads a byte slice as a little-endian bitstream, low bit first.
// github.com/32bitkid/bitreader only reads high bit first, which suits the
// Huffman, LZW1 and LZS streams but not SCI0 LZW or DCL.
type lsbCursor struct {
	src []byte
	pos int
	buf uint32
	cnt uint
}

func newLSBCursor(src []byte) *lsbCursor {
	return &lsbCursor{src: src}
}

// available is the number of unread bits.
func (c *lsbCursor) available() int {
	return (len(c.src)-c.pos)*8 + int(c.cnt)
}

func (c *lsbCursor) bits(n uint) (uint32, error) {
	for c.cnt < n {
		if c.pos >= len(c.src) {
			return 0, corrupt("read %d bits past end of input", n)
		}
		c.buf |= uint32(c.src[c.pos]) << c.cnt
		c.pos++
		c.cnt += 8
	}
	v := c.buf & (1<<n - 1)
	c.buf >>= n
	c.cnt -= n
	return v, nil
}
