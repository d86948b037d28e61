package decompression

// PKWARE Data Compression Library "implode" streams, used by SCI1.1 for
// methods 18-20. The layout follows Mark Adler's blast.c: two header bytes
// (literal coding, dictionary bits) then a low-bit-first stream of literals
// and length/distance pairs ending with length code 519.

const dclMaxBits = 13

type dclHuffman struct {
	count  [dclMaxBits + 1]int16
	symbol []int16
}

// newDCLHuffman expands the compact code-length table: each byte holds a
// length in the low nibble and a repeat count minus one in the high nibble.
func newDCLHuffman(rep []uint8) *dclHuffman {
	var lengths []uint8
	for _, r := range rep {
		for n := int(r>>4) + 1; n > 0; n-- {
			lengths = append(lengths, r&0x0f)
		}
	}

	h := &dclHuffman{symbol: make([]int16, len(lengths))}
	for _, l := range lengths {
		h.count[l]++
	}

	var offs [dclMaxBits + 1]int16
	for l := 1; l < dclMaxBits; l++ {
		offs[l+1] = offs[l] + h.count[l]
	}
	for sym, l := range lengths {
		if l != 0 {
			h.symbol[offs[l]] = int16(sym)
			offs[l]++
		}
	}
	return h
}

// decode reads one symbol. Codes are stored bit-inverted.
func (h *dclHuffman) decode(c *lsbCursor) (int, error) {
	code, first, index := 0, 0, 0
	for l := 1; l <= dclMaxBits; l++ {
		bit, err := c.bits(1)
		if err != nil {
			return 0, err
		}
		code |= int(bit) ^ 1
		count := int(h.count[l])
		if code < first+count {
			return int(h.symbol[index+(code-first)]), nil
		}
		index += count
		first += count
		first <<= 1
		code <<= 1
	}
	return 0, corrupt("dcl code longer than %d bits", dclMaxBits)
}

var (
	dclLitCode = newDCLHuffman([]uint8{
		11, 124, 8, 7, 28, 7, 188, 13, 76, 4, 10, 8, 12, 10, 12, 10, 8, 23, 8,
		9, 7, 6, 7, 8, 7, 6, 55, 8, 23, 24, 12, 11, 7, 9, 11, 12, 6, 7, 22, 5,
		7, 24, 6, 11, 9, 6, 7, 22, 7, 11, 38, 7, 9, 8, 25, 11, 8, 11, 9, 12,
		8, 12, 5, 38, 5, 38, 5, 11, 7, 5, 6, 21, 6, 10, 53, 8, 7, 24, 10, 27,
		44, 253, 253, 253, 252, 252, 252, 13, 12, 45, 12, 45, 12, 61, 12, 45,
		44, 173,
	})
	dclLenCode  = newDCLHuffman([]uint8{2, 35, 36, 53, 38, 23})
	dclDistCode = newDCLHuffman([]uint8{2, 20, 53, 230, 247, 151, 248})

	dclLenBase  = [16]int{3, 2, 4, 5, 6, 7, 8, 9, 10, 12, 16, 24, 40, 72, 136, 264}
	dclLenExtra = [16]uint{0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8}
)

const dclEndLength = 519

func dcl(src []byte, max int) ([]byte, error) {
	c := newLSBCursor(src)

	lit, err := c.bits(8)
	if err != nil {
		return nil, err
	}
	if lit > 1 {
		return nil, corrupt("dcl literal mode %d", lit)
	}
	dict, err := c.bits(8)
	if err != nil {
		return nil, err
	}
	if dict < 4 || dict > 6 {
		return nil, corrupt("dcl dictionary size %d", dict)
	}

	out := make([]byte, 0, max)
	for len(out) < max {
		flag, err := c.bits(1)
		if err != nil {
			return nil, err
		}

		if flag == 0 {
			var sym int
			if lit == 1 {
				sym, err = dclLitCode.decode(c)
			} else {
				var b uint32
				b, err = c.bits(8)
				sym = int(b)
			}
			if err != nil {
				return nil, err
			}
			out = append(out, uint8(sym))
			continue
		}

		sym, err := dclLenCode.decode(c)
		if err != nil {
			return nil, err
		}
		extra, err := c.bits(dclLenExtra[sym])
		if err != nil {
			return nil, err
		}
		length := dclLenBase[sym] + int(extra)
		if length == dclEndLength {
			break
		}

		shift := uint(dict)
		if length == 2 {
			shift = 2
		}
		hi, err := dclDistCode.decode(c)
		if err != nil {
			return nil, err
		}
		lo, err := c.bits(shift)
		if err != nil {
			return nil, err
		}
		dist := hi<<shift + int(lo) + 1
		if dist > len(out) {
			return nil, corrupt("dcl distance %d before start of output", dist)
		}
		if len(out)+length > max {
			return nil, corrupt("dcl output exceeds %d bytes", max)
		}
		from := len(out) - dist
		for i := 0; i < length; i++ {
			out = append(out, out[from+i])
		}
	}

	if len(out) != max {
		return nil, corrupt("dcl produced %d bytes, expected %d", len(out), max)
	}
	return out, nil
}
