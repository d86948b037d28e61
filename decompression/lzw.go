package decompression

// SCI0 LZW. Codes are read low bit first. Instead of storing strings, every
// dictionary slot records where its string starts in the output and how long
// it was, and a reference copies that span plus one more byte.

const (
	lzwResetToken uint16 = 0x100
	lzwEndToken   uint16 = 0x101
	lzwFirstSlot  uint16 = 0x102
	lzwMaxSlots          = 0x1000
)

type lzwSlot struct {
	start  int
	length int
}

type lzwState struct {
	numBits uint
	next    uint16
	limit   uint16
}

func (s *lzwState) reset() {
	s.numBits = 9
	s.next = lzwFirstSlot
	s.limit = 0x200
}

// lzw returns fewer than size bytes only when the stream carries an explicit
// end token before the output is full.
func lzw(src []byte, size int) ([]byte, error) {
	cur := newLSBCursor(src)
	out := make([]byte, 0, size)
	slots := make([]lzwSlot, lzwMaxSlots)

	var state lzwState
	state.reset()

	for cur.available() >= int(state.numBits) {
		bits, err := cur.bits(state.numBits)
		if err != nil {
			return nil, err
		}
		token := uint16(bits)

		switch {
		case token == lzwEndToken:
			return out, nil
		case token == lzwResetToken:
			state.reset()
			continue
		}

		emitted := 1
		if token > 0xff {
			if token >= state.next {
				return nil, corrupt("lzw token 0x%03x beyond dictionary size 0x%03x", token, state.next)
			}
			slot := slots[token]
			emitted = slot.length + 1
			if len(out)+emitted > size {
				return nil, corrupt("lzw output exceeds %d bytes", size)
			}
			// source and destination may overlap, copy byte by byte
			for i := 0; i < emitted; i++ {
				out = append(out, out[slot.start+i])
			}
		} else {
			if len(out) >= size {
				return nil, corrupt("lzw output exceeds %d bytes", size)
			}
			out = append(out, uint8(token))
		}

		if state.next == state.limit {
			if state.numBits == 12 {
				continue
			}
			state.numBits++
			state.limit <<= 1
		}

		slots[state.next] = lzwSlot{start: len(out) - emitted, length: emitted}
		state.next++
	}

	if len(out) != size {
		return nil, corrupt("lzw produced %d bytes, expected %d", len(out), size)
	}
	return out, nil
}
