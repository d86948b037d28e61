package decompression

import (
	"bytes"

	"github.com/32bitkid/bitreader"
)

// STACpack/LZS, used by SCI32 volumes for method 32. Each item starts with a
// flag bit: 0 is an 8-bit literal, 1 is a back-reference with a 7-bit (flag 1)
// or 11-bit (flag 0) offset followed by a variable length code. A 7-bit
// offset of zero ends the stream.

type lzsState struct {
	br bitreader.BitReader
}

func (s *lzsState) read(n uint) (int, error) {
	v, err := s.br.Read16(n)
	if err != nil {
		return 0, corrupt("lzs stream truncated: %v", err)
	}
	return int(v), nil
}

func (s *lzsState) length() (int, error) {
	code, err := s.read(2)
	if err != nil {
		return 0, err
	}
	if code < 3 {
		return code + 2, nil
	}

	code, err = s.read(2)
	if err != nil {
		return 0, err
	}
	if code < 3 {
		return code + 5, nil
	}

	length := 8
	for {
		nibble, err := s.read(4)
		if err != nil {
			return 0, err
		}
		length += nibble
		if nibble != 0xf {
			return length, nil
		}
	}
}

func lzs(src []byte, max int) ([]byte, error) {
	s := lzsState{br: bitreader.NewReader(bytes.NewReader(src))}
	out := make([]byte, 0, max)

	for len(out) < max {
		flag, err := s.read(1)
		if err != nil {
			return nil, err
		}

		if flag == 0 {
			b, err := s.read(8)
			if err != nil {
				return nil, err
			}
			out = append(out, uint8(b))
			continue
		}

		short, err := s.read(1)
		if err != nil {
			return nil, err
		}
		var offset int
		if short == 1 {
			offset, err = s.read(7)
			if err != nil {
				return nil, err
			}
			if offset == 0 {
				break
			}
		} else {
			offset, err = s.read(11)
			if err != nil {
				return nil, err
			}
		}

		length, err := s.length()
		if err != nil {
			return nil, err
		}
		if offset == 0 || offset > len(out) {
			return nil, corrupt("lzs offset %d outside %d bytes of output", offset, len(out))
		}
		if len(out)+length > max {
			return nil, corrupt("lzs output exceeds %d bytes", max)
		}
		from := len(out) - offset
		for i := 0; i < length; i++ {
			out = append(out, out[from+i])
		}
	}

	if len(out) != max {
		return nil, corrupt("lzs produced %d bytes, expected %d", len(out), max)
	}
	return out, nil
}
