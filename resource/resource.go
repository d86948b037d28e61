package resource

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedResource is returned by the content decoders for bodies that
// do not hold what their type promises.
var ErrMalformedResource = errors.New("malformed resource")

type Number uint16

// RID is the packed identifier used by SCI0 maps and volume headers: the
// type in the top 5 bits and the number in the low 11.
type RID uint16

const InvalidRID = RID(0xFFFF)

func NewRID(t Type, n Number) RID {
	return RID(uint16(t)<<11 | uint16(n)&0x7FF)
}

func (id RID) Type() Type     { return Type(id >> 11) }
func (id RID) Number() Number { return Number(id & ((1 << 11) - 1)) }

// Tag is the 2-byte type header that prefixes fetched payloads and patch
// files: the type ordinal with the high bit set.
func Tag(t Type) uint16 {
	return 0x80 | uint16(t)
}

// Payload splits a fetched resource or patch file into its type and body.
// SCI1.1 patch headers, flagged by 0x8000 in the tag, are skipped as well.
func Payload(b []byte) (Type, []byte, error) {
	if len(b) < 2 {
		return 0, nil, fmt.Errorf("%w: %d bytes is too short for a type tag", ErrMalformedResource, len(b))
	}
	tag := binary.LittleEndian.Uint16(b)
	if tag&0x80 == 0 {
		return 0, nil, fmt.Errorf("%w: tag 0x%04x", ErrMalformedResource, tag)
	}
	t := Type(tag & 0x7f)
	body := b[2:]

	if tag&0x8000 != 0 {
		skip := 2
		if t == TypeView || t == TypePic {
			skip += 22
		}
		if len(body) < skip {
			return 0, nil, fmt.Errorf("%w: patch header truncated", ErrMalformedResource)
		}
		body = body[skip:]
	}
	return t, body, nil
}
