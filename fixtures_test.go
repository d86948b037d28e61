package sci

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/32bitkid/scires/resource"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func pack(t *testing.T, fields ...interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, f := range fields {
		if err := binary.Write(&buf, binary.LittleEndian, f); err != nil {
			t.Fatalf("pack: %v", err)
		}
	}
	return buf.Bytes()
}

func sci0Map(t *testing.T, entries ...legacyEntry) []byte {
	var out []byte
	for _, e := range entries {
		out = append(out, pack(t, e)...)
	}
	return append(out, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
}

func sci0Resource(t *testing.T, id resource.RID, method uint16, packed []byte, unpacked int) []byte {
	h := sci0Header{
		ID:       id,
		Packed:   uint16(len(packed) + 4),
		Unpacked: uint16(unpacked),
		Method:   method,
	}
	return append(pack(t, h), packed...)
}

// sci1Resource builds a 9-byte header resource. SCI1 counts four header
// bytes in the packed size, SCI1.1 does not.
func sci1Resource(t *testing.T, typ resource.Type, n uint16, method uint16, packed []byte, unpacked int, countsHeader bool) []byte {
	size := len(packed)
	if countsHeader {
		size += 4
	}
	h := sci1Header{
		Type:     0x80 | uint8(typ),
		Number:   n,
		Packed:   uint16(size),
		Unpacked: uint16(unpacked),
		Method:   method,
	}
	return append(pack(t, h), packed...)
}

type lookupSpan struct {
	typ     uint8
	entries []byte
}

func lookupMap(spans ...lookupSpan) []byte {
	offset := 3 * (len(spans) + 1)
	var table, body []byte
	for _, s := range spans {
		table = append(table, s.typ, uint8(offset), uint8(offset>>8))
		body = append(body, s.entries...)
		offset += len(s.entries)
	}
	table = append(table, 0xff, uint8(offset), uint8(offset>>8))
	return append(table, body...)
}

func sci1Entry(n uint16, volume uint8, offset uint32) []byte {
	e := binary.LittleEndian.AppendUint16(nil, n)
	return binary.LittleEndian.AppendUint32(e, uint32(volume)<<28|offset)
}

func sci11Entry(n uint16, offset uint32) []byte {
	e := binary.LittleEndian.AppendUint16(nil, n)
	e = binary.LittleEndian.AppendUint16(e, uint16(offset>>1))
	return append(e, uint8(offset>>17))
}

// huffmanAB is a method 2 (SCI0) stream decoding to "ab".
var huffmanAB = []byte{
	4, 0x00,
	0x00, 0x12, 'a', 0x00, 0x00, 0x10, 'b', 0x00,
	0x58, 0x00,
}

// dclAI is the blast.c sample stream; it decodes to 13 bytes.
var dclAI = []byte{0x00, 0x04, 0x82, 0x24, 0x25, 0x8f, 0x80, 0x7f}

// literalsLZW1 encodes src as 9-bit comp3 literals, with a reset code
// every 200 literals so the code width never grows.
func literalsLZW1(src []byte) []byte {
	var out []byte
	var n uint
	put := func(code uint16) {
		for i := 8; i >= 0; i-- {
			if n%8 == 0 {
				out = append(out, 0)
			}
			if code&(1<<uint(i)) != 0 {
				out[len(out)-1] |= 0x80 >> (n % 8)
			}
			n++
		}
	}
	for i, b := range src {
		if i > 0 && i%200 == 0 {
			put(0x100)
		}
		put(uint16(b))
	}
	return out
}

// packedPic is a method 4 picture before reordering: a palette, no drawing
// ops before the embedded view, and a 2x1 cel. It rebuilds into
// packedPicSize bytes and is padded to that size, as the volume stores it.
const packedPicSize = 1286 + 15 + 3 + 1

var packedPic = func() []byte {
	src := []byte{
		3, 0, // rle size
		0x06, 0x05, // view at 1286
		2, 0, // pixels
		0x02, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	}
	for i := 0; i < 1024; i++ {
		src = append(src, uint8(i))
	}
	src = append(src, 0xff, 0x0a, 0x0b, 0x02)
	return append(src, make([]byte, packedPicSize-len(src))...)
}()

// packedView is a method 3 view before reordering: two loops, the second
// mirroring the first.
var packedView = append([]byte{
	25, 0, 2, 1, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 2, 0,
	2,
	0x02, 0x00, 0x02, 0x00, 0x00, 0x00, 0xff,
	0x04, 0x00, 0x01, 0x00, 0x01, 0x02, 0x05,
	5, 0, 3, 0,
	0x04, 0x83, 0xc1,
	1, 2, 3, 4, 9,
}, make([]byte, 5)...)
