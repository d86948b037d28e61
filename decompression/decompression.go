// Package decompression implements the compression methods found in SCI
// resource volumes. Every method is a pure function from a compressed byte
// slice to a freshly allocated decompressed slice.
package decompression

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptStream reports a bitstream that cannot be decoded: bad tokens,
	// impossible tree navigation, truncated input or wrong output length.
	ErrCorruptStream = errors.New("corrupt compressed stream")

	// ErrSizeMismatch reports a stored resource whose packed and unpacked
	// sizes disagree.
	ErrSizeMismatch = errors.New("compressed and decompressed sizes differ")

	// ErrUnsupportedMethod reports a method code with no entry in the active
	// table.
	ErrUnsupportedMethod = errors.New("unsupported compression method")
)

type Method uint16

// Decompressor decodes src, which holds exactly compressedSize bytes.
type Decompressor = func(src []byte, compressedSize, decompressedSize int) ([]byte, error)

type LUT map[Method]Decompressor

// Decompress dispatches to the decompressor registered for m.
func (lut LUT) Decompress(m Method, src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	fn, ok := lut[m]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, m)
	}
	if compressedSize < 0 || len(src) < compressedSize {
		return nil, fmt.Errorf("%w: have %d of %d packed bytes", ErrCorruptStream, len(src), compressedSize)
	}
	return fn(src[:compressedSize], compressedSize, decompressedSize)
}

func corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptStream, fmt.Sprintf(format, args...))
}

func DecompressNone(src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	if compressedSize != decompressedSize {
		return nil, fmt.Errorf("%w: packed %d, unpacked %d", ErrSizeMismatch, compressedSize, decompressedSize)
	}
	dst := make([]byte, decompressedSize)
	copy(dst, src)
	return dst, nil
}

func DecompressLZW(src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	return lzw(src, decompressedSize)
}

func DecompressHuffman(src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	return huffman(src, decompressedSize)
}

func DecompressLZW1(src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	return lzw1(src, decompressedSize)
}

func DecompressDCL(src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	return dcl(src, decompressedSize)
}

func DecompressLZS(src []byte, compressedSize, decompressedSize int) ([]byte, error) {
	return lzs(src, decompressedSize)
}

var sci1 = LUT{
	0:  DecompressNone,
	1:  DecompressHuffman,
	2:  DecompressLZW1,
	3:  DecompressLZW1,
	4:  DecompressLZW1,
	18: DecompressDCL,
	19: DecompressDCL,
	20: DecompressDCL,
}

var Decompressors = struct {
	SCI0  LUT
	SCI01 LUT
	SCI1  LUT
	SCI11 LUT
	SCI32 LUT
}{
	SCI0: LUT{
		0: DecompressNone,
		1: DecompressLZW,
		2: DecompressHuffman,
	},
	SCI01: LUT{
		0: DecompressNone,
		1: DecompressHuffman,
		2: DecompressLZW1,
	},
	SCI1:  sci1,
	SCI11: sci1,
	SCI32: LUT{
		0:  DecompressNone,
		32: DecompressLZS,
	},
}
