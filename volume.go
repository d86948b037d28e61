package sci

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/32bitkid/scires/decompression"
	"github.com/32bitkid/scires/resource"
)

// SCI0 volume format:   {u16 id, u16 packed+4, u16 unpacked, u16 method}
// SCI1 volume format:   {u8 type, u16 number, u16 packed+4, u16 unpacked, u16 method}
// SCI1.1 volume format: {u8 type, u16 number, u16 packed, u16 unpacked, u16 method}
// SCI32 volume format:  {u8 type, u16 number, u32 packed, u32 unpacked, u16 method}

type sci0Header struct {
	ID       resource.RID
	Packed   uint16
	Unpacked uint16
	Method   uint16
}

type sci1Header struct {
	Type     uint8
	Number   uint16
	Packed   uint16
	Unpacked uint16
	Method   uint16
}

type sci32Header struct {
	Type     uint8
	Number   uint16
	Packed   uint32
	Unpacked uint32
	Method   uint16
}

type headerReader func(r io.Reader) (Header, error)

func readHeader(r io.Reader, h interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: volume header truncated", ErrMalformedHeader)
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func readSCI0Header(r io.Reader) (Header, error) {
	var h sci0Header
	if err := readHeader(r, &h); err != nil {
		return Header{}, err
	}
	if h.Packed < 4 {
		return Header{}, fmt.Errorf("%w: packed size %d is below the 4 header bytes it counts", ErrMalformedHeader, h.Packed)
	}
	return Header{
		Type:             h.ID.Type(),
		Number:           h.ID.Number(),
		CompressedSize:   int(h.Packed) - 4,
		DecompressedSize: int(h.Unpacked),
		Method:           decompression.Method(h.Method),
	}, nil
}

// sci1HeaderReader reads 9-byte headers. SCI1 counts four header bytes in
// the packed size, SCI1.1 does not.
func sci1HeaderReader(countsHeader bool) headerReader {
	return func(r io.Reader) (Header, error) {
		var h sci1Header
		if err := readHeader(r, &h); err != nil {
			return Header{}, err
		}
		if h.Type < 0x80 {
			return Header{}, fmt.Errorf("%w: type byte 0x%02x lacks the high bit", ErrMalformedHeader, h.Type)
		}
		packed := int(h.Packed)
		if countsHeader {
			if packed < 4 {
				return Header{}, fmt.Errorf("%w: packed size %d is below the 4 header bytes it counts", ErrMalformedHeader, packed)
			}
			packed -= 4
		}
		return Header{
			Type:             resource.Type(h.Type - 0x80),
			Number:           resource.Number(h.Number),
			CompressedSize:   packed,
			DecompressedSize: int(h.Unpacked),
			Method:           decompression.Method(h.Method),
		}, nil
	}
}

func readSCI32Header(r io.Reader) (Header, error) {
	var h sci32Header
	if err := readHeader(r, &h); err != nil {
		return Header{}, err
	}
	return Header{
		Type:             resource.Type(h.Type),
		Number:           resource.Number(h.Number),
		CompressedSize:   int(h.Packed),
		DecompressedSize: int(h.Unpacked),
		Method:           decompression.Method(h.Method),
	}, nil
}

// openVolume opens the volume file and positions it at offset. The caller
// closes the file.
func openVolume(volume string, offset uint32) (*os.File, error) {
	f, err := os.Open(volume)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return f, nil
}

func statVolume(volume string, loc Location, read headerReader) (Header, error) {
	f, err := openVolume(volume, loc.Offset)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	h, err := read(f)
	if err != nil {
		return Header{}, err
	}
	if err := checkIdentity(h, loc); err != nil {
		return Header{}, err
	}
	return h, nil
}

// readVolume reads the header at loc and the packed bytes behind it. A
// volume that ends early yields fewer than CompressedSize bytes; the
// decompressor reports that as a corrupt stream.
func readVolume(volume string, loc Location, read headerReader) (Header, []byte, error) {
	f, err := openVolume(volume, loc.Offset)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()

	h, err := read(f)
	if err != nil {
		return Header{}, nil, err
	}
	if err := checkIdentity(h, loc); err != nil {
		return Header{}, nil, err
	}

	packed, err := io.ReadAll(io.LimitReader(f, int64(h.CompressedSize)))
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return h, packed, nil
}

func checkIdentity(h Header, loc Location) error {
	if h.Type != loc.Type || h.Number != loc.Number {
		return fmt.Errorf("%w: volume holds %s %d where the map expects %s %d",
			ErrMalformedHeader, h.Type, h.Number, loc.Type, loc.Number)
	}
	return nil
}

func tag(t resource.Type) []byte {
	return binary.LittleEndian.AppendUint16(nil, resource.Tag(t))
}
