package decompression

import (
	"errors"
	"testing"
)

func lzw1Stream(tokens ...uint16) []byte {
	var w msbWriter
	for _, tok := range tokens {
		w.write(uint32(tok), 9)
	}
	return w.out
}

func TestLZW1(t *testing.T) {
	for _, tCase := range []struct {
		name   string
		tokens []uint16
		want   string
	}{
		{"literals", []uint16{'a', 'b', 'c', 0x101}, "abc"},
		{"repeat last string", []uint16{'a', 0x102, 0x101}, "aaa"},
		{"string table", []uint16{'a', 'b', 0x102, 0x101}, "abab"},
		{"reset", []uint16{'a', 'b', 0x100, 'c', 0x101}, "abc"},
	} {
		t.Run(tCase.name, func(t *testing.T) {
			src := lzw1Stream(tCase.tokens...)
			out, err := DecompressLZW1(src, len(src), len(tCase.want))
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tCase.want {
				t.Fatalf("expected %q, got %q", tCase.want, out)
			}
		})
	}
}

func TestLZW1StopsAtDeclaredSize(t *testing.T) {
	src := lzw1Stream('a', 'b', 'c', 'd')

	out, err := DecompressLZW1(src, len(src), 3)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "abc" {
		t.Fatalf("expected %q, got %q", "abc", out)
	}
}

func TestLZW1Errors(t *testing.T) {
	for _, tCase := range []struct {
		name   string
		tokens []uint16
		size   int
	}{
		{"token beyond table", []uint16{'a', 0x110, 0x101}, 3},
		{"early end", []uint16{'a', 0x101}, 3},
		{"truncated", []uint16{'a', 'b'}, 10},
	} {
		t.Run(tCase.name, func(t *testing.T) {
			src := lzw1Stream(tCase.tokens...)
			_, err := DecompressLZW1(src, len(src), tCase.size)
			if !errors.Is(err, ErrCorruptStream) {
				t.Fatalf("expected ErrCorruptStream, got %v", err)
			}
		})
	}
}
