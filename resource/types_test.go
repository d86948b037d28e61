package resource

import (
	"errors"
	"testing"
)

func TestName(t *testing.T) {
	for _, tCase := range []struct {
		gen  Generation
		t    Type
		n    Number
		want string
	}{
		{SCI0, TypeView, 16, "view.016"},
		{SCI0, TypeScript, 999, "script.999"},
		{SCI01, TypeSound, 1, "sound.001"},
		{SCI1, TypeScript, 1, "1.scr"},
		{SCI1, TypeView, 5, "5.v56"},
		{SCI11, TypeHeap, 12, "12.hep"},
		{SCI1, TypeBitmap, 2, "2.bit"},
		{SCI32, TypeBitmap, 2, "2.bmp"},
		{SCI32, TypeMemory, 0, "0.etc"},
		{SCI32, TypeAudio36, 100, "100.a36"},
		{SCI32, TypeZZZ, 3, "3.zzz"},
	} {
		name, err := Name(tCase.gen, tCase.t, tCase.n)
		if err != nil {
			t.Fatalf("%s %s %d: %v", tCase.gen, tCase.t, tCase.n, err)
		}
		if name != tCase.want {
			t.Errorf("%s %s %d: expected %q, got %q", tCase.gen, tCase.t, tCase.n, tCase.want, name)
		}

		pt, pn, err := ParseName(tCase.gen, name)
		if err != nil {
			t.Fatalf("%s %q: %v", tCase.gen, name, err)
		}
		if pt != tCase.t || pn != tCase.n {
			t.Errorf("%s %q: expected %s %d, got %s %d", tCase.gen, name, tCase.t, tCase.n, pt, pn)
		}
	}
}

func TestNameUnknownType(t *testing.T) {
	for _, tCase := range []struct {
		gen Generation
		t   Type
	}{
		{SCI0, TypeAudio36},
		{SCI1, Type(31)},
		{SCI32, TypeChunk},
		{SCI32, Type(28)},
	} {
		if _, err := Name(tCase.gen, tCase.t, 1); !errors.Is(err, ErrUnknownResourceType) {
			t.Errorf("%s %d: expected ErrUnknownResourceType, got %v", tCase.gen, tCase.t, err)
		}
	}
}

func TestParseName(t *testing.T) {
	if typ, n, err := ParseName(SCI1, "10.SCR"); err != nil || typ != TypeScript || n != 10 {
		t.Fatalf("expected a case insensitive match, got %s %d %v", typ, n, err)
	}

	for _, tCase := range []struct {
		gen  Generation
		name string
		want error
	}{
		{SCI0, "view", ErrInvalidName},
		{SCI0, "view.x", ErrInvalidName},
		{SCI0, "view.70000", ErrInvalidName},
		{SCI0, "v56.1", ErrUnknownResourceType},
		{SCI1, "1.view", ErrUnknownResourceType},
		{SCI1, "1.a36", ErrUnknownResourceType},
	} {
		if _, _, err := ParseName(tCase.gen, tCase.name); !errors.Is(err, tCase.want) {
			t.Errorf("%s %q: expected %v, got %v", tCase.gen, tCase.name, tCase.want, err)
		}
	}
}
