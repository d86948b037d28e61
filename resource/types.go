package resource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownResourceType is returned when a type ordinal or type name has no
	// entry in the table of the active generation.
	ErrUnknownResourceType = errors.New("unknown resource type")

	// ErrInvalidName is returned by ParseName for strings that are not of the
	// form the generation renders.
	ErrInvalidName = errors.New("invalid resource name")
)

type Type uint8

const (
	TypeView Type = iota
	TypePic
	TypeScript
	TypeText
	TypeSound
	TypeMemory
	TypeVocab
	TypeFont
	TypeCursor
	TypePatch
	TypeBitmap
	TypePalette
	TypeCDAudio
	TypeAudio
	TypeSync
	TypeMessage
	TypeMap
	TypeHeap

	// SCI32 only
	TypeAudio36
	TypeSync36
	TypeTranslation
	TypeRobot
	TypeVMD
	TypeChunk
	TypeDuck
	TypeClut
	TypeTGA
	TypeZZZ
)

func (t Type) String() string {
	switch t {
	case TypeView:
		return "Type(View)"
	case TypePic:
		return "Type(Pic)"
	case TypeScript:
		return "Type(Script)"
	case TypeText:
		return "Type(Text)"
	case TypeSound:
		return "Type(Sound)"
	case TypeMemory:
		return "Type(Memory)"
	case TypeVocab:
		return "Type(Vocab)"
	case TypeFont:
		return "Type(Font)"
	case TypeCursor:
		return "Type(Cursor)"
	case TypePatch:
		return "Type(Patch)"
	case TypeBitmap:
		return "Type(Bitmap)"
	case TypePalette:
		return "Type(Palette)"
	case TypeCDAudio:
		return "Type(CDAudio)"
	case TypeAudio:
		return "Type(Audio)"
	case TypeSync:
		return "Type(Sync)"
	case TypeMessage:
		return "Type(Message)"
	case TypeMap:
		return "Type(Map)"
	case TypeHeap:
		return "Type(Heap)"
	case TypeAudio36:
		return "Type(Audio36)"
	case TypeSync36:
		return "Type(Sync36)"
	case TypeTranslation:
		return "Type(Translation)"
	case TypeRobot:
		return "Type(Robot)"
	case TypeVMD:
		return "Type(VMD)"
	case TypeChunk:
		return "Type(Chunk)"
	case TypeDuck:
		return "Type(Duck)"
	case TypeClut:
		return "Type(Clut)"
	case TypeTGA:
		return "Type(TGA)"
	case TypeZZZ:
		return "Type(ZZZ)"
	}
	return "Type(UNKNOWN)"
}

// Generation selects the type table and the canonical rendering of names.
type Generation uint8

const (
	SCI0 Generation = iota
	SCI01
	SCI1
	SCI11
	SCI32
)

func (g Generation) String() string {
	switch g {
	case SCI0:
		return "SCI0"
	case SCI01:
		return "SCI01"
	case SCI1:
		return "SCI1"
	case SCI11:
		return "SCI1.1"
	case SCI32:
		return "SCI32"
	}
	return "Generation(UNKNOWN)"
}

var legacyNames = [...]string{
	TypeView:    "view",
	TypePic:     "pic",
	TypeScript:  "script",
	TypeText:    "text",
	TypeSound:   "sound",
	TypeMemory:  "memory",
	TypeVocab:   "vocab",
	TypeFont:    "font",
	TypeCursor:  "cursor",
	TypePatch:   "patch",
	TypeBitmap:  "bitmap",
	TypePalette: "palette",
	TypeCDAudio: "cda",
	TypeAudio:   "audio",
	TypeSync:    "syn",
	TypeMessage: "message",
	TypeMap:     "map",
	TypeHeap:    "heap",
}

var sci1Names = [...]string{
	TypeView:    "v56",
	TypePic:     "p56",
	TypeScript:  "scr",
	TypeText:    "tex",
	TypeSound:   "snd",
	TypeMemory:  "mem",
	TypeVocab:   "voc",
	TypeFont:    "fon",
	TypeCursor:  "cur",
	TypePatch:   "pat",
	TypeBitmap:  "bit",
	TypePalette: "pal",
	TypeCDAudio: "cda",
	TypeAudio:   "aud",
	TypeSync:    "syn",
	TypeMessage: "msg",
	TypeMap:     "map",
	TypeHeap:    "hep",
}

// sci32Names shares ordinals 0-17 with sci1Names but renames a few of them.
// Ordinal 23 (chunk) has no file extension.
var sci32Names = [...]string{
	TypeView:        "v56",
	TypePic:         "p56",
	TypeScript:      "scr",
	TypeText:        "tex",
	TypeSound:       "snd",
	TypeMemory:      "etc",
	TypeVocab:       "voc",
	TypeFont:        "fon",
	TypeCursor:      "cur",
	TypePatch:       "pat",
	TypeBitmap:      "bmp",
	TypePalette:     "pal",
	TypeCDAudio:     "au2",
	TypeAudio:       "aud",
	TypeSync:        "syn",
	TypeMessage:     "msg",
	TypeMap:         "map",
	TypeHeap:        "hep",
	TypeAudio36:     "a36",
	TypeSync36:      "s36",
	TypeTranslation: "trn",
	TypeRobot:       "rbt",
	TypeVMD:         "vmd",
	TypeDuck:        "duk",
	TypeClut:        "clu",
	TypeTGA:         "tga",
	TypeZZZ:         "zzz",
}

func table(gen Generation) []string {
	switch gen {
	case SCI0, SCI01:
		return legacyNames[:]
	case SCI32:
		return sci32Names[:]
	default:
		return sci1Names[:]
	}
}

// Label returns the short name of t in the table of gen.
func (t Type) Label(gen Generation) (string, error) {
	names := table(gen)
	if int(t) >= len(names) || names[t] == "" {
		return "", fmt.Errorf("%w: %d (%s)", ErrUnknownResourceType, uint8(t), gen)
	}
	return names[t], nil
}

// Name renders the canonical name of a resource. SCI0 archives use
// "<type>.<number>" with a zero padded number, later generations use
// "<number>.<ext>".
func Name(gen Generation, t Type, n Number) (string, error) {
	label, err := t.Label(gen)
	if err != nil {
		return "", err
	}
	switch gen {
	case SCI0, SCI01:
		return fmt.Sprintf("%s.%03d", label, n), nil
	default:
		return fmt.Sprintf("%d.%s", n, label), nil
	}
}

// ParseName is the inverse of Name.
func ParseName(gen Generation, name string) (Type, Number, error) {
	head, tail, ok := strings.Cut(name, ".")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	label, num := head, tail
	if gen != SCI0 && gen != SCI01 {
		label, num = tail, head
	}

	n, err := strconv.ParseUint(num, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}

	for i, l := range table(gen) {
		if l != "" && strings.EqualFold(l, label) {
			return Type(i), Number(n), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q (%s)", ErrUnknownResourceType, label, gen)
}
