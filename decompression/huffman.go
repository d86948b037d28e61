package decompression

import (
	"bytes"
	"encoding/binary"

	"github.com/32bitkid/bitreader"
)

// Huffman decoding

type huffmanNode struct {
	Value    uint8
	Siblings uint8
}

// escape marks a symbol that was read verbatim from the bitstream rather than
// found in a leaf. Only escaped symbols can match the terminator.
const escape uint16 = 0x100

type huffmanState struct {
	nodes []huffmanNode
	br    bitreader.BitReader
}

// next walks the tree from the root. A set bit follows the low nibble of the
// sibling byte, a clear bit the high nibble; a zero low nibble means a literal
// byte follows in the stream. A tree without nodes escapes every symbol.
func (h *huffmanState) next() (uint16, error) {
	if len(h.nodes) == 0 {
		return h.literal()
	}

	idx := 0
	for {
		if idx >= len(h.nodes) {
			return 0, corrupt("huffman node %d outside table of %d", idx, len(h.nodes))
		}
		node := h.nodes[idx]
		if node.Siblings == 0 {
			return uint16(node.Value), nil
		}

		bit, err := h.br.Read1()
		if err != nil {
			return 0, corrupt("huffman stream truncated: %v", err)
		}

		var next int
		if bit {
			next = int(node.Siblings & 0x0f)
			if next == 0 {
				return h.literal()
			}
		} else {
			next = int(node.Siblings & 0xf0 >> 4)
		}
		idx += next
	}
}

func (h *huffmanState) literal() (uint16, error) {
	literal, err := h.br.Read8(8)
	if err != nil {
		return 0, corrupt("huffman stream truncated: %v", err)
	}
	return escape | uint16(literal), nil
}

func huffman(src []byte, max int) ([]byte, error) {
	if len(src) < 2 {
		return nil, corrupt("huffman header truncated")
	}
	nodeCount, term := int(src[0]), src[1]

	r := bytes.NewReader(src[2:])
	nodes := make([]huffmanNode, nodeCount)
	if err := binary.Read(r, binary.LittleEndian, &nodes); err != nil {
		return nil, corrupt("huffman node table truncated: %v", err)
	}

	h := huffmanState{
		br:    bitreader.NewReader(r),
		nodes: nodes,
	}

	out := make([]byte, 0, max)
	for {
		c, err := h.next()
		if err != nil {
			return nil, err
		}
		if c == escape|uint16(term) {
			break
		}
		if len(out) == max {
			return nil, corrupt("huffman output exceeds %d bytes", max)
		}
		out = append(out, uint8(c))
	}

	if len(out) != max {
		return nil, corrupt("read aborted early. expected(%d) != actual(%d)", max, len(out))
	}
	return out, nil
}
