package decompression

import (
	"bytes"

	"github.com/32bitkid/bitreader"
)

// LZW1 is the classic string-table LZW that SCI01 and SCI1 call "comp3".
// Codes are read high bit first.

type lzwToken struct {
	data uint8
	next uint16
}

func lzw1(src []byte, max int) ([]byte, error) {
	br := bitreader.NewReader(bytes.NewReader(src))
	out := make([]byte, 0, max)

	stack := make([]uint8, 0x1014)
	tokens := make([]lzwToken, 0x1014)

	const (
		DefaultEndToken     uint16 = 0x1ff
		DefaultCurrentToken uint16 = 0x102
		EndOfDataToken      uint16 = 0x101
		ResetToken          uint16 = 0x100
	)

	var (
		numBits      uint
		currentToken uint16
		endToken     uint16

		lastByte   uint8
		stackDepth int
		lastBits   uint16

		token uint16
		bits  uint16
		err   error
	)

	if max == 0 {
		return out, nil
	}

reset:
	numBits = 9
	currentToken = DefaultCurrentToken
	endToken = DefaultEndToken

	bits, err = br.Read16(numBits)
	if err != nil {
		return nil, corrupt("lzw1 stream truncated: %v", err)
	}
	if bits == EndOfDataToken {
		goto done
	}
	if bits > 0xff {
		return nil, corrupt("lzw1 token 0x%03x after reset", bits)
	}
	lastByte = uint8(bits & 0xff)
	out = append(out, lastByte)
	lastBits = bits
	if max == len(out) {
		goto done
	}

next:
	bits, err = br.Read16(numBits)
	if err != nil {
		return nil, corrupt("lzw1 stream truncated: %v", err)
	}

	if bits == EndOfDataToken {
		goto done
	}

	if bits == ResetToken {
		goto reset
	}

	token = bits
	if token > currentToken {
		return nil, corrupt("lzw1 token 0x%03x beyond dictionary size 0x%03x", token, currentToken)
	}
	if token == currentToken {
		token = lastBits
		stack[stackDepth] = lastByte
		stackDepth++
	}
	for (token > 0xff) && (token < 0x1004) {
		if stackDepth >= len(stack)-1 {
			return nil, corrupt("lzw1 string longer than %d bytes", len(stack))
		}
		stack[stackDepth] = tokens[token].data
		stackDepth++
		token = tokens[token].next
	}

	lastByte = uint8(token & 0xff)
	stack[stackDepth] = lastByte
	stackDepth++

	for stackDepth > 0 {
		stackDepth--
		out = append(out, stack[stackDepth])
		if max == len(out) {
			goto done
		}
	}

	if currentToken <= endToken {
		tokens[currentToken].data = lastByte
		tokens[currentToken].next = lastBits
		currentToken++
		if currentToken == endToken && numBits < 12 {
			numBits++
			endToken = (endToken << 1) + 1
		}
	}
	lastBits = bits
	goto next

done:
	if len(out) != max {
		return nil, corrupt("decompression error: expected %d bytes got %d bytes", max, len(out))
	}

	return out, nil
}
