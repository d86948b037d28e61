package resource

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/text/encoding/charmap"
)

type Text []string

// NewText splits a text resource into its NUL terminated strings. Strings
// are stored in code page 437.
func NewText(b []byte) (Text, error) {
	var text Text
	dec := charmap.CodePage437.NewDecoder()

	reader := bufio.NewReader(bytes.NewReader(b))
	for {
		str, err := reader.ReadString(0x00)
		if err == io.EOF {
			// an unterminated tail is still a string
			if str == "" {
				break
			}
		} else if err != nil {
			return nil, err
		} else {
			str = str[:len(str)-1]
		}

		decoded, derr := dec.String(str)
		if derr != nil {
			return nil, derr
		}
		text = append(text, decoded)

		if err == io.EOF {
			break
		}
	}

	return text, nil
}
