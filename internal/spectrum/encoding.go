package spectrum

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is one candidate text encoding tried by the parser
type Encoding struct {
	Name   string
	decode func(data []byte) (string, error)
}

// Decode converts raw bytes to text, failing when the bytes are not valid in this encoding
func (e Encoding) Decode(data []byte) (string, error) {
	return e.decode(data)
}

var encodingRegistry = map[string]Encoding{
	"utf-8": {
		Name: "utf-8",
		decode: func(data []byte) (string, error) {
			if !utf8.Valid(data) {
				return "", fmt.Errorf("invalid utf-8 byte sequence")
			}
			// UTF8BOM strips a leading byte order mark if present
			return decodeWith(unicode.UTF8BOM, data)
		},
	},
	"utf-16": {
		Name: "utf-16",
		decode: func(data []byte) (string, error) {
			// Only accepted with a BOM; BOM-less UTF-16 is indistinguishable from binary
			return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		},
	},
	"latin-1": {
		Name: "latin-1",
		decode: func(data []byte) (string, error) {
			return decodeCharmap(charmap.ISO8859_1, data)
		},
	},
	"windows-1252": {
		Name: "windows-1252",
		decode: func(data []byte) (string, error) {
			return decodeCharmap(charmap.Windows1252, data)
		},
	},
}

// DefaultEncodings is the candidate order used when none is configured
var DefaultEncodings = []string{"utf-8", "latin-1", "windows-1252"}

// LookupEncoding returns a registered encoding by name. "ansi" is an alias of windows-1252.
func LookupEncoding(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "ansi", "cp1252":
		key = "windows-1252"
	case "iso-8859-1", "latin1":
		key = "latin-1"
	case "utf8":
		key = "utf-8"
	case "utf16":
		key = "utf-16"
	}
	enc, ok := encodingRegistry[key]
	if !ok {
		return Encoding{}, fmt.Errorf("unknown encoding: %s", name)
	}
	return enc, nil
}

// ListEncodings returns the registered encoding names
func ListEncodings() []string {
	names := make([]string, 0, len(encodingRegistry))
	for name := range encodingRegistry {
		names = append(names, name)
	}
	return names
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeCharmap rejects bytes the code page leaves undefined; the decoder maps them to U+FFFD
func decodeCharmap(cm *charmap.Charmap, data []byte) (string, error) {
	text, err := decodeWith(cm, data)
	if err != nil {
		return "", err
	}
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", fmt.Errorf("byte undefined in %s", cm.String())
	}
	return text, nil
}
