package tabular

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectAndDecode detects the encoding of data, strips any BOM and returns the
// UTF-8 bytes along with the name of the detected encoding.
// Bytes that are neither BOM-marked nor valid UTF-8 are read as Windows-1252,
// the usual encoding of spreadsheet exports on Spanish-locale desktops.
func DetectAndDecode(data []byte) ([]byte, string, error) {
	switch {
	case len(data) == 0:
		return data, "utf-8", nil
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), "utf-16le")
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder(), "utf-16be")
	case utf8.Valid(data):
		return data, "utf-8", nil
	default:
		return decodeWith(data, charmap.Windows1252.NewDecoder(), "windows-1252")
	}
}

func decodeWith(data []byte, t transform.Transformer, name string) ([]byte, string, error) {
	decoded, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, "", fmt.Errorf("%s decode failed: %w", name, err)
	}
	return decoded, name, nil
}
