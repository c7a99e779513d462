package constant

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// NormalizeText prepares a String/Keyword literal's text for pooling.
// Text produced by internal/parser is always valid UTF-8 (its lexer
// decodes the source into runes, turning invalid bytes into U+FFFD), so
// this fallback only applies to text passed to String/Keyword directly.
// Text that isn't valid UTF-8 is decoded the same way internal/reader
// decodes a legacy Windows-1252 NK/VK name, byte by byte, rather than
// rejected.
func NormalizeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}
