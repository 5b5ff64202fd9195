package library

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// DisplayablePath converts a raw filesystem path to valid, NFC-normalized UTF-8.
// Paths that are not UTF-8 are assumed to be in a legacy single-byte encoding
// (Windows-1252); if that fails invalid bytes are replaced with U+FFFD. It never fails.
func DisplayablePath(p string) string {
	if utf8.ValidString(p) {
		return norm.NFC.String(p)
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(p)
	if err == nil && utf8.ValidString(decoded) {
		return norm.NFC.String(decoded)
	}
	return strings.ToValidUTF8(p, "�")
}
