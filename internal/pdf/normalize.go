package pdf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies compatibility decomposition (NFKD) and removes every rune
// that has no Windows-1252 encoding. Combining marks left by the
// decomposition are removed as a result, so "João" becomes "Joao".
func Normalize(text string) string {
	decomposed := norm.NFKD.String(text)

	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
