package counts

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and drops combining marks, so
// "Endereço" and "ENDERECO" canonicalize to the same token.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// canonicalHeader normalizes a column header case-, accent- and
// space-insensitively. Header names are reported, never validated: the first
// four columns always map positionally to store key, operator, address and
// barcode.
func canonicalHeader(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' || r == '_' || r == '-' {
			return -1
		}
		return r
	}, folded)
}
