// Package normalize builds canonical search keys from user-entered text.
//
// The same folding is applied when books are written (to compute the shadow
// search fields) and when a search filter is parsed, so both sides always
// live in the same normalized space.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes to NFD and drops combining marks, so "é" becomes "e".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the canonical search key for s: accents stripped, uppercased,
// all whitespace removed. It is pure and idempotent.
func Fold(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		// Remove never fails on valid UTF-8; fall back to the input so a
		// malformed string still folds case and whitespace.
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
