// utils/normalize.go
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes accented characters and drops the combining marks,
// so "salvadoreña" becomes "salvadorena".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText lowercases the input, removes diacritics and strips every
// character outside [a-z0-9 ].
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(stripAccents, text); err == nil {
		text = stripped
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// abbreviation is one known shorthand and its canonical form. Expansion order
// matters: both sides of a comparison must be rewritten identically, so the
// table is a slice, not a map.
type abbreviation struct {
	short, full string
}

var abbreviations = []abbreviation{
	{"rdr2", "red dead redemption 2"},
	{"cod", "call of duty"},
	{"zelda", "the legend of zelda"},
	{"gta", "grand theft auto"},
	{"ff", "final fantasy"},
	{"re", "resident evil"},
	{"mk", "mortal kombat"},
}

// ExpandAbbreviations rewrites the first occurrence of each known shorthand
// to its canonical form. Input is expected to be normalized already.
func ExpandAbbreviations(text string) string {
	for _, a := range abbreviations {
		if strings.Contains(text, a.short) {
			text = strings.Replace(text, a.short, a.full, 1)
		}
	}
	return text
}
