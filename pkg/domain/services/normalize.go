package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into a base letter plus a combining mark
var foldReplacements = map[rune]string{
	'ı': "i",
	'ß': "ss",
	'æ': "ae",
	'ø': "o",
	'œ': "oe",
	'đ': "d",
	'ł': "l",
}

// NormalizeLabel folds a free-text item label so that spellings of the same
// item compare equal: "  Crème  Brûlée " and "creme brulee" both become
// "creme brulee".
func NormalizeLabel(label string) string {
	lowered := strings.ToLower(label)

	var b strings.Builder
	for _, r := range lowered {
		if repl, ok := foldReplacements[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, b.String())
	if err != nil {
		stripped = b.String()
	}

	return strings.Join(strings.Fields(stripped), " ")
}
