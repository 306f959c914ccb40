package segment

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// invisible runes that are not whitespace.
var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
	"\u00ad", "", // soft hyphen
)

// Normalize drops invisible characters and collapses runs of whitespace to
// single spaces. The text is otherwise kept as written.
func Normalize(s string) string {
	s = invisible.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// matchForm is the NFKC form a fragment's cues are matched against, so that
// "1.º" or full-width digits read like their plain counterparts. It is never
// stored.
func matchForm(s string) string {
	return norm.NFKC.String(s)
}
