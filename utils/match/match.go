// Package match provides title normalization and similarity scoring for
// comparing loosely-spelled media titles across TMDB and Plex.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes and drops combining marks so "Amélie" compares equal
// to "Amelie". Transformers carry state, so each caller gets a fresh chain.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize reduces a title to lowercase ASCII alphanumerics separated by
// single spaces. Diacritics are stripped, remaining non-ASCII characters are
// transliterated, and every run of other characters collapses to one space.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	if out, _, err := transform.String(stripMarks(), s); err == nil {
		s = out
	}
	s = unidecode.Unidecode(s)
	s = nonAlnumPattern.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(s)
}

// Similarity scores two titles in [0, 1] as a sequence-alignment ratio over
// their normalized forms: twice the total matched length over the combined
// length. Equal normalized strings score 1.0, disjoint strings 0.0.
func Similarity(a, b string) float64 {
	na := strings.Split(Normalize(a), "")
	nb := strings.Split(Normalize(b), "")
	return difflib.NewMatcher(na, nb).Ratio()
}
