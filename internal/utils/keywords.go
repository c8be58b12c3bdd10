package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeywordGroup maps a canonical value to the keywords that select it
type KeywordGroup struct {
	Canonical string
	Keywords  []string
}

// Fold lowercases s and strips diacritics, so "Hôtel à Dubaï" becomes "hotel a dubai"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Words splits the folded text into letter/digit tokens
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Text is a message prepared for repeated keyword lookups
type Text struct {
	joined string // " word word word "
}

// NewText folds and tokenizes s once
func NewText(s string) Text {
	return Text{joined: " " + strings.Join(Words(s), " ") + " "}
}

// Has reports whether keyword (one or more words) appears as whole words,
// accepting a trailing plural "s" or "x" on the last word.
func (t Text) Has(keyword string) bool {
	kw := strings.Join(Words(keyword), " ")
	if kw == "" {
		return false
	}
	for _, variant := range []string{kw, kw + "s", kw + "x"} {
		if strings.Contains(t.joined, " "+variant+" ") {
			return true
		}
	}
	return false
}

// HasAny reports whether any keyword appears
func (t Text) HasAny(keywords ...string) bool {
	for _, kw := range keywords {
		if t.Has(kw) {
			return true
		}
	}
	return false
}

// MatchFirst returns the canonical value of the first group, in slice order,
// that has a keyword present in the text.
func (t Text) MatchFirst(groups []KeywordGroup) (string, bool) {
	for _, g := range groups {
		if t.HasAny(g.Keywords...) {
			return g.Canonical, true
		}
	}
	return "", false
}

// MatchAll returns the canonical values of every matching group, without duplicates
func (t Text) MatchAll(groups []KeywordGroup) []string {
	matched := []string{}
	seen := make(map[string]bool)
	for _, g := range groups {
		if seen[g.Canonical] || !t.HasAny(g.Keywords...) {
			continue
		}
		seen[g.Canonical] = true
		matched = append(matched, g.Canonical)
	}
	return matched
}
