// Package textutil holds the tokenization and similarity helpers shared by
// the scorer and the cross-referencer.
package textutil

import (
	"strings"
	"unicode"
)

// WordSet is a set of lowercased tokens.
type WordSet map[string]struct{}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "were": {}, "has": {}, "have": {}, "had": {}, "its": {},
	"into": {}, "over": {}, "after": {}, "about": {}, "will": {}, "would": {}, "could": {},
	"says": {}, "said": {}, "new": {}, "more": {}, "than": {}, "but": {}, "not": {},
	"how": {}, "why": {}, "what": {}, "who": {}, "when": {}, "amid": {}, "out": {},
	"you": {}, "your": {}, "our": {}, "their": {}, "his": {}, "her": {}, "they": {},
	"just": {}, "now": {}, "also": {}, "all": {}, "can": {}, "may": {}, "per": {},
}

// Normalize lowercases text and removes punctuation and symbols.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TitleWords returns the punctuation-stripped words longer than two characters.
func TitleWords(title string) WordSet {
	set := WordSet{}
	for _, w := range strings.Fields(Normalize(title)) {
		if len([]rune(w)) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

// SignificantWords is TitleWords without stop words.
func SignificantWords(title string) WordSet {
	set := TitleWords(title)
	for w := range set {
		if _, stop := stopWords[w]; stop {
			delete(set, w)
		}
	}
	return set
}

// Jaccard is |a∩b| / |a∪b|; two empty sets score zero.
func Jaccard(a, b WordSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

// Truncate cuts text to at most limit runes.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
