// Package crossref links articles and newsletters that discuss the same
// entities and measures how widely a story is covered.
package crossref

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// synonymGroups maps a canonical short form to its variants.
var synonymGroups = map[string][]string{
	"ai":     {"artificial intelligence", "machine learning", "llm", "large language model", "generative ai"},
	"ev":     {"electric vehicle", "electric vehicles", "evs"},
	"ipo":    {"initial public offering", "public listing"},
	"crypto": {"cryptocurrency", "bitcoin", "blockchain"},
	"fed":    {"federal reserve", "the fed"},
	"vc":     {"venture capital", "venture capitalist", "venture firm"},
	"m&a":    {"mergers and acquisitions", "merger", "acquisition"},
	"sec":    {"securities and exchange commission"},
	"ecb":    {"european central bank"},
	"saas":   {"software as a service"},
}

// synonyms indexes synonymGroups in both directions: a canonical form maps
// to its variants and each variant maps back to its canonical form. Two
// variants of the same canonical form are not synonyms of each other.
var synonyms = buildSynonymIndex(synonymGroups)

func buildSynonymIndex(groups map[string][]string) map[string]map[string]struct{} {
	index := map[string]map[string]struct{}{}
	link := func(a, b string) {
		if index[a] == nil {
			index[a] = map[string]struct{}{}
		}
		index[a][b] = struct{}{}
	}
	for canonical, variants := range groups {
		for _, v := range variants {
			link(canonical, v)
			link(v, canonical)
		}
	}
	return index
}

func normalizeEntity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EntitiesMatch reports whether two entity names denote the same thing,
// either literally or through the synonym table.
func EntitiesMatch(a, b string) bool {
	na, nb := normalizeEntity(a), normalizeEntity(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if _, ok := synonyms[na][nb]; ok {
		return true
	}
	_, ok := synonyms[nb][na]
	return ok
}

// mentions reports whether text (already lowercased) contains the entity
// name or one of its synonyms.
func mentions(lowerText, entity string) bool {
	name := normalizeEntity(entity)
	if name == "" {
		return false
	}
	if containsTerm(lowerText, name) {
		return true
	}
	for variant := range synonyms[name] {
		if containsTerm(lowerText, variant) {
			return true
		}
	}
	return false
}

// shortTermRunes is the length up to which a term must match a whole word;
// "ai" would otherwise match inside "said".
const shortTermRunes = 3

func containsTerm(text, term string) bool {
	if utf8.RuneCountInString(term) > shortTermRunes {
		return strings.Contains(text, term)
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if wordBoundaryBefore(text, start) && wordBoundaryAfter(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func wordBoundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
