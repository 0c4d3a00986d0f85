package crossref

import (
	"sort"
	"strings"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/textutil"
)

// MaxRelated caps the related items returned for one piece of content.
const MaxRelated = 4

const (
	relatedKeywordMinRunes   = 4
	highlightKeywordMinRunes = 5
	highlightKeywordLimit    = 5
	entityMatchWeight        = 2
)

// FindRelatedForArticle ranks other articles by matching entity pairs and
// newsletters by how many of the article's entities their summaries mention.
func FindRelatedForArticle(source domain.Article, articles []domain.Article, newsletters []domain.Newsletter) []domain.RelatedItem {
	names := source.EntityNames()
	if len(names) == 0 {
		return []domain.RelatedItem{}
	}

	var candidates []domain.RelatedItem
	for _, a := range articles {
		if a.ID == source.ID {
			continue
		}
		if score := countEntityPairs(names, a.EntityNames()); score > 0 {
			candidates = append(candidates, articleItem(a, score))
		}
	}
	for _, n := range newsletters {
		if score := countMentioned(names, n.Summary); score > 0 {
			candidates = append(candidates, newsletterItem(n, score))
		}
	}

	return topRelated(candidates)
}

// FindRelatedForNewsletter ranks articles by entity matches at double
// weight, falling back to subject keywords found inside article entity names,
// and ranks other newsletters by entity mentions in their summaries.
func FindRelatedForNewsletter(source domain.Newsletter, articles []domain.Article, newsletters []domain.Newsletter) []domain.RelatedItem {
	names := source.EntityNames()
	keywords := subjectKeywords(source.Subject, relatedKeywordMinRunes, 0)

	var candidates []domain.RelatedItem
	for _, a := range articles {
		articleNames := a.EntityNames()
		score := countEntityPairs(names, articleNames) * entityMatchWeight
		if score == 0 {
			score = countKeywordHits(keywords, articleNames)
		}
		if score > 0 {
			candidates = append(candidates, articleItem(a, score))
		}
	}
	for _, n := range newsletters {
		if n.ID == source.ID {
			continue
		}
		if score := countMentioned(names, n.Summary); score > 0 {
			candidates = append(candidates, newsletterItem(n, score))
		}
	}

	return topRelated(candidates)
}

// FindMatchingArticleIDs returns, in input order, the articles sharing an
// entity with the newsletter. Without structured entities the first subject
// words longer than four characters are matched against entity names.
func FindMatchingArticleIDs(source domain.Newsletter, articles []domain.Article) []string {
	names := source.EntityNames()
	var keywords []string
	if len(names) == 0 {
		keywords = subjectKeywords(source.Subject, highlightKeywordMinRunes, highlightKeywordLimit)
	}

	ids := []string{}
	for _, a := range articles {
		articleNames := a.EntityNames()
		if len(names) > 0 && countEntityPairs(names, articleNames) > 0 {
			ids = append(ids, a.ID)
			continue
		}
		if len(keywords) > 0 && countKeywordHits(keywords, articleNames) > 0 {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func countEntityPairs(left, right []string) int {
	count := 0
	for _, l := range left {
		for _, r := range right {
			if EntitiesMatch(l, r) {
				count++
			}
		}
	}
	return count
}

// countMentioned counts each entity at most once per summary.
func countMentioned(names []string, summary *domain.Summary) int {
	text := strings.ToLower(summary.Text())
	if text == "" {
		return 0
	}
	seen := map[string]struct{}{}
	count := 0
	for _, name := range names {
		key := normalizeEntity(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if mentions(text, name) {
			count++
		}
	}
	return count
}

func countKeywordHits(keywords, entityNames []string) int {
	count := 0
	for _, kw := range keywords {
		for _, name := range entityNames {
			if strings.Contains(normalizeEntity(name), kw) {
				count++
				break
			}
		}
	}
	return count
}

// subjectKeywords returns distinct lowercased subject words of at least
// minRunes characters; limit <= 0 keeps all of them.
func subjectKeywords(subject string, minRunes, limit int) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, w := range strings.Fields(textutil.Normalize(subject)) {
		if len([]rune(w)) < minRunes {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func articleItem(a domain.Article, score int) domain.RelatedItem {
	kind := domain.RelatedArticle
	if a.IsPrimaryDocument {
		kind = domain.RelatedPrimaryDocument
	}
	return domain.RelatedItem{Type: kind, ID: a.ID, Source: a.Source, Title: a.Title, SourceURL: a.URL, Score: score}
}

func newsletterItem(n domain.Newsletter, score int) domain.RelatedItem {
	return domain.RelatedItem{Type: domain.RelatedNewsletter, ID: n.ID, Source: n.Publication, Title: n.Subject, SourceURL: n.URL, Score: score}
}

func topRelated(candidates []domain.RelatedItem) []domain.RelatedItem {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > MaxRelated {
		candidates = candidates[:MaxRelated]
	}
	if candidates == nil {
		return []domain.RelatedItem{}
	}
	return candidates
}
