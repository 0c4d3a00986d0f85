package crossref

import (
	"strings"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/textutil"
)

const (
	coverageSimilarity     = 0.30
	coverageSharedEntities = 2
)

// FindCoverageDensity counts the other articles in the same topic that tell
// the same story, by significant title words or by shared key entities.
// Count includes the article itself; Sources lists the matching outlets.
func FindCoverageDensity(article domain.Article, articles []domain.Article) domain.Coverage {
	words := textutil.SignificantWords(article.Title)
	entities := entitySet(article.EntityNames())

	coverage := domain.Coverage{Count: 1, Sources: []string{}}
	seenSources := map[string]struct{}{}

	for _, peer := range articles {
		if peer.ID == article.ID || peer.Topic != article.Topic {
			continue
		}
		similar := textutil.Jaccard(words, textutil.SignificantWords(peer.Title)) >= coverageSimilarity
		if !similar && sharedCount(entities, peer.EntityNames()) < coverageSharedEntities {
			continue
		}

		coverage.Count++
		source := strings.TrimSpace(peer.Source)
		if source == "" {
			continue
		}
		if _, dup := seenSources[source]; !dup {
			seenSources[source] = struct{}{}
			coverage.Sources = append(coverage.Sources, source)
		}
	}
	return coverage
}

func entitySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[normalizeEntity(n)] = struct{}{}
	}
	return set
}

func sharedCount(set map[string]struct{}, names []string) int {
	shared := 0
	counted := map[string]struct{}{}
	for _, n := range names {
		key := normalizeEntity(n)
		if _, dup := counted[key]; dup {
			continue
		}
		counted[key] = struct{}{}
		if _, ok := set[key]; ok {
			shared++
		}
	}
	return shared
}
