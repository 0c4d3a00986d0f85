package scoring

import (
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/textutil"
)

// reportIndex finds same-story siblings through an inverted index of title
// words, so only articles sharing at least one word are compared.
type reportIndex struct {
	words     []textutil.WordSet
	published []time.Time
	postings  map[string][]int
}

func newReportIndex(articles []domain.Article) *reportIndex {
	idx := &reportIndex{
		words:     make([]textutil.WordSet, len(articles)),
		published: make([]time.Time, len(articles)),
		postings:  map[string][]int{},
	}
	for i, a := range articles {
		idx.words[i] = textutil.TitleWords(a.Title)
		idx.published[i] = a.PublishedAt
		for w := range idx.words[i] {
			idx.postings[w] = append(idx.postings[w], i)
		}
	}
	return idx
}

// isFirst reports whether no similar article was published strictly earlier.
// Undated siblings are ignored; an undated article is first only when no
// similar article has a known publish time.
func (x *reportIndex) isFirst(i int) bool {
	undated := x.published[i].IsZero()
	seen := map[int]struct{}{i: {}}
	for w := range x.words[i] {
		for _, j := range x.postings[w] {
			if _, ok := seen[j]; ok {
				continue
			}
			seen[j] = struct{}{}
			if textutil.Jaccard(x.words[i], x.words[j]) < FirstReportSimilarity {
				continue
			}
			if x.published[j].IsZero() {
				continue
			}
			if undated || x.published[j].Before(x.published[i]) {
				return false
			}
		}
	}
	return true
}
