package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/logging"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

var (
	testNow    = time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)
	errBackend = errors.New("backend down")
)

func fixedClock() time.Time { return testNow }

var quietLogger = logging.Discard()

type fakeArticleStore struct {
	mu         sync.Mutex
	articles   []domain.Article
	queries    []ports.ArticleQuery
	updates    map[string]int
	failIDs    map[string]bool
	listErr    error
	summaryErr error
}

var _ ports.ArticleStore = (*fakeArticleStore)(nil)

func newFakeArticleStore(articles ...domain.Article) *fakeArticleStore {
	return &fakeArticleStore{articles: articles, updates: map[string]int{}, failIDs: map[string]bool{}}
}

func (f *fakeArticleStore) ListArticles(_ context.Context, q ports.ArticleQuery) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if q.WithSummary && f.summaryErr != nil {
		return nil, f.summaryErr
	}

	ids := map[string]bool{}
	for _, id := range q.IDs {
		ids[id] = true
	}

	var out []domain.Article
	for _, a := range f.articles {
		if !q.PublishedSince.IsZero() && a.PublishedAt.Before(q.PublishedSince) {
			continue
		}
		if q.MinScoreExclusive != nil && (a.RankingScore == nil || *a.RankingScore <= *q.MinScoreExclusive) {
			continue
		}
		if len(ids) > 0 && !ids[a.ID] {
			continue
		}
		if !q.WithSummary {
			a.Summary = nil
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.OrderBy == ports.OrderScoreDesc {
			return scoreOf(out[i]) > scoreOf(out[j])
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeArticleStore) UpdateRankingScore(_ context.Context, id string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIDs[id] {
		return errBackend
	}
	f.updates[id] = score
	return nil
}

func scoreOf(a domain.Article) int {
	if a.RankingScore == nil {
		return -1 << 31
	}
	return *a.RankingScore
}

type fakePreferences struct {
	prefs    domain.TopicPreferences
	vips     []string
	prefsErr error
}

func (f fakePreferences) TopicPreferences(context.Context) (domain.TopicPreferences, error) {
	return f.prefs, f.prefsErr
}

func (f fakePreferences) VIPPublications(context.Context) ([]string, error) {
	return f.vips, nil
}

type fakeEngagement domain.EngagementScores

func (f fakeEngagement) TopicEngagement(context.Context) (domain.EngagementScores, error) {
	return domain.EngagementScores(f), nil
}

type fakeSummaries []domain.Newsletter

func (f fakeSummaries) ListNewsletters(context.Context, time.Time, int) ([]domain.Newsletter, error) {
	return f, nil
}

func scored(id, url string, topic domain.Topic, score int, age time.Duration) domain.Article {
	s := score
	return domain.Article{
		ID:           id,
		Title:        "Story " + id,
		URL:          url,
		Topic:        topic,
		RankingScore: &s,
		PublishedAt:  testNow.Add(-age),
	}
}
