package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

func articleIDs(articles []domain.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func sameOrder(t *testing.T, got []domain.Article, want ...string) {
	t.Helper()

	ids := articleIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func topStoriesPool() *fakeArticleStore {
	return newFakeArticleStore(
		scored("a90", "https://www.a.com/1", domain.TopicPolitics, 90, time.Hour),
		scored("a80", "https://feeds.a.com/2", domain.TopicGeopolitics, 80, time.Hour),
		scored("a70", "https://a.com/3", domain.TopicAutomotive, 70, time.Hour),
		scored("b60", "https://b.com/1", domain.TopicScienceTech, 60, time.Hour),
		scored("c50", "https://c.com/1", domain.TopicFinancialMarkets, 50, time.Hour),
		scored("d40", "https://d.com/1", domain.TopicLocalNews, 40, time.Hour),
		scored("zero", "https://e.com/1", domain.TopicVCStartups, 0, time.Hour),
		scored("old", "https://f.com/1", domain.TopicVCStartups, 99, 30*time.Hour),
	)
}

func TestTopStoriesCapsPublications(t *testing.T) {
	t.Parallel()

	store := topStoriesPool()
	uc := NewTopStories(TopStoriesDeps{Articles: store, Logger: quietLogger, Now: fixedClock})

	sameOrder(t, uc.Get(context.Background(), TopStoriesOptions{}), "a90", "a80", "b60", "c50", "d40")

	q := store.queries[0]
	if q.Limit != 25 || q.OrderBy != ports.OrderScoreDesc || !q.WithSummary {
		t.Fatalf("unexpected pool query %+v", q)
	}
	if q.MinScoreExclusive == nil || *q.MinScoreExclusive != 0 {
		t.Fatalf("pool should be restricted to positive scores")
	}
	if !q.PublishedSince.Equal(testNow.Add(-24 * time.Hour)) {
		t.Fatalf("unexpected window start %v", q.PublishedSince)
	}
}

func TestTopStoriesUsesConfiguredDefaults(t *testing.T) {
	t.Parallel()

	store := topStoriesPool()
	uc := NewTopStories(TopStoriesDeps{
		Articles: store,
		Defaults: TopStoriesOptions{Count: 3, MaxPerPublication: 1, HoursBack: 48},
		Logger:   quietLogger,
		Now:      fixedClock,
	})

	sameOrder(t, uc.Get(context.Background(), TopStoriesOptions{}), "old", "a90", "b60")
	sameOrder(t, uc.Get(context.Background(), TopStoriesOptions{Count: 2, HoursBack: 24}), "a90", "b60")
}

func TestTopStoriesFallsBackWithoutSummaries(t *testing.T) {
	t.Parallel()

	store := topStoriesPool()
	store.summaryErr = errBackend
	uc := NewTopStories(TopStoriesDeps{Articles: store, Logger: quietLogger, Now: fixedClock})

	got := uc.Get(context.Background(), TopStoriesOptions{Count: 2})
	sameOrder(t, got, "a90", "a80")
	if len(store.queries) != 2 || store.queries[1].WithSummary {
		t.Fatalf("expected a plain retry, got %+v", store.queries)
	}
}

func TestTopStoriesFailsOpen(t *testing.T) {
	t.Parallel()

	if got := NewTopStories(TopStoriesDeps{Logger: quietLogger}).Get(context.Background(), TopStoriesOptions{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list without store, got %v", got)
	}

	store := topStoriesPool()
	store.listErr = errBackend
	uc := NewTopStories(TopStoriesDeps{Articles: store, Logger: quietLogger, Now: fixedClock})
	if got := uc.Get(context.Background(), TopStoriesOptions{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list on failure, got %v", got)
	}
}
