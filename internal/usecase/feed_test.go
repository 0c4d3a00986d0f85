package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/personalize"
)

func feedIDs(items []personalize.Scored) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Article.ID
	}
	return out
}

func feedStore() *fakeArticleStore {
	return newFakeArticleStore(
		domain.Article{ID: "politics", Topic: domain.TopicPolitics, PublishedAt: testNow.Add(-time.Hour)},
		domain.Article{ID: "science", Topic: domain.TopicScienceTech, PublishedAt: testNow.Add(-2 * time.Hour)},
		domain.Article{ID: "cars", Topic: domain.TopicAutomotive, PublishedAt: testNow.Add(-30 * time.Minute)},
	)
}

func TestFeedAppliesPreferences(t *testing.T) {
	t.Parallel()

	store := feedStore()
	feed := NewFeed(FeedDeps{
		Articles: store,
		Preferences: fakePreferences{prefs: domain.TopicPreferences{
			domain.TopicPolitics:    domain.InterestHidden,
			domain.TopicScienceTech: domain.InterestHigh,
			domain.TopicAutomotive:  domain.InterestLow,
		}},
		Logger: quietLogger,
		Now:    fixedClock,
	})

	got := feedIDs(feed.Personalized(context.Background(), testNow.Add(-24*time.Hour), 50))
	if len(got) != 2 || got[0] != "science" || got[1] != "cars" {
		t.Fatalf("unexpected feed %v", got)
	}
	if q := store.queries[0]; q.Limit != 50 || !q.WithSummary {
		t.Fatalf("unexpected feed query %+v", q)
	}
}

func TestFeedUsesEngagement(t *testing.T) {
	t.Parallel()

	feed := NewFeed(FeedDeps{
		Articles:   feedStore(),
		Engagement: fakeEngagement{domain.TopicPolitics: 10},
		Logger:     quietLogger,
		Now:        fixedClock,
	})

	got := feedIDs(feed.Personalized(context.Background(), time.Time{}, 0))
	if len(got) != 3 || got[0] != "politics" {
		t.Fatalf("engagement should lift politics first, got %v", got)
	}
}

func TestFeedDegradesGracefully(t *testing.T) {
	t.Parallel()

	store := feedStore()
	store.summaryErr = errBackend
	feed := NewFeed(FeedDeps{
		Articles:    store,
		Preferences: fakePreferences{prefsErr: errBackend},
		Logger:      quietLogger,
		Now:         fixedClock,
	})

	got := feedIDs(feed.Personalized(context.Background(), time.Time{}, 0))
	if len(got) != 3 {
		t.Fatalf("failed preferences should not hide anything, got %v", got)
	}

	if items := NewFeed(FeedDeps{Logger: quietLogger}).Personalized(context.Background(), time.Time{}, 10); items == nil || len(items) != 0 {
		t.Fatalf("expected empty feed without store, got %v", items)
	}
}
