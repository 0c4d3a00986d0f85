package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/personalize"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

// FeedDeps wires Feed.
type FeedDeps struct {
	Articles    ports.ArticleStore
	Preferences ports.PreferencesStore
	Engagement  ports.EngagementStore
	Logger      *slog.Logger
	Now         func() time.Time
}

// Feed builds the reader's personalized ordering.
type Feed struct {
	articles    ports.ArticleStore
	preferences ports.PreferencesStore
	engagement  ports.EngagementStore
	ranker      *personalize.Ranker
	logger      *slog.Logger
}

// NewFeed builds the use case.
func NewFeed(deps FeedDeps) *Feed {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		articles:    deps.Articles,
		preferences: deps.Preferences,
		engagement:  deps.Engagement,
		ranker:      personalize.NewRanker(deps.Now),
		logger:      logger,
	}
}

// Personalized ranks up to limit articles published since the given instant.
// Preference and engagement failures degrade to neutral weights; a missing
// or failing article store yields an empty feed.
func (f *Feed) Personalized(ctx context.Context, since time.Time, limit int) []personalize.Scored {
	if f.articles == nil {
		f.logger.Warn("article store not configured, empty feed")
		return []personalize.Scored{}
	}

	query := ports.ArticleQuery{
		PublishedSince: since,
		OrderBy:        ports.OrderPublishedDesc,
		Limit:          limit,
		WithSummary:    true,
	}
	articles, err := f.articles.ListArticles(ctx, query)
	if err != nil {
		f.logger.Warn("enriched feed query failed, retrying without summaries", "error", err)
		query.WithSummary = false
		if articles, err = f.articles.ListArticles(ctx, query); err != nil {
			f.logger.Warn("feed query failed", "error", err)
			return []personalize.Scored{}
		}
	}

	return f.ranker.Score(articles, f.topicPreferences(ctx), f.topicEngagement(ctx))
}

func (f *Feed) topicPreferences(ctx context.Context) domain.TopicPreferences {
	if f.preferences == nil {
		return nil
	}
	prefs, err := f.preferences.TopicPreferences(ctx)
	if err != nil {
		f.logger.Warn("load topic preferences failed, using neutral weights", "error", err)
		return nil
	}
	return prefs
}

func (f *Feed) topicEngagement(ctx context.Context) domain.EngagementScores {
	if f.engagement == nil {
		return nil
	}
	scores, err := f.engagement.TopicEngagement(ctx)
	if err != nil {
		f.logger.Warn("load engagement failed, ignoring history", "error", err)
		return nil
	}
	return scores
}
