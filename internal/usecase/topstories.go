package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/diversity"
	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

const (
	defaultHoursBack = 24
	poolMultiplier   = 5
)

// TopStoriesOptions parameterizes one capped selection. Zero values fall
// back to 5 stories, 2 per publication, 2 per topic, 24 hours.
type TopStoriesOptions struct {
	Count             int
	MaxPerPublication int
	MaxPerTopic       int
	HoursBack         int
}

// TopStories selects a publication- and topic-diverse set of high scorers
// from the store.
type TopStories struct {
	articles ports.ArticleStore
	defaults TopStoriesOptions
	logger   *slog.Logger
	now      func() time.Time
}

// TopStoriesDeps wires TopStories.
type TopStoriesDeps struct {
	Articles ports.ArticleStore
	Defaults TopStoriesOptions
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewTopStories builds the use case.
func NewTopStories(deps TopStoriesDeps) *TopStories {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TopStories{articles: deps.Articles, defaults: deps.Defaults, logger: logger, now: now}
}

// Get returns up to opts.Count stories. Unset fields in opts take the
// configured defaults. A missing or failing store yields an empty list.
func (t *TopStories) Get(ctx context.Context, opts TopStoriesOptions) []domain.Article {
	opts = t.resolve(opts)
	if t.articles == nil {
		t.logger.Warn("article store not configured, no top stories")
		return []domain.Article{}
	}

	minScore := 0
	query := ports.ArticleQuery{
		PublishedSince:    t.now().Add(-time.Duration(opts.HoursBack) * time.Hour),
		MinScoreExclusive: &minScore,
		OrderBy:           ports.OrderScoreDesc,
		Limit:             opts.Count * poolMultiplier,
		WithSummary:       true,
	}

	pool, err := t.articles.ListArticles(ctx, query)
	if err != nil {
		t.logger.Warn("enriched top stories query failed, retrying without summaries", "error", err)
		query.WithSummary = false
		pool, err = t.articles.ListArticles(ctx, query)
		if err != nil {
			t.logger.Warn("top stories query failed", "error", err)
			return []domain.Article{}
		}
	}

	return diversity.SelectCapped(pool, diversity.Caps{
		Count:             opts.Count,
		MaxPerPublication: opts.MaxPerPublication,
		MaxPerTopic:       opts.MaxPerTopic,
	})
}

func (t *TopStories) resolve(opts TopStoriesOptions) TopStoriesOptions {
	opts.Count = positiveOr(opts.Count, t.defaults.Count, diversity.DefaultCount)
	opts.MaxPerPublication = positiveOr(opts.MaxPerPublication, t.defaults.MaxPerPublication, diversity.DefaultMaxPerPublication)
	opts.MaxPerTopic = positiveOr(opts.MaxPerTopic, t.defaults.MaxPerTopic, diversity.DefaultMaxPerTopic)
	opts.HoursBack = positiveOr(opts.HoursBack, t.defaults.HoursBack, defaultHoursBack)
	return opts
}

func positiveOr(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
