package ports

import (
	"context"
	"errors"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
)

var (
	// ErrStoreUnavailable signals a missing or misconfigured store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// ArticleOrder selects the sort key of an article listing.
type ArticleOrder int

const (
	OrderPublishedDesc ArticleOrder = iota
	OrderScoreDesc
)

// ArticleQuery filters and paginates article reads.
type ArticleQuery struct {
	// PublishedSince keeps articles published at or after the instant; zero disables it.
	PublishedSince time.Time
	// MinScoreExclusive keeps articles whose ranking score is strictly greater.
	MinScoreExclusive *int
	IDs               []string
	OrderBy           ArticleOrder
	Limit             int
	Offset            int
	// WithSummary joins summary data (key entities, the-news text).
	WithSummary bool
}

// ArticleStore lists articles and persists ranking scores.
type ArticleStore interface {
	ListArticles(ctx context.Context, query ArticleQuery) ([]domain.Article, error)
	UpdateRankingScore(ctx context.Context, articleID string, score int) error
}

// SummaryStore supplies summarized newsletters for cross-referencing.
type SummaryStore interface {
	ListNewsletters(ctx context.Context, since time.Time, limit int) ([]domain.Newsletter, error)
}

// PreferencesStore exposes the reader's topic interests and VIP publications.
type PreferencesStore interface {
	TopicPreferences(ctx context.Context) (domain.TopicPreferences, error)
	VIPPublications(ctx context.Context) ([]string, error)
}

// EngagementStore exposes accumulated per-topic engagement.
type EngagementStore interface {
	TopicEngagement(ctx context.Context) (domain.EngagementScores, error)
}

// IngestStore persists upstream records and reader signals.
type IngestStore interface {
	SaveArticle(ctx context.Context, article domain.Article) error
	SaveNewsletter(ctx context.Context, newsletter domain.Newsletter) error
	SetTopicPreference(ctx context.Context, topic domain.Topic, level domain.InterestLevel) error
	AddVIPPublication(ctx context.Context, publication string) error
	RecordEngagement(ctx context.Context, topic domain.Topic, delta float64) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
