package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/crossref"
	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

const (
	defaultRelatedWindow   = 72 * time.Hour
	defaultArticleLimit    = 500
	defaultNewsletterLimit = 200
)

// RelatedOptions bounds the snapshot cross-references are searched in.
type RelatedOptions struct {
	Window          time.Duration
	ArticleLimit    int
	NewsletterLimit int
}

// RelatedDeps wires Related.
type RelatedDeps struct {
	Articles  ports.ArticleStore
	Summaries ports.SummaryStore
	Options   RelatedOptions
	Logger    *slog.Logger
	Now       func() time.Time
}

// Related links articles and newsletters that mention the same entities.
type Related struct {
	articles  ports.ArticleStore
	summaries ports.SummaryStore
	opts      RelatedOptions
	logger    *slog.Logger
	now       func() time.Time
}

// NewRelated builds the use case.
func NewRelated(deps RelatedDeps) *Related {
	opts := deps.Options
	if opts.Window <= 0 {
		opts.Window = defaultRelatedWindow
	}
	if opts.ArticleLimit <= 0 {
		opts.ArticleLimit = defaultArticleLimit
	}
	if opts.NewsletterLimit <= 0 {
		opts.NewsletterLimit = defaultNewsletterLimit
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Related{articles: deps.Articles, summaries: deps.Summaries, opts: opts, logger: logger, now: now}
}

// ForArticle returns up to four articles, newsletters, or primary documents
// sharing entities with the article.
func (r *Related) ForArticle(ctx context.Context, articleID string) ([]domain.RelatedItem, error) {
	if r.articles == nil {
		return []domain.RelatedItem{}, nil
	}
	source, err := r.article(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return crossref.FindRelatedForArticle(source, r.recentArticles(ctx), r.recentNewsletters(ctx)), nil
}

// ForNewsletter returns up to four items sharing entities or subject
// keywords with the newsletter.
func (r *Related) ForNewsletter(ctx context.Context, newsletterID string) ([]domain.RelatedItem, error) {
	newsletters := r.recentNewsletters(ctx)
	source, ok := findNewsletter(newsletters, newsletterID)
	if !ok {
		return nil, fmt.Errorf("newsletter %s: %w", newsletterID, ports.ErrNotFound)
	}
	return crossref.FindRelatedForNewsletter(source, r.recentArticles(ctx), newsletters), nil
}

// Highlights returns the IDs of recent articles the newsletter covers.
func (r *Related) Highlights(ctx context.Context, newsletterID string) ([]string, error) {
	source, ok := findNewsletter(r.recentNewsletters(ctx), newsletterID)
	if !ok {
		return nil, fmt.Errorf("newsletter %s: %w", newsletterID, ports.ErrNotFound)
	}
	return crossref.FindMatchingArticleIDs(source, r.recentArticles(ctx)), nil
}

// Coverage counts how many outlets in the same topic carry the story.
func (r *Related) Coverage(ctx context.Context, articleID string) (domain.Coverage, error) {
	if r.articles == nil {
		return domain.Coverage{Count: 1, Sources: []string{}}, nil
	}
	source, err := r.article(ctx, articleID)
	if err != nil {
		return domain.Coverage{}, err
	}
	return crossref.FindCoverageDensity(source, r.recentArticles(ctx)), nil
}

func (r *Related) article(ctx context.Context, articleID string) (domain.Article, error) {
	found, err := r.listArticles(ctx, ports.ArticleQuery{IDs: []string{articleID}, Limit: 1})
	if err != nil {
		return domain.Article{}, fmt.Errorf("load article %s: %w", articleID, err)
	}
	if len(found) == 0 {
		return domain.Article{}, fmt.Errorf("article %s: %w", articleID, ports.ErrNotFound)
	}
	return found[0], nil
}

// recentArticles is best effort; failures shrink the snapshot to nothing.
func (r *Related) recentArticles(ctx context.Context) []domain.Article {
	if r.articles == nil {
		return nil
	}
	articles, err := r.listArticles(ctx, ports.ArticleQuery{
		PublishedSince: r.now().Add(-r.opts.Window),
		OrderBy:        ports.OrderPublishedDesc,
		Limit:          r.opts.ArticleLimit,
	})
	if err != nil {
		r.logger.Warn("load article snapshot failed", "error", err)
		return nil
	}
	return articles
}

func (r *Related) recentNewsletters(ctx context.Context) []domain.Newsletter {
	if r.summaries == nil {
		return nil
	}
	newsletters, err := r.summaries.ListNewsletters(ctx, r.now().Add(-r.opts.Window), r.opts.NewsletterLimit)
	if err != nil {
		r.logger.Warn("load newsletter snapshot failed", "error", err)
		return nil
	}
	return newsletters
}

// listArticles always asks for summaries since entities live there.
func (r *Related) listArticles(ctx context.Context, query ports.ArticleQuery) ([]domain.Article, error) {
	query.WithSummary = true
	return r.articles.ListArticles(ctx, query)
}

func findNewsletter(newsletters []domain.Newsletter, id string) (domain.Newsletter, bool) {
	for _, n := range newsletters {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Newsletter{}, false
}
