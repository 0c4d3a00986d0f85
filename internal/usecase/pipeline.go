package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/diversity"
	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
	"github.com/vidurdewan/the-digest-sub002/internal/scoring"
)

// Ranking modes, also used as metric labels.
const (
	ModeRecent = "recent"
	ModeAll    = "all"
)

const (
	defaultRecentWindow   = 24 * time.Hour
	defaultRecentLimit    = 500
	defaultPageSize       = 500
	defaultWriteChunkSize = 50
)

// PipelineOptions bounds the reads and writes of a ranking run.
type PipelineOptions struct {
	RecentWindow   time.Duration
	RecentLimit    int
	PageSize       int
	WriteChunkSize int
}

func (o PipelineOptions) withDefaults() PipelineOptions {
	if o.RecentWindow <= 0 {
		o.RecentWindow = defaultRecentWindow
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = defaultRecentLimit
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.WriteChunkSize <= 0 {
		o.WriteChunkSize = defaultWriteChunkSize
	}
	return o
}

// PipelineDeps wires the driven adapters into the ranking pipeline.
type PipelineDeps struct {
	Articles    ports.ArticleStore
	Preferences ports.PreferencesStore
	Scorer      *scoring.Scorer
	Metrics     *Metrics
	Logger      *slog.Logger
	Options     PipelineOptions
	Now         func() time.Time
}

// Pipeline scores stored articles in batches and writes the scores back.
type Pipeline struct {
	articles    ports.ArticleStore
	preferences ports.PreferencesStore
	scorer      *scoring.Scorer
	metrics     *Metrics
	logger      *slog.Logger
	opts        PipelineOptions
	now         func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	scorer := deps.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.WithClock(now))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		articles:    deps.Articles,
		preferences: deps.Preferences,
		scorer:      scorer,
		metrics:     deps.Metrics,
		logger:      logger,
		opts:        deps.Options.withDefaults(),
		now:         now,
	}
}

// RankRecent scores the articles published inside the recent window as one
// batch. A missing or failing store yields zero stats.
func (p *Pipeline) RankRecent(ctx context.Context) domain.RankingStats {
	started := time.Now()
	if p.articles == nil {
		p.logger.Warn("article store not configured, skipping ranking", "mode", ModeRecent)
		return p.finish(ModeRecent, StatusDegraded, domain.RankingStats{}, started)
	}

	since := p.now().Add(-p.opts.RecentWindow)
	p.logger.Info("ranking started", "mode", ModeRecent, "since", since)

	articles, err := p.articles.ListArticles(ctx, ports.ArticleQuery{
		PublishedSince: since,
		OrderBy:        ports.OrderPublishedDesc,
		Limit:          p.opts.RecentLimit,
	})
	if err != nil {
		p.logger.Warn("load recent articles failed", "error", err)
		return p.finish(ModeRecent, StatusDegraded, domain.RankingStats{}, started)
	}

	return p.finish(ModeRecent, StatusOK, p.rankAndStore(ctx, articles), started)
}

// RankAll pages through the whole corpus and scores it as a single batch.
func (p *Pipeline) RankAll(ctx context.Context) domain.RankingStats {
	started := time.Now()
	if p.articles == nil {
		p.logger.Warn("article store not configured, skipping ranking", "mode", ModeAll)
		return p.finish(ModeAll, StatusDegraded, domain.RankingStats{}, started)
	}

	p.logger.Info("ranking started", "mode", ModeAll, "pageSize", p.opts.PageSize)

	var articles []domain.Article
	for offset := 0; ; offset += p.opts.PageSize {
		page, err := p.articles.ListArticles(ctx, ports.ArticleQuery{
			OrderBy: ports.OrderPublishedDesc,
			Limit:   p.opts.PageSize,
			Offset:  offset,
		})
		if err != nil {
			p.logger.Warn("load article page failed", "offset", offset, "error", err)
			return p.finish(ModeAll, StatusDegraded, domain.RankingStats{}, started)
		}
		articles = append(articles, page...)
		if len(page) < p.opts.PageSize {
			break
		}
	}

	return p.finish(ModeAll, StatusOK, p.rankAndStore(ctx, articles), started)
}

func (p *Pipeline) rankAndStore(ctx context.Context, articles []domain.Article) domain.RankingStats {
	if len(articles) == 0 {
		return domain.RankingStats{}
	}

	p.markVIP(ctx, articles)
	results := p.scorer.ScoreBatch(articles)

	stats := domain.RankingStats{
		Ranked:      len(results),
		TopScore:    results[0].RankingScore,
		BottomScore: results[0].RankingScore,
	}
	for _, r := range results[1:] {
		stats.TopScore = max(stats.TopScore, r.RankingScore)
		stats.BottomScore = min(stats.BottomScore, r.RankingScore)
	}

	for start := 0; start < len(results); start += p.opts.WriteChunkSize {
		end := min(start+p.opts.WriteChunkSize, len(results))
		for _, r := range results[start:end] {
			if err := p.articles.UpdateRankingScore(ctx, r.ArticleID, r.RankingScore); err != nil {
				stats.Errors++
				p.logger.Warn("persist ranking score failed", "article", r.ArticleID, "error", err)
				continue
			}
			stats.Stored++
		}
		p.logger.Debug("score chunk persisted", "from", start, "to", end)
	}

	return stats
}

// markVIP flags articles whose publication is on the reader's VIP list.
func (p *Pipeline) markVIP(ctx context.Context, articles []domain.Article) {
	if p.preferences == nil {
		return
	}
	vips, err := p.preferences.VIPPublications(ctx)
	if err != nil {
		p.logger.Warn("load vip publications failed", "error", err)
		return
	}
	if len(vips) == 0 {
		return
	}

	set := make(map[string]struct{}, len(vips)*2)
	for _, v := range vips {
		if key := diversity.NormalizePublication(v); key != "" {
			set[key] = struct{}{}
		}
		if label := strings.ToLower(strings.TrimSpace(v)); label != "" {
			set[label] = struct{}{}
		}
	}

	for i := range articles {
		if articles[i].IsVIP {
			continue
		}
		_, byPublication := set[diversity.PublicationKey(articles[i])]
		_, bySource := set[strings.ToLower(strings.TrimSpace(articles[i].Source))]
		articles[i].IsVIP = byPublication || bySource
	}
}

func (p *Pipeline) finish(mode, status string, stats domain.RankingStats, started time.Time) domain.RankingStats {
	p.metrics.ObserveRun(mode, status, stats.Ranked, stats.Errors, time.Since(started).Seconds(), float64(p.now().Unix()))
	if status == StatusOK {
		p.logger.Info("ranking finished",
			"mode", mode,
			"ranked", stats.Ranked,
			"stored", stats.Stored,
			"errors", stats.Errors,
			"topScore", stats.TopScore,
			"bottomScore", stats.BottomScore,
		)
	}
	return stats
}
