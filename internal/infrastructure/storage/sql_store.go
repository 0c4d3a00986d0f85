package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLStore persists articles, summaries, and reader preferences in Postgres
// or SQLite.
type SQLStore struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

var (
	_ ports.ArticleStore     = (*SQLStore)(nil)
	_ ports.SummaryStore     = (*SQLStore)(nil)
	_ ports.PreferencesStore = (*SQLStore)(nil)
	_ ports.EngagementStore  = (*SQLStore)(nil)
	_ ports.IngestStore      = (*SQLStore)(nil)
)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewSQLStore(db, driver), nil
}

// NewSQLStore wires an existing sql.DB.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	return &SQLStore{
		db:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var articleColumns = []string{
	"a.id", "a.title", "a.content", "a.url", "a.source", "a.topic", "a.source_tier",
	"a.published_at", "a.is_vip", "a.ranking_score", "a.watchlist_matches", "a.is_read",
	"a.is_primary_document",
}

var summaryColumns = []string{"s.brief", "s.the_news", "s.why_it_matters", "s.the_context", "s.key_entities"}

// ListArticles runs a filtered, ordered, paginated read.
func (s *SQLStore) ListArticles(ctx context.Context, query ports.ArticleQuery) ([]domain.Article, error) {
	if s.db == nil {
		return nil, ports.ErrStoreUnavailable
	}

	stmt := s.builder.Select(articleColumns...).From("articles a")
	if query.WithSummary {
		stmt = stmt.Columns(summaryColumns...).LeftJoin("article_summaries s ON s.article_id = a.id")
	}
	if !query.PublishedSince.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"a.published_at": query.PublishedSince.UnixMilli()})
	}
	if query.MinScoreExclusive != nil {
		stmt = stmt.Where(sq.Gt{"a.ranking_score": *query.MinScoreExclusive})
	}
	if len(query.IDs) > 0 {
		if s.driver == DriverPostgres {
			stmt = stmt.Where("a.id = ANY(?)", pq.StringArray(query.IDs))
		} else {
			stmt = stmt.Where(sq.Eq{"a.id": query.IDs})
		}
	}
	switch query.OrderBy {
	case ports.OrderScoreDesc:
		stmt = stmt.OrderBy("a.ranking_score DESC NULLS LAST", "a.published_at DESC", "a.id")
	default:
		stmt = stmt.OrderBy("a.published_at DESC", "a.id")
	}
	if query.Limit > 0 {
		stmt = stmt.Limit(uint64(query.Limit))
		if query.Offset > 0 {
			stmt = stmt.Offset(uint64(query.Offset))
		}
	}

	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows, query.WithSummary)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		articles = append(articles, article)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return articles, nil
}

func scanArticle(rows *sql.Rows, withSummary bool) (domain.Article, error) {
	var (
		a           domain.Article
		topic       string
		tier        int
		publishedMs int64
		score       sql.NullInt64
		summary     summaryRow
	)
	dest := []any{
		&a.ID, &a.Title, &a.Content, &a.URL, &a.Source, &topic, &tier,
		&publishedMs, &a.IsVIP, &score, &a.WatchlistMatches, &a.IsRead,
		&a.IsPrimaryDocument,
	}
	if withSummary {
		dest = append(dest, summary.dest()...)
	}
	if err := rows.Scan(dest...); err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	a.Topic = domain.Topic(topic)
	a.SourceTier = domain.SourceTier(tier)
	a.PublishedAt = fromMillis(publishedMs)
	if score.Valid {
		v := int(score.Int64)
		a.RankingScore = &v
	}
	if withSummary {
		parsed, err := summary.toDomain()
		if err != nil {
			return domain.Article{}, fmt.Errorf("article %s: %w", a.ID, err)
		}
		a.Summary = parsed
	}
	return a, nil
}

// UpdateRankingScore writes a single article's score.
func (s *SQLStore) UpdateRankingScore(ctx context.Context, articleID string, score int) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}

	sqlText, args, err := s.builder.Update("articles").
		Set("ranking_score", score).
		Where(sq.Eq{"id": articleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build score update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return fmt.Errorf("update score %s: %w", articleID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected %s: %w", articleID, err)
	}
	if affected == 0 {
		return fmt.Errorf("article %s: %w", articleID, ports.ErrNotFound)
	}
	return nil
}

// SaveArticle upserts an article and, when present, its summary.
func (s *SQLStore) SaveArticle(ctx context.Context, a domain.Article) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}

	var score any
	if a.RankingScore != nil {
		score = *a.RankingScore
	}

	sqlText, args, err := s.builder.Insert("articles").
		Columns("id", "title", "content", "url", "source", "topic", "source_tier", "published_at",
			"is_vip", "ranking_score", "watchlist_matches", "is_read", "is_primary_document").
		Values(a.ID, a.Title, a.Content, a.URL, a.Source, string(a.Topic), int(a.SourceTier), toMillis(a.PublishedAt),
			a.IsVIP, score, a.WatchlistMatches, a.IsRead, a.IsPrimaryDocument).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			url = EXCLUDED.url,
			source = EXCLUDED.source,
			topic = EXCLUDED.topic,
			source_tier = EXCLUDED.source_tier,
			published_at = EXCLUDED.published_at,
			is_vip = EXCLUDED.is_vip,
			watchlist_matches = EXCLUDED.watchlist_matches,
			is_read = EXCLUDED.is_read,
			is_primary_document = EXCLUDED.is_primary_document`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build article upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert article %s: %w", a.ID, err)
	}

	if a.Summary == nil {
		return nil
	}
	entities, err := json.Marshal(entitiesOrEmpty(a.Summary.KeyEntities))
	if err != nil {
		return fmt.Errorf("encode entities %s: %w", a.ID, err)
	}

	sqlText, args, err = s.builder.Insert("article_summaries").
		Columns("article_id", "brief", "the_news", "why_it_matters", "the_context", "key_entities").
		Values(a.ID, a.Summary.Brief, a.Summary.TheNews, a.Summary.WhyItMatters, a.Summary.TheContext, string(entities)).
		Suffix(`ON CONFLICT (article_id) DO UPDATE SET
			brief = EXCLUDED.brief,
			the_news = EXCLUDED.the_news,
			why_it_matters = EXCLUDED.why_it_matters,
			the_context = EXCLUDED.the_context,
			key_entities = EXCLUDED.key_entities`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build summary upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert summary %s: %w", a.ID, err)
	}
	return nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
