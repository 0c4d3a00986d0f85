package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

// summaryRow scans the nullable summary columns of a LEFT JOIN.
type summaryRow struct {
	brief        sql.NullString
	theNews      sql.NullString
	whyItMatters sql.NullString
	theContext   sql.NullString
	keyEntities  sql.NullString
}

func (r *summaryRow) dest() []any {
	return []any{&r.brief, &r.theNews, &r.whyItMatters, &r.theContext, &r.keyEntities}
}

// toDomain returns nil when the joined row had no summary.
func (r *summaryRow) toDomain() (*domain.Summary, error) {
	if !r.brief.Valid && !r.theNews.Valid && !r.whyItMatters.Valid && !r.theContext.Valid && !r.keyEntities.Valid {
		return nil, nil
	}
	summary := &domain.Summary{
		Brief:        r.brief.String,
		TheNews:      r.theNews.String,
		WhyItMatters: r.whyItMatters.String,
		TheContext:   r.theContext.String,
	}
	if r.keyEntities.Valid && r.keyEntities.String != "" {
		if err := json.Unmarshal([]byte(r.keyEntities.String), &summary.KeyEntities); err != nil {
			return nil, fmt.Errorf("decode key entities: %w", err)
		}
	}
	return summary, nil
}

func entitiesOrEmpty(entities []domain.Entity) []domain.Entity {
	if entities == nil {
		return []domain.Entity{}
	}
	return entities
}

// ListNewsletters returns summarized newsletters received at or after since,
// newest first.
func (s *SQLStore) ListNewsletters(ctx context.Context, since time.Time, limit int) ([]domain.Newsletter, error) {
	if s.db == nil {
		return nil, ports.ErrStoreUnavailable
	}

	stmt := s.builder.Select("id", "subject", "publication", "url", "received_at",
		"brief", "the_news", "why_it_matters", "the_context", "key_entities").
		From("newsletters").
		OrderBy("received_at DESC", "id")
	if !since.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"received_at": since.UnixMilli()})
	}
	if limit > 0 {
		stmt = stmt.Limit(uint64(limit))
	}

	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build newsletter query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query newsletters: %w", err)
	}
	defer rows.Close()

	var newsletters []domain.Newsletter
	for rows.Next() {
		var (
			n          domain.Newsletter
			receivedMs int64
			summary    summaryRow
		)
		dest := append([]any{&n.ID, &n.Subject, &n.Publication, &n.URL, &receivedMs}, summary.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan newsletter: %w", err)
		}
		n.ReceivedAt = fromMillis(receivedMs)
		if n.Summary, err = summary.toDomain(); err != nil {
			return nil, fmt.Errorf("newsletter %s: %w", n.ID, err)
		}
		newsletters = append(newsletters, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return newsletters, nil
}

// SaveNewsletter upserts a summarized newsletter.
func (s *SQLStore) SaveNewsletter(ctx context.Context, n domain.Newsletter) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}

	var summary domain.Summary
	if n.Summary != nil {
		summary = *n.Summary
	}
	entities, err := json.Marshal(entitiesOrEmpty(summary.KeyEntities))
	if err != nil {
		return fmt.Errorf("encode entities %s: %w", n.ID, err)
	}

	sqlText, args, err := s.builder.Insert("newsletters").
		Columns("id", "subject", "publication", "url", "received_at",
			"brief", "the_news", "why_it_matters", "the_context", "key_entities").
		Values(n.ID, n.Subject, n.Publication, n.URL, toMillis(n.ReceivedAt),
			summary.Brief, summary.TheNews, summary.WhyItMatters, summary.TheContext, string(entities)).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			subject = EXCLUDED.subject,
			publication = EXCLUDED.publication,
			url = EXCLUDED.url,
			received_at = EXCLUDED.received_at,
			brief = EXCLUDED.brief,
			the_news = EXCLUDED.the_news,
			why_it_matters = EXCLUDED.why_it_matters,
			the_context = EXCLUDED.the_context,
			key_entities = EXCLUDED.key_entities`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build newsletter upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert newsletter %s: %w", n.ID, err)
	}
	return nil
}

// TopicPreferences loads the reader's interest levels. Rows naming unknown
// topics are skipped.
func (s *SQLStore) TopicPreferences(ctx context.Context) (domain.TopicPreferences, error) {
	if s.db == nil {
		return nil, ports.ErrStoreUnavailable
	}

	sqlText, args, err := s.builder.Select("topic", "level").From("topic_preferences").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build preferences query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	prefs := domain.TopicPreferences{}
	for rows.Next() {
		var topic, level string
		if err := rows.Scan(&topic, &level); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		parsed, err := domain.ParseTopic(topic)
		if err != nil {
			continue
		}
		prefs[parsed] = domain.InterestLevel(level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}

// SetTopicPreference stores one topic's interest level.
func (s *SQLStore) SetTopicPreference(ctx context.Context, topic domain.Topic, level domain.InterestLevel) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}
	sqlText, args, err := s.builder.Insert("topic_preferences").
		Columns("topic", "level").
		Values(string(topic), string(level)).
		Suffix("ON CONFLICT (topic) DO UPDATE SET level = EXCLUDED.level").
		ToSql()
	if err != nil {
		return fmt.Errorf("build preference upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert preference %s: %w", topic, err)
	}
	return nil
}

// VIPPublications lists the publications whose articles get the VIP bonus.
func (s *SQLStore) VIPPublications(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, ports.ErrStoreUnavailable
	}

	sqlText, args, err := s.builder.Select("publication").From("vip_publications").OrderBy("publication").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build vip query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query vip publications: %w", err)
	}
	defer rows.Close()

	var publications []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan vip publication: %w", err)
		}
		publications = append(publications, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return publications, nil
}

// AddVIPPublication registers a publication as VIP.
func (s *SQLStore) AddVIPPublication(ctx context.Context, publication string) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}
	sqlText, args, err := s.builder.Insert("vip_publications").
		Columns("publication").
		Values(publication).
		Suffix("ON CONFLICT (publication) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build vip insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("insert vip publication: %w", err)
	}
	return nil
}

// TopicEngagement loads accumulated engagement per topic. Rows naming
// unknown topics are skipped.
func (s *SQLStore) TopicEngagement(ctx context.Context) (domain.EngagementScores, error) {
	if s.db == nil {
		return nil, ports.ErrStoreUnavailable
	}

	sqlText, args, err := s.builder.Select("topic", "score").From("topic_engagement").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build engagement query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query engagement: %w", err)
	}
	defer rows.Close()

	scores := domain.EngagementScores{}
	for rows.Next() {
		var (
			topic string
			score float64
		)
		if err := rows.Scan(&topic, &score); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		parsed, err := domain.ParseTopic(topic)
		if err != nil {
			continue
		}
		scores[parsed] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return scores, nil
}

// RecordEngagement adds delta to a topic's engagement score.
func (s *SQLStore) RecordEngagement(ctx context.Context, topic domain.Topic, delta float64) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}
	sqlText, args, err := s.builder.Insert("topic_engagement").
		Columns("topic", "score").
		Values(string(topic), delta).
		Suffix("ON CONFLICT (topic) DO UPDATE SET score = topic_engagement.score + EXCLUDED.score").
		ToSql()
	if err != nil {
		return fmt.Errorf("build engagement upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert engagement %s: %w", topic, err)
	}
	return nil
}
