package storage

import (
	"context"
	"fmt"

	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

// Timestamps are unix milliseconds so both drivers compare them numerically.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL DEFAULT '',
		source_tier INTEGER NOT NULL DEFAULT 0,
		published_at BIGINT NOT NULL DEFAULT 0,
		is_vip BOOLEAN NOT NULL DEFAULT FALSE,
		ranking_score INTEGER,
		watchlist_matches INTEGER NOT NULL DEFAULT 0,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		is_primary_document BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles (published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_ranking_score ON articles (ranking_score)`,
	`CREATE TABLE IF NOT EXISTS article_summaries (
		article_id TEXT PRIMARY KEY REFERENCES articles (id) ON DELETE CASCADE,
		brief TEXT NOT NULL DEFAULT '',
		the_news TEXT NOT NULL DEFAULT '',
		why_it_matters TEXT NOT NULL DEFAULT '',
		the_context TEXT NOT NULL DEFAULT '',
		key_entities TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS newsletters (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL DEFAULT '',
		publication TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		received_at BIGINT NOT NULL DEFAULT 0,
		brief TEXT NOT NULL DEFAULT '',
		the_news TEXT NOT NULL DEFAULT '',
		why_it_matters TEXT NOT NULL DEFAULT '',
		the_context TEXT NOT NULL DEFAULT '',
		key_entities TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_newsletters_received_at ON newsletters (received_at)`,
	`CREATE TABLE IF NOT EXISTS topic_preferences (
		topic TEXT PRIMARY KEY,
		level TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS vip_publications (
		publication TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS topic_engagement (
		topic TEXT PRIMARY KEY,
		score DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
}

// Migrate creates the tables the store reads and writes. It is idempotent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return ports.ErrStoreUnavailable
	}
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
