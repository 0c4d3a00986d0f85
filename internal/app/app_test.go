package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/config"
	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/infrastructure/storage"
	"github.com/vidurdewan/the-digest-sub002/internal/logging"
	"github.com/vidurdewan/the-digest-sub002/internal/usecase"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	cfg := config.Config{
		Database:  config.DatabaseConfig{Driver: storage.DriverSQLite, DSN: filepath.Join(t.TempDir(), "digest.db")},
		Scheduler: config.SchedulerConfig{CronExpression: "0 * * * *"},
		Logging:   config.LoggingConfig{Level: "error"},
	}
	return cfg
}

func TestApplicationRanksAndExposesMetrics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	application, err := New(ctx, testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	if err := application.store.SaveArticle(ctx, domain.Article{
		ID:          "a1",
		Title:       "Exclusive: Company X raises $1 billion",
		URL:         "https://www.ft.com/a1",
		SourceTier:  domain.TierPremium,
		Topic:       domain.TopicFundraising,
		PublishedAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	stats := application.Pipeline.RankRecent(ctx)
	if stats.Ranked != 1 || stats.Stored != 1 || stats.TopScore != 80 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	top := application.TopStories.Get(ctx, usecase.TopStoriesOptions{})
	if len(top) != 1 || top[0].ID != "a1" || top[0].RankingScore == nil || *top[0].RankingScore != 80 {
		t.Fatalf("unexpected top stories %+v", top)
	}

	srv := httptest.NewServer(application.MetricsHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `digest_ranking_runs_total{mode="recent",status="ok"} 1`) {
		t.Fatalf("run counter missing from scrape:\n%s", body)
	}
}

func TestApplicationServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	application, err := New(context.Background(), testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	if _, err := New(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestApplicationIngestFeedsRankingAndPersonalization(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	application, err := New(ctx, testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	published := time.Now().Add(-time.Hour).UTC()
	_, err = application.Ingest.Write(ctx, usecase.Batch{
		Articles: []usecase.ArticleRecord{
			{Article: domain.Article{ID: "fin", Title: "Markets rally", Source: "ft.com",
				Topic: domain.TopicFinancialMarkets, SourceTier: domain.TierPremium, PublishedAt: published}},
			{Article: domain.Article{ID: "pol", Title: "Senate vote", Source: "Axios",
				Topic: domain.TopicPolitics, SourceTier: domain.TierMid, PublishedAt: published}},
		},
		Preferences:     map[string]string{"politics": "hidden"},
		VIPPublications: []string{"ft.com"},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if stats := application.Pipeline.RankRecent(ctx); stats.Ranked != 2 || stats.Errors != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	feed := application.Feed.Personalized(ctx, time.Now().Add(-24*time.Hour), 10)
	if len(feed) != 1 || feed[0].Article.ID != "fin" {
		t.Fatalf("hidden topic should be dropped from feed: %+v", feed)
	}
}
