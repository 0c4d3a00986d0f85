package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDriver, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(metricsAddrEnv, "")

	cfg := Load()
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("unexpected driver %q", cfg.Database.Driver)
	}
	if cfg.Ranking.RecentLimit != 500 || cfg.Ranking.PageSize != 500 || cfg.Ranking.WriteChunkSize != 50 {
		t.Fatalf("unexpected ranking defaults %+v", cfg.Ranking)
	}
	if cfg.Ranking.RecentWindow().Hours() != 24 {
		t.Fatalf("unexpected window %v", cfg.Ranking.RecentWindow())
	}
	if cfg.TopStories.Count != 5 || cfg.TopStories.MaxPerPublication != 2 || cfg.TopStories.MaxPerTopic != 2 {
		t.Fatalf("unexpected top stories defaults %+v", cfg.TopStories)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected location %v", cfg.Scheduler.Location())
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.yaml")
	raw := []byte(`
database:
  driver: sqlite
  dsn: file:digest.db
scheduler:
  cronExpression: "0 * * * *"
  timezone: Not/AZone
ranking:
  recentLimit: 100
topStories:
  count: 8
  maxPerTopic: 3
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDriver, "")
	t.Setenv(databaseDSNEnv, "file:override.db")
	t.Setenv(logLevelEnv, "debug")
	t.Setenv(metricsAddrEnv, ":9100")

	cfg := Load()
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "file:override.db" {
		t.Fatalf("unexpected database %+v", cfg.Database)
	}
	if cfg.Scheduler.CronExpression != "0 * * * *" {
		t.Fatalf("unexpected cron %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("bad timezone should fall back to UTC, got %v", cfg.Scheduler.Location())
	}
	if cfg.Ranking.RecentLimit != 100 || cfg.Ranking.PageSize != 500 {
		t.Fatalf("unexpected ranking %+v", cfg.Ranking)
	}
	if cfg.TopStories.Count != 8 || cfg.TopStories.MaxPerTopic != 3 || cfg.TopStories.MaxPerPublication != 2 {
		t.Fatalf("unexpected top stories %+v", cfg.TopStories)
	}
	if cfg.Logging.Level != "debug" || cfg.Metrics.ListenAddr != ":9100" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Logging, cfg.Metrics)
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("database: [unclosed")); err == nil {
		t.Fatalf("expected parse error")
	}
}
