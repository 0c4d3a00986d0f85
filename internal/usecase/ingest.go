package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/ports"
)

// ArticleRecord is an article as delivered by the upstream fetcher,
// including the body that domain.Article keeps out of its JSON form.
type ArticleRecord struct {
	domain.Article
	Content string `json:"content"`
}

// Batch is one import of upstream records and reader signals.
type Batch struct {
	Articles        []ArticleRecord     `json:"articles"`
	Newsletters     []domain.Newsletter `json:"newsletters"`
	Preferences     map[string]string   `json:"preferences"`
	VIPPublications []string            `json:"vipPublications"`
	Engagement      map[string]float64  `json:"engagement"`
}

// IngestStats counts what a batch wrote.
type IngestStats struct {
	Articles        int `json:"articles"`
	Newsletters     int `json:"newsletters"`
	Preferences     int `json:"preferences"`
	VIPPublications int `json:"vipPublications"`
	Engagement      int `json:"engagement"`
}

// IngestDeps wires Ingest.
type IngestDeps struct {
	Store  ports.IngestStore
	Logger *slog.Logger
}

// Ingest loads upstream articles, newsletters, and reader signals into the store.
type Ingest struct {
	store  ports.IngestStore
	logger *slog.Logger
}

// NewIngest builds the use case.
func NewIngest(deps IngestDeps) *Ingest {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingest{store: deps.Store, logger: logger}
}

// Load decodes a JSON batch from r and writes it.
func (i *Ingest) Load(ctx context.Context, r io.Reader) (IngestStats, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var batch Batch
	if err := dec.Decode(&batch); err != nil {
		return IngestStats{}, fmt.Errorf("decode batch: %w", err)
	}
	return i.Write(ctx, batch)
}

// Write validates the whole batch, then persists it. Nothing is written when
// validation fails; a store error stops the write and reports what was stored.
func (i *Ingest) Write(ctx context.Context, batch Batch) (IngestStats, error) {
	if i.store == nil {
		return IngestStats{}, ports.ErrStoreUnavailable
	}

	valid, err := validateBatch(batch)
	if err != nil {
		return IngestStats{}, err
	}

	var stats IngestStats
	for _, a := range valid.articles {
		if err := i.store.SaveArticle(ctx, a); err != nil {
			return stats, fmt.Errorf("save article %s: %w", a.ID, err)
		}
		stats.Articles++
	}
	for _, n := range batch.Newsletters {
		if err := i.store.SaveNewsletter(ctx, n); err != nil {
			return stats, fmt.Errorf("save newsletter %s: %w", n.ID, err)
		}
		stats.Newsletters++
	}
	for _, topic := range domain.Topics {
		level, ok := valid.preferences[topic]
		if !ok {
			continue
		}
		if err := i.store.SetTopicPreference(ctx, topic, level); err != nil {
			return stats, fmt.Errorf("set preference %s: %w", topic, err)
		}
		stats.Preferences++
	}
	for _, publication := range valid.vips {
		if err := i.store.AddVIPPublication(ctx, publication); err != nil {
			return stats, fmt.Errorf("add vip publication %s: %w", publication, err)
		}
		stats.VIPPublications++
	}
	for _, topic := range domain.Topics {
		delta, ok := valid.engagement[topic]
		if !ok {
			continue
		}
		if err := i.store.RecordEngagement(ctx, topic, delta); err != nil {
			return stats, fmt.Errorf("record engagement %s: %w", topic, err)
		}
		stats.Engagement++
	}

	i.logger.Info("batch ingested",
		"articles", stats.Articles,
		"newsletters", stats.Newsletters,
		"preferences", stats.Preferences,
		"vipPublications", stats.VIPPublications,
		"engagement", stats.Engagement,
	)
	return stats, nil
}

type validBatch struct {
	articles    []domain.Article
	preferences domain.TopicPreferences
	vips        []string
	engagement  domain.EngagementScores
}

func validateBatch(batch Batch) (validBatch, error) {
	var errs []error
	valid := validBatch{
		preferences: domain.TopicPreferences{},
		engagement:  domain.EngagementScores{},
	}

	for idx, record := range batch.Articles {
		a := record.Article
		a.Content = record.Content
		if strings.TrimSpace(a.ID) == "" {
			errs = append(errs, fmt.Errorf("article %d: missing id", idx))
			continue
		}
		if a.Topic != "" {
			topic, err := domain.ParseTopic(string(a.Topic))
			if err != nil {
				errs = append(errs, fmt.Errorf("article %s: %w", a.ID, err))
				continue
			}
			a.Topic = topic
		}
		if a.SourceTier < domain.TierUnknown || a.SourceTier > domain.TierGeneral {
			errs = append(errs, fmt.Errorf("article %s: source tier %d out of range", a.ID, a.SourceTier))
			continue
		}
		valid.articles = append(valid.articles, a)
	}

	for idx, n := range batch.Newsletters {
		if strings.TrimSpace(n.ID) == "" {
			errs = append(errs, fmt.Errorf("newsletter %d: missing id", idx))
		}
	}

	for rawTopic, rawLevel := range batch.Preferences {
		topic, err := domain.ParseTopic(rawTopic)
		if err != nil {
			errs = append(errs, fmt.Errorf("preference: %w", err))
			continue
		}
		level, err := domain.ParseInterestLevel(rawLevel)
		if err != nil {
			errs = append(errs, fmt.Errorf("preference %s: %w", topic, err))
			continue
		}
		valid.preferences[topic] = level
	}

	for _, publication := range batch.VIPPublications {
		if p := strings.TrimSpace(publication); p != "" {
			valid.vips = append(valid.vips, p)
		}
	}

	for rawTopic, delta := range batch.Engagement {
		topic, err := domain.ParseTopic(rawTopic)
		if err != nil {
			errs = append(errs, fmt.Errorf("engagement: %w", err))
			continue
		}
		valid.engagement[topic] += delta
	}

	if err := errors.Join(errs...); err != nil {
		return validBatch{}, fmt.Errorf("invalid batch: %w", err)
	}
	return valid, nil
}
