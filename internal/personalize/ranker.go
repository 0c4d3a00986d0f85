// Package personalize orders a feed for one reader from topic interests,
// watch-list hits, recency, and engagement history.
package personalize

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
)

const (
	neutralTopicWeight = 2.0
	watchlistPerMatch  = 2.0
	watchlistCap       = 5.0
	engagementScale    = 2.0
	summaryBoost       = 0.5
	unreadBoost        = 0.5
)

var topicWeights = map[domain.InterestLevel]float64{
	domain.InterestHigh:   3,
	domain.InterestMedium: 2,
	domain.InterestLow:    1,
}

// Ranker scores articles for a single reader session.
type Ranker struct {
	now func() time.Time
}

// NewRanker builds a ranker; a nil clock means time.Now.
func NewRanker(now func() time.Time) *Ranker {
	if now == nil {
		now = time.Now
	}
	return &Ranker{now: now}
}

// Scored pairs an article with its personalized score.
type Scored struct {
	Article domain.Article `json:"article"`
	Score   float64        `json:"score"`
}

// Rank drops hidden topics and sorts the rest by descending score. Equal
// scores keep their input order. Both maps are optional.
func (r *Ranker) Rank(articles []domain.Article, prefs domain.TopicPreferences, engagement domain.EngagementScores) []domain.Article {
	scored := r.Score(articles, prefs, engagement)
	out := make([]domain.Article, len(scored))
	for i, s := range scored {
		out[i] = s.Article
	}
	return out
}

// Score is Rank with the scores attached.
func (r *Ranker) Score(articles []domain.Article, prefs domain.TopicPreferences, engagement domain.EngagementScores) []Scored {
	now := r.now()
	maxEngagement := 1.0
	for _, v := range engagement {
		maxEngagement = math.Max(maxEngagement, v)
	}

	scored := make([]Scored, 0, len(articles))
	for _, a := range articles {
		weight, visible := topicWeight(a.Topic, prefs)
		if !visible {
			continue
		}

		score := weight
		score += math.Min(float64(a.WatchlistMatches)*watchlistPerMatch, watchlistCap)
		score += recencyBoost(now.Sub(a.PublishedAt))
		if engagement != nil {
			score += engagement[a.Topic] / maxEngagement * engagementScale
		}
		if a.Summary != nil && strings.TrimSpace(a.Summary.TheNews) != "" {
			score += summaryBoost
		}
		if !a.IsRead {
			score += unreadBoost
		}
		scored = append(scored, Scored{Article: a, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// FilterByPreferences removes hidden-topic articles without scoring.
func FilterByPreferences(articles []domain.Article, prefs domain.TopicPreferences) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if !prefs.IsHidden(a.Topic) {
			out = append(out, a)
		}
	}
	return out
}

// topicWeight returns the interest weight and whether the topic is visible.
// Without preferences every topic is neutral; topics missing from a
// non-empty map are treated as medium interest.
func topicWeight(topic domain.Topic, prefs domain.TopicPreferences) (float64, bool) {
	if len(prefs) == 0 {
		return neutralTopicWeight, true
	}
	level, ok := prefs[topic]
	if !ok {
		return neutralTopicWeight, true
	}
	if level == domain.InterestHidden {
		return 0, false
	}
	if w, ok := topicWeights[level]; ok {
		return w, true
	}
	return neutralTopicWeight, true
}

func recencyBoost(age time.Duration) float64 {
	hours := age.Hours()
	switch {
	case hours < 3:
		return 3
	case hours < 12:
		return 2
	case hours < 24:
		return 1.5
	case hours < 72:
		return 0.5
	default:
		return 0
	}
}
