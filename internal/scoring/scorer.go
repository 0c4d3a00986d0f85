// Package scoring computes the deterministic, user-independent ranking score
// of an article from its content and metadata.
package scoring

import (
	"strings"
	"time"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
	"github.com/vidurdewan/the-digest-sub002/internal/textutil"
)

// Scorer applies a rule table plus the metadata signals.
type Scorer struct {
	now   func() time.Time
	rules []Rule
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithClock fixes the reference time used by the recency signal.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRules replaces the content rule table.
func WithRules(rules []Rule) Option {
	return func(s *Scorer) {
		s.rules = rules
	}
}

// NewScorer builds a scorer using DefaultRules and the wall clock.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now, rules: DefaultRules}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score rates one article. batch holds the other articles scored in the same
// run; it only feeds the first-to-report signal, which is not awarded when
// the batch has no other article.
func (s *Scorer) Score(article domain.Article, batch []domain.Article) domain.RankingResult {
	siblings := make([]domain.Article, 0, len(batch)+1)
	for _, other := range batch {
		if other.ID != article.ID {
			siblings = append(siblings, other)
		}
	}

	var first *bool
	if len(siblings) > 0 {
		all := append(siblings, article)
		isFirst := newReportIndex(all).isFirst(len(all) - 1)
		first = &isFirst
	}

	return s.score(article, s.now(), first)
}

// ScoreBatch rates every article against the rest of the batch.
func (s *Scorer) ScoreBatch(articles []domain.Article) []domain.RankingResult {
	results := make([]domain.RankingResult, len(articles))
	if len(articles) == 0 {
		return results
	}

	now := s.now()
	var index *reportIndex
	if len(articles) > 1 {
		index = newReportIndex(articles)
	}

	for i, article := range articles {
		var first *bool
		if index != nil {
			isFirst := index.isFirst(i)
			first = &isFirst
		}
		results[i] = s.score(article, now, first)
	}
	return results
}

func (s *Scorer) score(article domain.Article, now time.Time, first *bool) domain.RankingResult {
	breakdown := domain.Breakdown{{Signal: domain.SignalBase, Points: BaseScore(article.SourceTier)}}

	text := scanText(article)
	for _, rule := range s.rules {
		if rule.Pattern == nil || !rule.Pattern.MatchString(text) {
			continue
		}
		if rule.Unless != nil && rule.Unless.MatchString(text) {
			continue
		}
		breakdown = append(breakdown, domain.Contribution{Signal: rule.Signal, Points: rule.Points})
	}

	if !article.PublishedAt.IsZero() && now.Sub(article.PublishedAt) < RecencyWindowHours*time.Hour {
		breakdown = append(breakdown, domain.Contribution{Signal: domain.SignalRecency, Points: RecencyBonus})
	}
	if article.IsVIP {
		breakdown = append(breakdown, domain.Contribution{Signal: domain.SignalVIP, Points: VIPBonus})
	}
	if first != nil && *first {
		breakdown = append(breakdown, domain.Contribution{Signal: domain.SignalFirstToReport, Points: FirstToReportBonus})
	}

	return domain.RankingResult{
		ArticleID:    article.ID,
		RankingScore: breakdown.Total(),
		Breakdown:    breakdown,
	}
}

func scanText(article domain.Article) string {
	content := textutil.PlainText(textutil.Truncate(article.Content, ContentScanLimit))
	return strings.ToLower(article.Title + " " + content)
}
