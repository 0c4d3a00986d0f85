package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic is one of the fixed feed categories.
type Topic string

const (
	TopicVCStartups         Topic = "vc_startups"
	TopicFundraising        Topic = "fundraising_acquisitions"
	TopicExecutiveMovements Topic = "executive_movements"
	TopicFinancialMarkets   Topic = "financial_markets"
	TopicGeopolitics        Topic = "geopolitics"
	TopicAutomotive         Topic = "automotive"
	TopicScienceTech        Topic = "science_tech"
	TopicLocalNews          Topic = "local_news"
	TopicPolitics           Topic = "politics"
)

// Topics lists every known topic in display order.
var Topics = []Topic{
	TopicVCStartups,
	TopicFundraising,
	TopicExecutiveMovements,
	TopicFinancialMarkets,
	TopicGeopolitics,
	TopicAutomotive,
	TopicScienceTech,
	TopicLocalNews,
	TopicPolitics,
}

// ParseTopic validates a stored topic value.
func ParseTopic(value string) (Topic, error) {
	candidate := Topic(strings.ToLower(strings.TrimSpace(value)))
	for _, t := range Topics {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", value)
}

// SourceTier buckets a publication by editorial credibility.
type SourceTier int

const (
	TierUnknown SourceTier = 0
	TierPremium SourceTier = 1
	TierMid     SourceTier = 2
	TierGeneral SourceTier = 3
)

// EntityType classifies a key entity extracted by summarization.
type EntityType string

const (
	EntityCompany EntityType = "company"
	EntityPerson  EntityType = "person"
	EntityFund    EntityType = "fund"
	EntityKeyword EntityType = "keyword"
)

// Entity is a named thing mentioned by an article or newsletter.
type Entity struct {
	Name string     `json:"name"`
	Type EntityType `json:"type"`
}

// Summary is produced upstream by the summarizer and consumed read-only here.
type Summary struct {
	Brief        string   `json:"brief,omitempty"`
	TheNews      string   `json:"theNews,omitempty"`
	WhyItMatters string   `json:"whyItMatters,omitempty"`
	TheContext   string   `json:"theContext,omitempty"`
	KeyEntities  []Entity `json:"keyEntities,omitempty"`
}

// Text joins the free-text sections used for entity containment checks.
func (s *Summary) Text() string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{s.Brief, s.TheNews, s.WhyItMatters, s.TheContext} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Article is an ingested news item as the ranking core sees it.
type Article struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"-"`
	URL               string     `json:"url"`
	Source            string     `json:"source"`
	Topic             Topic      `json:"topic"`
	SourceTier        SourceTier `json:"sourceTier"`
	PublishedAt       time.Time  `json:"publishedAt"`
	IsVIP             bool       `json:"isVip"`
	RankingScore      *int       `json:"rankingScore,omitempty"`
	WatchlistMatches  int        `json:"watchlistMatches"`
	IsRead            bool       `json:"isRead"`
	IsPrimaryDocument bool       `json:"isPrimaryDocument,omitempty"`
	Summary           *Summary   `json:"summary,omitempty"`
}

// EntityNames returns the summary's key-entity names in order.
func (a Article) EntityNames() []string {
	if a.Summary == nil {
		return nil
	}
	names := make([]string, 0, len(a.Summary.KeyEntities))
	for _, e := range a.Summary.KeyEntities {
		if name := strings.TrimSpace(e.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Newsletter is a digest email already summarized upstream.
type Newsletter struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Publication string    `json:"publication"`
	URL         string    `json:"url,omitempty"`
	ReceivedAt  time.Time `json:"receivedAt"`
	Summary     *Summary  `json:"summary,omitempty"`
}

// EntityNames returns the summary's key-entity names in order.
func (n Newsletter) EntityNames() []string {
	if n.Summary == nil {
		return nil
	}
	names := make([]string, 0, len(n.Summary.KeyEntities))
	for _, e := range n.Summary.KeyEntities {
		if name := strings.TrimSpace(e.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
