package domain

// Signal names a single scoring contribution.
type Signal string

const (
	SignalBase          Signal = "base"
	SignalExclusive     Signal = "exclusive"
	SignalAuthority     Signal = "authority"
	SignalFinancial     Signal = "financial"
	SignalBroadImpact   Signal = "broadImpact"
	SignalRecency       Signal = "recency"
	SignalVIP           Signal = "vip"
	SignalFirstToReport Signal = "firstToReport"
	SignalDerivative    Signal = "derivative"
	SignalSummarizing   Signal = "summarizing"
)

// Contribution is one named term of a score.
type Contribution struct {
	Signal Signal `json:"signal"`
	Points int    `json:"points"`
}

// Breakdown lists every term that contributed to a score, in rule order.
type Breakdown []Contribution

// Points returns the contribution of a signal, zero when absent.
func (b Breakdown) Points(signal Signal) int {
	for _, c := range b {
		if c.Signal == signal {
			return c.Points
		}
	}
	return 0
}

// Has reports whether the signal fired.
func (b Breakdown) Has(signal Signal) bool {
	for _, c := range b {
		if c.Signal == signal {
			return true
		}
	}
	return false
}

// Total sums all contributions.
func (b Breakdown) Total() int {
	total := 0
	for _, c := range b {
		total += c.Points
	}
	return total
}

// RankingResult is the scorer's output for one article.
type RankingResult struct {
	ArticleID    string    `json:"articleId"`
	RankingScore int       `json:"rankingScore"`
	Breakdown    Breakdown `json:"breakdown"`
}

// RankingStats summarizes a batch ranking run.
type RankingStats struct {
	Ranked      int `json:"ranked"`
	Stored      int `json:"stored"`
	Errors      int `json:"errors"`
	TopScore    int `json:"topScore"`
	BottomScore int `json:"bottomScore"`
}

// RelatedType classifies a cross-reference target.
type RelatedType string

const (
	RelatedArticle         RelatedType = "article"
	RelatedNewsletter      RelatedType = "newsletter"
	RelatedPrimaryDocument RelatedType = "primary-document"
)

// RelatedItem links to content discussing the same entities.
type RelatedItem struct {
	Type      RelatedType `json:"type"`
	ID        string      `json:"id"`
	Source    string      `json:"source"`
	Title     string      `json:"title"`
	SourceURL string      `json:"sourceUrl,omitempty"`
	Score     int         `json:"-"`
}

// Coverage reports how many outlets ran the same story.
type Coverage struct {
	Count   int      `json:"count"`
	Sources []string `json:"sources"`
}
