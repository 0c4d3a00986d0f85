package scoring

import (
	"regexp"

	"github.com/vidurdewan/the-digest-sub002/internal/domain"
)

// Rule awards Points once when Pattern matches the scored text, unless the
// optional Unless pattern also matches. Negative points are penalties.
type Rule struct {
	Signal  domain.Signal
	Points  int
	Pattern *regexp.Regexp
	Unless  *regexp.Regexp
}

var (
	originalReporting = regexp.MustCompile(`\b(exclusive|breaking|scoop|investigation|first reported)\b`)
	authorityFigures  = regexp.MustCompile(`\b(jerome powell|janet yellen|christine lagarde|jensen huang|elon musk|sam altman|satya nadella|tim cook|sundar pichai|jamie dimon|warren buffett|mark zuckerberg|larry fink)\b`)
	financialScale    = regexp.MustCompile(`\bbillion\b|\$\d+(\.\d+)?\s?b\b|\bipo\b|\bacquisition\b`)
	broadImpact       = regexp.MustCompile(`\b(global|nationwide|industry-wide|market-wide)\b`)
	derivativePhrases = regexp.MustCompile(`\b(reacts to|responds to|following news|after reports)\b`)
	attribution       = regexp.MustCompile(`\b(according to reports|according to sources|sources say|sources said|people familiar with the matter)\b`)
)

// DefaultRules is the content rule table in evaluation order.
var DefaultRules = []Rule{
	{Signal: domain.SignalExclusive, Points: 15, Pattern: originalReporting},
	{Signal: domain.SignalAuthority, Points: 10, Pattern: authorityFigures},
	{Signal: domain.SignalFinancial, Points: 10, Pattern: financialScale},
	{Signal: domain.SignalBroadImpact, Points: 5, Pattern: broadImpact},
	{Signal: domain.SignalDerivative, Points: -15, Pattern: derivativePhrases},
	{Signal: domain.SignalSummarizing, Points: -10, Pattern: attribution, Unless: originalReporting},
}

// Metadata bonuses and limits.
const (
	RecencyBonus       = 5
	RecencyWindowHours = 2
	VIPBonus           = 20
	FirstToReportBonus = 10

	// FirstReportSimilarity is the title-word Jaccard at which two articles
	// are treated as the same story.
	FirstReportSimilarity = 0.40

	// ContentScanLimit bounds how much raw content is parsed and scanned.
	ContentScanLimit = 3000
)

// BaseScore maps a source tier to its base score.
func BaseScore(tier domain.SourceTier) int {
	switch tier {
	case domain.TierPremium:
		return 50
	case domain.TierMid:
		return 25
	default:
		return 0
	}
}
