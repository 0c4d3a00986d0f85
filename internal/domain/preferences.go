package domain

import (
	"fmt"
	"strings"
)

// InterestLevel is the user's declared interest in a topic.
type InterestLevel string

const (
	InterestHigh   InterestLevel = "high"
	InterestMedium InterestLevel = "medium"
	InterestLow    InterestLevel = "low"
	InterestHidden InterestLevel = "hidden"
)

// ParseInterestLevel validates a declared interest level.
func ParseInterestLevel(value string) (InterestLevel, error) {
	switch level := InterestLevel(strings.ToLower(strings.TrimSpace(value))); level {
	case InterestHigh, InterestMedium, InterestLow, InterestHidden:
		return level, nil
	default:
		return "", fmt.Errorf("unknown interest level %q", value)
	}
}

// TopicPreferences maps topics to interest levels. Hidden topics never appear
// in personalized views.
type TopicPreferences map[Topic]InterestLevel

// IsHidden reports whether the topic is hidden. A nil map hides nothing.
func (p TopicPreferences) IsHidden(topic Topic) bool {
	return p != nil && p[topic] == InterestHidden
}

// EngagementScores maps topics to accumulated interaction affinity.
type EngagementScores map[Topic]float64
