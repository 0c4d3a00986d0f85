// Package diversity picks source- and topic-diverse subsets of ranked articles.
package diversity

import "github.com/vidurdewan/the-digest-sub002/internal/domain"

const (
	DefaultCount             = 5
	DefaultMaxPerPublication = 2
	DefaultMaxPerTopic       = 2

	// heroSourceCap bounds stories per publication in the pre-ranked variant.
	heroSourceCap = 2
	// targetTopics is the topic spread the repair pass tries to reach.
	targetTopics = 3
)

// Caps bounds a capped selection. Non-positive values fall back to defaults.
type Caps struct {
	Count             int
	MaxPerPublication int
	MaxPerTopic       int
}

func (c Caps) withDefaults() Caps {
	if c.Count <= 0 {
		c.Count = DefaultCount
	}
	if c.MaxPerPublication <= 0 {
		c.MaxPerPublication = DefaultMaxPerPublication
	}
	if c.MaxPerTopic <= 0 {
		c.MaxPerTopic = DefaultMaxPerTopic
	}
	return c
}

// SelectCapped scans a score-ordered pool once and keeps every candidate
// that fits under both the publication and the topic caps.
func SelectCapped(pool []domain.Article, caps Caps) []domain.Article {
	caps = caps.withDefaults()

	selected := make([]domain.Article, 0, caps.Count)
	perPublication := map[string]int{}
	perTopic := map[domain.Topic]int{}

	for _, article := range pool {
		if len(selected) == caps.Count {
			break
		}
		pub := PublicationKey(article)
		if perPublication[pub] >= caps.MaxPerPublication || perTopic[article.Topic] >= caps.MaxPerTopic {
			continue
		}
		perPublication[pub]++
		perTopic[article.Topic]++
		selected = append(selected, article)
	}
	return selected
}

// Selection splits a ranked pool into featured stories and the rest.
type Selection struct {
	TopStories []domain.Article `json:"topStories"`
	Remaining  []domain.Article `json:"remaining"`
}

// SelectDiverseTopStories fills count slots from an already ranked pool.
//
// Phase one is a greedy forward pass: rank one is always the hero, then each
// slot takes the first candidate under the per-source cap whose topic is new,
// else the first candidate under the cap, else the first unused candidate.
// Phase two runs once, backwards over the non-hero slots, swapping a slot
// whose topic is repeated for the best unused candidate with a new topic.
// Phase two is not a solver and can stop short of targetTopics even when
// some arrangement would reach it.
func SelectDiverseTopStories(ranked []domain.Article, count int) Selection {
	if count <= 0 {
		count = DefaultCount
	}
	if len(ranked) <= count {
		return Selection{TopStories: ranked, Remaining: []domain.Article{}}
	}

	s := newSlotState(ranked)
	s.take(0)
	for len(s.slots) < count {
		pick := s.nextCandidate()
		if pick < 0 {
			break
		}
		s.take(pick)
	}

	if s.distinctTopics() < targetTopics {
		s.repair()
	}

	return s.selection()
}

type slotState struct {
	ranked     []domain.Article
	pubs       []string
	used       []bool
	slots      []int
	perSource  map[string]int
	topicCount map[domain.Topic]int
}

func newSlotState(ranked []domain.Article) *slotState {
	pubs := make([]string, len(ranked))
	for i, a := range ranked {
		pubs[i] = PublicationKey(a)
	}
	return &slotState{
		ranked:     ranked,
		pubs:       pubs,
		used:       make([]bool, len(ranked)),
		perSource:  map[string]int{},
		topicCount: map[domain.Topic]int{},
	}
}

func (s *slotState) take(i int) {
	s.used[i] = true
	s.slots = append(s.slots, i)
	s.perSource[s.pubs[i]]++
	s.topicCount[s.ranked[i].Topic]++
}

func (s *slotState) nextCandidate() int {
	firstValid, firstUnused := -1, -1
	for i := range s.ranked {
		if s.used[i] {
			continue
		}
		if firstUnused < 0 {
			firstUnused = i
		}
		if s.perSource[s.pubs[i]] >= heroSourceCap {
			continue
		}
		if firstValid < 0 {
			firstValid = i
		}
		if s.topicCount[s.ranked[i].Topic] == 0 {
			return i
		}
	}
	if firstValid >= 0 {
		return firstValid
	}
	return firstUnused
}

func (s *slotState) distinctTopics() int {
	n := 0
	for _, c := range s.topicCount {
		if c > 0 {
			n++
		}
	}
	return n
}

// repair walks the non-hero slots from last to first and swaps out slots
// whose topic also appears elsewhere in the selection.
func (s *slotState) repair() {
	for slot := len(s.slots) - 1; slot >= 1; slot-- {
		current := s.slots[slot]
		topic := s.ranked[current].Topic
		if s.topicCount[topic] < 2 {
			continue
		}

		replacement := s.newTopicCandidate(current)
		if replacement < 0 {
			continue
		}

		s.used[current] = false
		s.perSource[s.pubs[current]]--
		s.topicCount[topic]--

		s.used[replacement] = true
		s.perSource[s.pubs[replacement]]++
		s.topicCount[s.ranked[replacement].Topic]++
		s.slots[slot] = replacement

		if s.distinctTopics() >= targetTopics {
			return
		}
	}
}

// newTopicCandidate returns the best-ranked unused article with an
// unselected topic that stays under the source cap once outgoing leaves.
func (s *slotState) newTopicCandidate(outgoing int) int {
	for i := range s.ranked {
		if s.used[i] || s.topicCount[s.ranked[i].Topic] > 0 {
			continue
		}
		sourceCount := s.perSource[s.pubs[i]]
		if s.pubs[i] == s.pubs[outgoing] {
			sourceCount--
		}
		if sourceCount >= heroSourceCap {
			continue
		}
		return i
	}
	return -1
}

func (s *slotState) selection() Selection {
	top := make([]domain.Article, 0, len(s.slots))
	for _, i := range s.slots {
		top = append(top, s.ranked[i])
	}
	remaining := make([]domain.Article, 0, len(s.ranked)-len(s.slots))
	for i, a := range s.ranked {
		if !s.used[i] {
			remaining = append(remaining, a)
		}
	}
	return Selection{TopStories: top, Remaining: remaining}
}
