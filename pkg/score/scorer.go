// Package score implements deterministic signal scoring for collected items.
// No LLM, no network, just pattern matching and per-source engagement
// heuristics composed into a single clamped 0-100 value.
package score

import (
	"sort"
	"strings"

	"github.com/umputun/devscope/pkg/domain"
)

// DefaultThreshold is the score below which items are discarded by Filter
// unless the caller overrides it.
const DefaultThreshold = 40

const baseScore = 20

// Scorer computes item scores from a pattern set and per-source engagement
// heuristics. Zero I/O, safe for concurrent use once constructed.
type Scorer struct {
	patterns   PatternSet
	engagement map[domain.Source]engagementFunc
}

// NewScorer creates a scorer with the given pattern set
func NewScorer(patterns PatternSet) *Scorer {
	return &Scorer{patterns: patterns, engagement: defaultEngagement()}
}

// Score sets item.Score deterministically and returns it. Re-scoring an
// already scored item yields the same value, the score never depends on the
// previous one.
func (s *Scorer) Score(item *domain.Item) int {
	text := strings.ToLower(item.Title + "\n" + item.Body)

	total := baseScore
	total += s.patternScore(text)
	total += s.engagementScore(item)
	total += bodyQualityScore(item.Body)

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	item.Score = total
	return total
}

// Filter scores every item, keeps the ones at or above threshold and returns
// them sorted by score descending. Ties are broken by source and source id so
// the order is stable across runs.
func (s *Scorer) Filter(items []domain.Item, threshold int) []domain.Item {
	res := make([]domain.Item, 0, len(items))
	for i := range items {
		s.Score(&items[i])
		if items[i].Score >= threshold {
			res = append(res, items[i])
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		if res[i].Source != res[j].Source {
			return res[i].Source < res[j].Source
		}
		return res[i].SourceID < res[j].SourceID
	})
	return res
}

// patternScore sums deltas of every matching pattern across all three tables.
// Each pattern contributes its delta at most once, match presence not count.
func (s *Scorer) patternScore(text string) int {
	total := 0
	for _, list := range [][]Pattern{s.patterns.Churn, s.patterns.Enterprise, s.patterns.Noise} {
		for _, p := range list {
			if p.re.MatchString(text) {
				total += p.delta
			}
		}
	}
	return total
}

func (s *Scorer) engagementScore(item *domain.Item) int {
	fn, ok := s.engagement[item.Source]
	if !ok {
		return 0
	}
	return fn(item)
}

// bodyQualityScore rewards substantive content and penalizes near-empty items
func bodyQualityScore(body string) int {
	switch l := len(strings.TrimSpace(body)); {
	case l < 50:
		return -10
	case l < 200:
		return 0
	case l < 1000:
		return 5
	default:
		return 10
	}
}
