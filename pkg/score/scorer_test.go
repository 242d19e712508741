package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/devscope/pkg/domain"
)

func TestScorer_Score_Deterministic(t *testing.T) {
	s := NewScorer(DefaultPatternSet())

	item := domain.Item{
		Source:   domain.SourceGithubIssue,
		SourceID: "123",
		Title:    "Breaking change in v2.0.0: removed legacy API",
		Body:     strings.Repeat("the migration path is unclear and the workaround is painful. ", 10),
		Metadata: map[string]any{"reactions": 42, "comments": 12, "labels": []string{"bug", "breaking"}},
	}

	first := s.Score(&item)
	assert.Equal(t, first, item.Score)

	// re-scoring an already scored item yields the same value
	second := s.Score(&item)
	assert.Equal(t, first, second)
}

func TestScorer_Score_Clamped(t *testing.T) {
	s := NewScorer(DefaultPatternSet())

	t.Run("maxed out stays at 100", func(t *testing.T) {
		item := domain.Item{
			Source:   domain.SourceGithubDiscussion,
			SourceID: "max",
			Title:    "Breaking change post-mortem: outage after rollback, critical vulnerability CVE-2024-1234",
			Body: strings.Repeat(
				"flaky tests, alert fatigue, SOC 2 compliance audit, secrets management pain, "+
					"dependency vulnerability hell, merge queue nightmare, missing integration. ", 20),
			Metadata: map[string]any{
				"upvotes": 1000, "comments": 500, "has_answer": false,
				"category": "ideas", "labels": []string{"feature-request"},
			},
		}
		assert.Equal(t, 100, s.Score(&item))
	})

	t.Run("noise-heavy stays at 0", func(t *testing.T) {
		item := domain.Item{
			Source:   domain.SourceRSS,
			SourceID: "min",
			Title:    "Excited to announce our revolutionary game-changer",
			Body:     "You won't believe this 10x developer productivity unlock. We're hiring! Check out my tool.",
			Metadata: map[string]any{},
		}
		got := s.Score(&item)
		assert.GreaterOrEqual(t, got, 0)
		assert.Equal(t, 0, got)
	})
}

func TestScorer_Score_ThreadBaitPenalized(t *testing.T) {
	s := NewScorer(DefaultPatternSet())

	plain := domain.Item{
		Source:   domain.SourceRSS,
		SourceID: "plain",
		Title:    "Why we moved off our flaky test setup",
		Body:     strings.Repeat("the migration needed a workaround for every flaky test in ci. ", 5),
		Metadata: map[string]any{},
	}
	bait := plain
	bait.SourceID = "bait"
	bait.Body = plain.Body + "full story in the thread 🧵"

	assert.Equal(t, s.Score(&plain)-10, s.Score(&bait), "trailing thread emoji is an anti-signal")
}

func TestScorer_Score_MalformedMetadata(t *testing.T) {
	s := NewScorer(DefaultPatternSet())

	// garbage metadata must default to zero contribution, not panic
	item := domain.Item{
		Source:   domain.SourceGithubIssue,
		SourceID: "junk",
		Title:    "plain title",
		Body:     "plain body text long enough to not be penalized for emptiness here",
		Metadata: map[string]any{
			"reactions": "not-a-number",
			"comments":  []int{1, 2},
			"labels":    "bug", // should be a list
		},
	}
	require.NotPanics(t, func() { s.Score(&item) })

	clean := domain.Item{Source: domain.SourceGithubIssue, SourceID: "clean",
		Title: item.Title, Body: item.Body, Metadata: map[string]any{}}
	assert.Equal(t, s.Score(&clean), item.Score, "malformed metadata contributes nothing")
}

func TestScorer_Filter(t *testing.T) {
	s := NewScorer(DefaultPatternSet())

	items := []domain.Item{
		{Source: domain.SourceRSS, SourceID: "a", Title: "quiet note", Body: "nothing interesting"},
		{Source: domain.SourceGithubIssue, SourceID: "b",
			Title: "Breaking change: flaky tests block merge queue",
			Body:  strings.Repeat("CI is flaky and the workflow keeps failing. ", 10),
			Metadata: map[string]any{"reactions": 50, "comments": 30,
				"labels": []string{"bug"}}},
		{Source: domain.SourceHackerNews, SourceID: "c",
			Title:    "Post-mortem: the outage that broke our deploys",
			Body:     strings.Repeat("lessons learned from the incident report. ", 30),
			Metadata: map[string]any{"score": 300, "comments": 150}},
	}

	got := s.Filter(items, DefaultThreshold)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score, "sorted by score desc")
	}
	for _, it := range got {
		assert.GreaterOrEqual(t, it.Score, DefaultThreshold)
	}
}

func TestScorer_Filter_Monotonic(t *testing.T) {
	s := NewScorer(DefaultPatternSet())

	items := []domain.Item{
		{Source: domain.SourceRSS, SourceID: "1", Title: "breaking change ahead", Body: strings.Repeat("migration ", 40)},
		{Source: domain.SourceRSS, SourceID: "2", Title: "hello", Body: "short"},
		{Source: domain.SourceRSS, SourceID: "3", Title: "flaky test fatigue", Body: strings.Repeat("alert fatigue ", 40)},
	}

	low := s.Filter(append([]domain.Item(nil), items...), 20)
	high := s.Filter(append([]domain.Item(nil), items...), 60)

	// every item surviving the higher threshold survives the lower one
	lowIDs := map[string]bool{}
	for _, it := range low {
		lowIDs[it.SourceID] = true
	}
	for _, it := range high {
		assert.True(t, lowIDs[it.SourceID], "filter(t2) must be a subset of filter(t1) for t1<=t2")
	}
}

func TestScorer_ComplianceDiscussionScenario(t *testing.T) {
	// a high-engagement unanswered discussion about compliance automation has to
	// clear the default threshold on pattern + engagement deltas alone
	s := NewScorer(DefaultPatternSet())

	item := domain.Item{
		Source:   domain.SourceGithubDiscussion,
		SourceID: "disc-1",
		Title:    "SOC 2 compliance audit automation",
		Body:     "Is there any tooling that automates evidence collection for a SOC 2 compliance audit?",
		Metadata: map[string]any{"upvotes": 80, "comments": 12, "has_answer": false},
	}

	got := s.Score(&item)
	assert.Greater(t, got, DefaultThreshold)
}

func TestBodyQualityScore(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"very short penalized", "tiny", -10},
		{"short neutral", strings.Repeat("a", 100), 0},
		{"medium small bonus", strings.Repeat("a", 500), 5},
		{"long larger bonus", strings.Repeat("a", 2000), 10},
		{"whitespace only counts as empty", "   \n\t  ", -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodyQualityScore(tt.body))
		})
	}
}

func TestEngagement_Issue(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want int
	}{
		{"reactions capped at 15", map[string]any{"reactions": 1000}, 15},
		{"comments capped at 10", map[string]any{"comments": 300}, 10},
		{"severity label bonus", map[string]any{"labels": []string{"Security"}}, 15},
		{"opportunity label bonus", map[string]any{"labels": []string{"feature-request"}}, 10},
		{"both label bonuses stack", map[string]any{"labels": []string{"bug", "rfc"}}, 25},
		{"empty metadata is zero", map[string]any{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.Item{Source: domain.SourceGithubIssue, Metadata: tt.meta}
			assert.Equal(t, tt.want, issueEngagement(&item))
		})
	}
}

func TestEngagement_Discussion(t *testing.T) {
	t.Run("unanswered high engagement bonus", func(t *testing.T) {
		item := domain.Item{Source: domain.SourceGithubDiscussion,
			Metadata: map[string]any{"upvotes": 30, "has_answer": false}}
		assert.Equal(t, 10+15, discussionEngagement(&item))
	})
	t.Run("answered gets no unmet-need bonus", func(t *testing.T) {
		item := domain.Item{Source: domain.SourceGithubDiscussion,
			Metadata: map[string]any{"upvotes": 30, "has_answer": true}}
		assert.Equal(t, 10, discussionEngagement(&item))
	})
	t.Run("ideas category bonus", func(t *testing.T) {
		item := domain.Item{Source: domain.SourceGithubDiscussion,
			Metadata: map[string]any{"category": "Ideas"}}
		assert.Equal(t, 10, discussionEngagement(&item))
	})
}

func TestEngagement_CVE(t *testing.T) {
	tests := []struct {
		name string
		cvss float64
		want int
	}{
		{"critical", 9.8, 20},
		{"high", 7.5, 15},
		{"medium", 5.0, 5},
		{"low", 2.1, 0},
		{"missing", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.Item{Source: domain.SourceNVDCVE, Metadata: map[string]any{"cvss_score": tt.cvss}}
			assert.Equal(t, tt.want, cveEngagement(&item))
		})
	}
}

func TestEngagement_Release(t *testing.T) {
	pre := domain.Item{Source: domain.SourceGithubRelease, Metadata: map[string]any{"prerelease": true}}
	assert.Equal(t, -5, releaseEngagement(&pre))

	full := domain.Item{Source: domain.SourceGithubRelease, Metadata: map[string]any{"prerelease": false}}
	assert.Equal(t, 0, releaseEngagement(&full))
}

func TestEngagement_HackerNews(t *testing.T) {
	item := domain.Item{Source: domain.SourceHackerNews,
		Metadata: map[string]any{"score": 250, "comments": 90, "search_keyword": "terraform"}}
	assert.Equal(t, 5+3+5, hackerNewsEngagement(&item))
}
