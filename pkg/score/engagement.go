package score

import (
	"strings"

	"github.com/umputun/devscope/pkg/domain"
)

// engagementFunc maps source-specific metadata to a bounded score contribution.
// Missing or malformed metadata keys contribute zero, never an error.
type engagementFunc func(item *domain.Item) int

// defaultEngagement returns the per-source dispatch table. Sources without an
// entry contribute nothing.
func defaultEngagement() map[domain.Source]engagementFunc {
	return map[domain.Source]engagementFunc{
		domain.SourceGithubIssue:      issueEngagement,
		domain.SourceGithubRelease:    releaseEngagement,
		domain.SourceGithubDiscussion: discussionEngagement,
		domain.SourceHackerNews:       hackerNewsEngagement,
		domain.SourceNVDCVE:           cveEngagement,
	}
}

var severityLabels = map[string]bool{
	"bug": true, "breaking": true, "regression": true, "security": true, "critical": true,
}

var opportunityLabels = map[string]bool{
	"enhancement": true, "feature-request": true, "feature": true, "feature request": true,
	"help-wanted": true, "help wanted": true, "proposal": true, "rfc": true,
}

func hasLabel(labels []string, set map[string]bool) bool {
	for _, l := range labels {
		if set[strings.ToLower(l)] {
			return true
		}
	}
	return false
}

func issueEngagement(item *domain.Item) int {
	score := min(item.MetaInt("reactions")/5, 15)
	score += min(item.MetaInt("comments")/3, 10)

	labels := item.MetaStrings("labels")
	if hasLabel(labels, severityLabels) {
		score += 15
	}
	if hasLabel(labels, opportunityLabels) {
		score += 10
	}
	return score
}

func releaseEngagement(item *domain.Item) int {
	if item.MetaBool("prerelease") {
		return -5
	}
	return 0
}

func discussionEngagement(item *domain.Item) int {
	upvotes := item.MetaInt("upvotes")
	score := min(upvotes/3, 20)
	score += min(item.MetaInt("comments")/5, 10)

	// unanswered with real engagement is the strongest unmet-need signal
	if answered, ok := item.Metadata["has_answer"].(bool); ok && !answered && upvotes >= 10 {
		score += 15
	}

	switch strings.ToLower(item.MetaString("category")) {
	case "ideas", "feature request", "feature requests", "feedback", "feature", "enhancements":
		score += 10
	}

	if hasLabel(item.MetaStrings("labels"), opportunityLabels) {
		score += 10
	}
	return score
}

func hackerNewsEngagement(item *domain.Item) int {
	score := min(item.MetaInt("score")/50, 15)
	score += min(item.MetaInt("comments")/30, 10)

	// keyword-targeted search hits get a small relevance boost
	if item.MetaString("search_keyword") != "" {
		score += 5
	}
	return score
}

func cveEngagement(item *domain.Item) int {
	cvss := item.MetaFloat("cvss_score")
	switch {
	case cvss >= 9.0:
		return 20 // critical
	case cvss >= 7.0:
		return 15 // high
	case cvss >= 4.0:
		return 5 // medium
	}
	return 0
}
