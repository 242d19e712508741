package synth

import (
	"fmt"
	"strings"

	"github.com/umputun/devscope/pkg/domain"
)

// emptyItemsPlaceholder keeps the data section of a prompt visibly non-blank
// when nothing was collected.
const emptyItemsPlaceholder = "(no items collected)"

// bodyExcerptLen caps the per-item body excerpt so prompts stay bounded
const bodyExcerptLen = 500

// FormatItems renders a ranked item batch into a text block for a generation
// request. Callers pass items pre-sorted; only the first maxItems are used.
func FormatItems(items []domain.Item, maxItems int) string {
	if len(items) == 0 {
		return emptyItemsPlaceholder
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	blocks := make([]string, 0, len(items))
	for _, item := range items {
		body := item.Body
		if len(body) > bodyExcerptLen {
			body = body[:bodyExcerptLen]
		}
		blocks = append(blocks, fmt.Sprintf("[score=%d] [%s] %s\n  URL: %s\n  %s\n",
			item.Score, item.Source, item.Title, item.URL, body))
	}
	return strings.Join(blocks, "\n---\n")
}

// RenderOpportunitiesText converts structured opportunities to the
// human-readable summary saved as the run's companion digest.
func RenderOpportunitiesText(opportunities []domain.Opportunity) string {
	var sb strings.Builder
	for i, opp := range opportunities {
		fmt.Fprintf(&sb, "%d. %s (confidence: %d/100)\n", i+1, opp.Title, opp.Confidence)
		fmt.Fprintf(&sb, "   PAIN: %s\n", opp.Pain)
		fmt.Fprintf(&sb, "   TARGET BUYER: %s\n", opp.TargetBuyer)
		fmt.Fprintf(&sb, "   SOLUTION: %s\n", opp.SolutionShape)
		fmt.Fprintf(&sb, "   MARKET: %s\n", opp.MarketType)
		fmt.Fprintf(&sb, "   EFFORT: %s\n", opp.EffortEstimate)
		fmt.Fprintf(&sb, "   MONETIZATION: %s\n", opp.Monetization)
		fmt.Fprintf(&sb, "   MOAT: %s\n", opp.Moat)
		if opp.CompetitionNotes != "" {
			fmt.Fprintf(&sb, "   COMPETITION: %s\n", opp.CompetitionNotes)
		}
		if len(opp.Evidence) > 0 {
			fmt.Fprintf(&sb, "   EVIDENCE (%d sources):\n", len(opp.Evidence))
			for _, ev := range opp.Evidence {
				fmt.Fprintf(&sb, "     - [%s] %s\n       %s\n", ev.Source, ev.ItemTitle, ev.URL)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
