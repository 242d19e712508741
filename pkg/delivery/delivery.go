// Package delivery renders synthesis results for humans: stdout for CLI use
// and optional SMTP email for scheduled runs.
package delivery

import (
	"fmt"
	"io"
	"strings"

	"github.com/umputun/devscope/pkg/domain"
)

var digestHeaders = map[domain.DigestType]string{
	domain.DigestDaily:         "DAILY ENTERPRISE OPPORTUNITY SCAN",
	domain.DigestWeekly:        "WEEKLY ENTERPRISE DEV-TOOL SYNTHESIS",
	domain.DigestOpportunities: "ENTERPRISE OPPORTUNITY REPORT",
}

const separatorWidth = 60

// WriteDigest renders a digest with a framed header to w
func WriteDigest(w io.Writer, digest *domain.Digest) {
	header, ok := digestHeaders[digest.Type]
	if !ok {
		header = strings.ToUpper(string(digest.Type))
	}
	sep := strings.Repeat("─", separatorWidth)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  %s\n", header)
	fmt.Fprintf(w, "  %s\n", digest.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(w, "  (%d items analyzed)\n", digest.ItemCount)
	fmt.Fprintf(w, "%s\n\n%s\n\n%s\n", sep, digest.Content, sep)
}

// WriteQA renders a question/answer pair to w
func WriteQA(w io.Writer, qa *domain.QAResult) {
	sep := strings.Repeat("─", separatorWidth)

	fmt.Fprintf(w, "\n%s\n  Q&A\n%s\n", sep, sep)
	fmt.Fprintf(w, "  Q: %s\n", qa.Question)
	fmt.Fprintf(w, "  (%d sources searched)\n", qa.SourcesUsed)
	fmt.Fprintf(w, "%s\n\n%s\n\n%s\n", sep, qa.Answer, sep)
}
