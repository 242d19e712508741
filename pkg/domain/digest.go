package domain

import "time"

// DigestType names the synthesis flavor that produced a digest
type DigestType string

// known digest types
const (
	DigestDaily         DigestType = "daily"
	DigestWeekly        DigestType = "weekly"
	DigestOpportunities DigestType = "opportunities"
)

// Digest is the free-text output of one synthesis call
type Digest struct {
	ID          int64      `json:"id"`
	Type        DigestType `json:"type"`
	Content     string     `json:"content"`
	ItemCount   int        `json:"item_count"` // how many items went into it
	GeneratedAt time.Time  `json:"generated_at"`
}

// QAResult is the answer to an ad-hoc question over recent items
type QAResult struct {
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	SourcesUsed int       `json:"sources_used"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Stats summarizes the collected corpus, for the stats command and API
type Stats struct {
	TotalItems int64            `json:"total_items"`
	BySource   map[string]int64 `json:"by_source"`
}
