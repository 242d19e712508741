package domain

import "time"

// effort estimates the LLM is allowed to return, anything else fails validation
const (
	EffortWeekend = "weekend"
	EffortWeeks   = "1-2 weeks"
	EffortMonth   = "month+"
)

// EvidenceRef points from an opportunity back to a collected item that supports it
type EvidenceRef struct {
	Source    string `json:"source"`
	ItemTitle string `json:"item_title"`
	URL       string `json:"url"`
	Score     int    `json:"score"`
}

// Opportunity is a structured, evidence-backed claim that a commercial tooling
// opportunity exists. ID is a stable slug which may recur across runs as the
// model re-proposes the same opportunity; (ID, RunID) is the real primary key.
type Opportunity struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Pain             string        `json:"pain"`
	TargetBuyer      string        `json:"target_buyer"`
	SolutionShape    string        `json:"solution_shape"`
	MarketType       string        `json:"market_type"`
	EffortEstimate   string        `json:"effort_estimate"`
	Monetization     string        `json:"monetization"`
	Moat             string        `json:"moat"`
	Confidence       int           `json:"confidence"`
	Evidence         []EvidenceRef `json:"evidence"`
	CompetitionNotes string        `json:"competition_notes,omitempty"`
	GeneratedAt      time.Time     `json:"generated_at"`
	RunID            int64         `json:"run_id,omitempty"` // assigned at persistence time
}

// Run is one immutable batch of opportunities produced by a single extraction cycle
type Run struct {
	ID               int64     `json:"id"`
	DigestID         *int64    `json:"digest_id,omitempty"` // optional free-text digest produced alongside
	ItemCount        int       `json:"item_count"`
	OpportunityCount int       `json:"opportunity_count"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// TrendPoint is one observation of an opportunity in a particular run
type TrendPoint struct {
	RunID       int64     `json:"run_id"`
	Confidence  int       `json:"confidence"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Trend groups all historical records sharing an opportunity id across runs,
// ordered by generation time. Title comes from the most recent record.
type Trend struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	DataPoints []TrendPoint `json:"data_points"`
}

// OpportunityFilter holds query criteria for stored opportunities
type OpportunityFilter struct {
	MinConfidence int
	TargetBuyer   string
	MarketType    string
	Since         time.Time
	Limit         int
	Offset        int
}
