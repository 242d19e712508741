package synth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/devscope/pkg/domain"
)

func validOpportunityJSON(id string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"title": "Terraform drift detection",
		"pain": "teams discover drift only during incidents",
		"target_buyer": "Platform team",
		"solution_shape": "continuously diff live infra against state",
		"market_type": "boring/growing",
		"effort_estimate": "1-2 weeks",
		"monetization": "per-workspace, ACV 5-15k",
		"moat": "workflow lock-in",
		"confidence": 82,
		"evidence": [
			{"source": "github_issue", "item_title": "drift not detected", "url": "https://github.com/x/y/issues/1", "score": 75}
		],
		"competition_notes": "driftctl abandoned, Spacelift bundles it"
	}`, id)
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		errPart string
	}{
		{name: "bare array", input: `[1, 2, 3]`, want: `[1, 2, 3]`},
		{name: "surrounded by prose", input: "Here you go:\n[{\"a\": 1}]\nHope that helps!", want: `[{"a": 1}]`},
		{name: "json code fence", input: "```json\n[{\"a\": 1}]\n```", want: `[{"a": 1}]`},
		{name: "plain code fence", input: "```\n[]\n```", want: `[]`},
		{name: "nested arrays", input: `prefix [[1, [2]], 3] suffix`, want: `[[1, [2]], 3]`},
		{name: "no array", input: `{"a": 1}`, errPart: "no JSON array found"},
		{name: "empty text", input: "", errPart: "no JSON array found"},
		{name: "unbalanced", input: `[{"a": [1, 2}`, errPart: "unbalanced brackets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONArray(tt.input)
			if tt.errPart != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errPart)
				assert.True(t, IsFormatError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOpportunities_Valid(t *testing.T) {
	raw := "Sure, here is the analysis:\n```json\n[" + validOpportunityJSON("terraform-drift") + "]\n```"
	opps, rejected, err := ParseOpportunities(raw)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "terraform-drift", opp.ID)
	assert.Equal(t, "Terraform drift detection", opp.Title)
	assert.Equal(t, domain.EffortWeeks, opp.EffortEstimate)
	assert.Equal(t, 82, opp.Confidence)
	require.Len(t, opp.Evidence, 1)
	assert.Equal(t, "github_issue", opp.Evidence[0].Source)
	assert.Equal(t, 75, opp.Evidence[0].Score)
	assert.Equal(t, "driftctl abandoned, Spacelift bundles it", opp.CompetitionNotes)
}

func TestParseOpportunities_EmptyArray(t *testing.T) {
	opps, rejected, err := ParseOpportunities("```json\n[]\n```")
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.NotNil(t, opps)
	assert.Empty(t, opps)
}

func TestParseOpportunities_PartialAcceptance(t *testing.T) {
	// second element has no evidence, third is valid
	raw := "[" + validOpportunityJSON("first") + `,
		{"id": "no-evidence", "title": "t", "pain": "p", "target_buyer": "b",
		 "solution_shape": "s", "market_type": "m", "effort_estimate": "weekend",
		 "monetization": "m", "moat": "m", "confidence": 50, "evidence": []},` +
		validOpportunityJSON("third") + "]"

	opps, rejected, err := ParseOpportunities(raw)
	require.NoError(t, err)
	require.Len(t, opps, 2)
	assert.Equal(t, "first", opps[0].ID)
	assert.Equal(t, "third", opps[1].ID)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0], "no-evidence")
	assert.Contains(t, rejected[0], "evidence")
}

func TestParseOpportunities_AllRejected(t *testing.T) {
	raw := `[{"id": "a"}, {"title": "b"}]`
	opps, rejected, err := ParseOpportunities(raw)
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.Contains(t, err.Error(), "all 2 opportunities failed validation")
	assert.Empty(t, opps)
	assert.Len(t, rejected, 2)
}

func TestParseOpportunities_MalformedJSON(t *testing.T) {
	_, _, err := ParseOpportunities(`[{"id": "a",}]`)
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.Contains(t, err.Error(), "parse JSON array")
}

func TestValidateOpportunity(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"id": "slug", "title": "t", "pain": "p", "target_buyer": "b",
			"solution_shape": "s", "market_type": "m", "effort_estimate": "weekend",
			"monetization": "m", "moat": "m", "confidence": float64(70),
			"evidence": []any{map[string]any{"source": "rss", "item_title": "x", "url": "https://e.com"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		errPart string
	}{
		{name: "valid", mutate: func(map[string]any) {}},
		{name: "missing title", mutate: func(d map[string]any) { delete(d, "title") }, errPart: "missing or empty required field: title"},
		{name: "whitespace pain", mutate: func(d map[string]any) { d["pain"] = "   " }, errPart: "missing or empty required field: pain"},
		{name: "missing confidence", mutate: func(d map[string]any) { delete(d, "confidence") }, errPart: "missing field: confidence"},
		{name: "string confidence", mutate: func(d map[string]any) { d["confidence"] = "82" }, errPart: "confidence must be a number"},
		{name: "confidence over 100", mutate: func(d map[string]any) { d["confidence"] = float64(101) }, errPart: "confidence must be 0-100"},
		{name: "negative confidence", mutate: func(d map[string]any) { d["confidence"] = float64(-1) }, errPart: "confidence must be 0-100"},
		{name: "bad effort", mutate: func(d map[string]any) { d["effort_estimate"] = "forever" }, errPart: "effort_estimate must be one of"},
		{name: "empty evidence", mutate: func(d map[string]any) { d["evidence"] = []any{} }, errPart: "at least 1 entry"},
		{name: "evidence not array", mutate: func(d map[string]any) { d["evidence"] = "nope" }, errPart: "must be array"},
		{name: "evidence missing url", mutate: func(d map[string]any) {
			d["evidence"] = []any{map[string]any{"source": "rss", "item_title": "x"}}
		}, errPart: "evidence[0] missing field: url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			errs := validateOpportunity(d)
			if tt.errPart == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Contains(t, strings.Join(errs, "; "), tt.errPart)
		})
	}
}
