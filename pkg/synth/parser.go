package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/umputun/devscope/pkg/domain"
)

// FormatError means a generation response could not be turned into a usable
// opportunity list: no balanced JSON array, malformed JSON, or every element
// failing schema validation. It triggers the single repair attempt.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return e.Reason }

// IsFormatError reports whether err is a response-format failure
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func formatErr(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*\\n?")

// ExtractJSONArray pulls a balanced JSON array substring out of arbitrary
// response text, tolerating markdown code fences and surrounding prose.
func ExtractJSONArray(text string) (string, error) {
	text = strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))

	start := strings.Index(text, "[")
	if start == -1 {
		return "", formatErr("no JSON array found in response")
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", formatErr("unbalanced brackets in JSON array")
}

var validEfforts = map[string]bool{
	domain.EffortWeekend: true,
	domain.EffortWeeks:   true,
	domain.EffortMonth:   true,
}

var requiredStringFields = []string{
	"id", "title", "pain", "target_buyer", "solution_shape",
	"market_type", "effort_estimate", "monetization", "moat",
}

// ParseOpportunities parses generation output into opportunity records.
// Elements failing validation are dropped and their reasons returned in
// rejected; the call only fails when nothing at all can be used. An empty
// top-level array is a legitimate "nothing qualifies" outcome.
func ParseOpportunities(rawText string) (opportunities []domain.Opportunity, rejected []string, err error) {
	jsonStr, err := ExtractJSONArray(rawText)
	if err != nil {
		return nil, nil, err
	}

	var data []json.RawMessage
	if uerr := json.Unmarshal([]byte(jsonStr), &data); uerr != nil {
		return nil, nil, formatErr("parse JSON array: %v", uerr)
	}

	opportunities = []domain.Opportunity{}
	for i, raw := range data {
		var elem map[string]any
		if uerr := json.Unmarshal(raw, &elem); uerr != nil {
			rejected = append(rejected, fmt.Sprintf("item %d: expected object: %v", i, uerr))
			continue
		}

		if errs := validateOpportunity(elem); len(errs) > 0 {
			id, _ := elem["id"].(string)
			if id == "" {
				id = "?"
			}
			rejected = append(rejected, fmt.Sprintf("item %d (%s): %s", i, id, strings.Join(errs, "; ")))
			continue
		}
		opportunities = append(opportunities, toOpportunity(elem))
	}

	if len(rejected) > 0 && len(opportunities) == 0 {
		return nil, rejected, formatErr("all %d opportunities failed validation: %s",
			len(data), strings.Join(rejected, " | "))
	}
	return opportunities, rejected, nil
}

// validateOpportunity checks a single decoded element against the opportunity
// schema and returns every violation found.
func validateOpportunity(d map[string]any) []string {
	var errs []string

	for _, field := range requiredStringFields {
		if s, ok := d[field].(string); !ok || strings.TrimSpace(s) == "" {
			errs = append(errs, "missing or empty required field: "+field)
		}
	}

	switch conf, ok := d["confidence"]; {
	case !ok:
		errs = append(errs, "missing field: confidence")
	default:
		if n, isNum := conf.(float64); !isNum {
			errs = append(errs, fmt.Sprintf("confidence must be a number, got %T", conf))
		} else if n < 0 || n > 100 {
			errs = append(errs, fmt.Sprintf("confidence must be 0-100, got %v", n))
		}
	}

	if effort, ok := d["effort_estimate"].(string); ok && !validEfforts[effort] {
		errs = append(errs, fmt.Sprintf("effort_estimate must be one of weekend|1-2 weeks|month+, got %q", effort))
	}

	evidence, ok := d["evidence"].([]any)
	switch {
	case !ok:
		errs = append(errs, "missing or invalid field: evidence (must be array)")
	case len(evidence) == 0:
		errs = append(errs, "evidence array must have at least 1 entry")
	default:
		for i, ev := range evidence {
			evMap, isObj := ev.(map[string]any)
			if !isObj {
				errs = append(errs, fmt.Sprintf("evidence[%d] must be an object", i))
				continue
			}
			for _, field := range []string{"source", "item_title", "url"} {
				if s, hasIt := evMap[field].(string); !hasIt || strings.TrimSpace(s) == "" {
					errs = append(errs, fmt.Sprintf("evidence[%d] missing field: %s", i, field))
				}
			}
		}
	}

	return errs
}

// toOpportunity converts a validated element. Validation guarantees the type
// assertions below hold; evidence score defaults to 0 when absent.
func toOpportunity(d map[string]any) domain.Opportunity {
	evidence := []domain.EvidenceRef{}
	if list, ok := d["evidence"].([]any); ok {
		for _, ev := range list {
			evMap := ev.(map[string]any)
			ref := domain.EvidenceRef{
				Source:    evMap["source"].(string),
				ItemTitle: evMap["item_title"].(string),
				URL:       evMap["url"].(string),
			}
			if score, has := evMap["score"].(float64); has {
				ref.Score = int(score)
			}
			evidence = append(evidence, ref)
		}
	}

	opp := domain.Opportunity{
		ID:             d["id"].(string),
		Title:          d["title"].(string),
		Pain:           d["pain"].(string),
		TargetBuyer:    d["target_buyer"].(string),
		SolutionShape:  d["solution_shape"].(string),
		MarketType:     d["market_type"].(string),
		EffortEstimate: d["effort_estimate"].(string),
		Monetization:   d["monetization"].(string),
		Moat:           d["moat"].(string),
		Confidence:     int(d["confidence"].(float64)),
		Evidence:       evidence,
	}
	if notes, ok := d["competition_notes"].(string); ok {
		opp.CompetitionNotes = notes
	}
	return opp
}
