package synth

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/devscope/pkg/domain"
	"github.com/umputun/devscope/pkg/llm"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store provides the persistence operations synthesis needs
type Store interface {
	ItemsSince(ctx context.Context, since time.Time, minScore int) ([]domain.Item, error)
	SaveDigest(ctx context.Context, digest *domain.Digest) (int64, error)
	CreateRun(ctx context.Context, opps []domain.Opportunity, itemCount int, digestID *int64) (int64, error)
}

// Synthesizer turns collected items into digests, reports and structured
// opportunity runs by prompting a completion provider.
type Synthesizer struct {
	provider llm.Provider
	store    Store
	timeout  time.Duration
}

// NewSynthesizer creates a synthesizer. Timeout bounds each completion call,
// zero means no per-call deadline.
func NewSynthesizer(provider llm.Provider, store Store, timeout time.Duration) *Synthesizer {
	return &Synthesizer{provider: provider, store: store, timeout: timeout}
}

// synthesis profiles: how far back to look, the score floor, how many items
// go into the prompt and the sampling parameters
type profile struct {
	days        int
	minScore    int
	maxItems    int
	temperature float32
	maxTokens   int
}

var (
	dailyProfile      = profile{days: 1, minScore: 40, maxItems: 20, temperature: 0.2, maxTokens: 1000}
	weeklyProfile     = profile{days: 7, minScore: 30, maxItems: 40, temperature: 0.3, maxTokens: 1500}
	reportProfile     = profile{days: 14, minScore: 35, maxItems: 50, temperature: 0.3, maxTokens: 2000}
	structuredProfile = profile{days: 14, minScore: 35, maxItems: 50, temperature: 0.2, maxTokens: 3000}
	askProfile        = profile{minScore: 20, maxItems: 30, temperature: 0.4, maxTokens: 1500}
)

const (
	repairTemperature = 0.1
	rawExcerptLen     = 500
)

// DailyDigest summarizes the last day's high-signal items and persists the
// result as a daily digest.
func (s *Synthesizer) DailyDigest(ctx context.Context) (*domain.Digest, error) {
	return s.digest(ctx, domain.DigestDaily, dailyProfile, dailySystemPrompt, dailyUserPrompt)
}

// WeeklySynthesis produces the weekly trend analysis digest
func (s *Synthesizer) WeeklySynthesis(ctx context.Context) (*domain.Digest, error) {
	return s.digest(ctx, domain.DigestWeekly, weeklyProfile, weeklySystemPrompt, weeklyUserPrompt)
}

// canned digest content for empty windows, no completion call is made and
// nothing is persisted
var emptyDigestContent = map[domain.DigestType]string{
	domain.DigestDaily:         "No clear opportunities today.",
	domain.DigestWeekly:        "Quiet week. No notable marketplace signals.",
	domain.DigestOpportunities: "Not enough data for opportunity analysis. Run 'collect' first and wait for data to accumulate.",
}

func (s *Synthesizer) digest(ctx context.Context, dtype domain.DigestType, p profile, sysPrompt, userTmpl string) (*domain.Digest, error) {
	items, err := s.itemsFor(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		log.Printf("[INFO] no items for %s digest", dtype)
		return &domain.Digest{Type: dtype, Content: emptyDigestContent[dtype], GeneratedAt: time.Now().UTC()}, nil
	}
	log.Printf("[DEBUG] %s synthesis over %d items", dtype, len(items))

	resp, err := s.complete(ctx, sysPrompt, fmt.Sprintf(userTmpl, FormatItems(items, p.maxItems)), p.temperature, p.maxTokens)
	if err != nil {
		return nil, err
	}

	digest := &domain.Digest{Type: dtype, Content: resp.Text, ItemCount: len(items), GeneratedAt: time.Now().UTC()}
	if digest.ID, err = s.store.SaveDigest(ctx, digest); err != nil {
		return nil, fmt.Errorf("save %s digest: %w", dtype, err)
	}
	return digest, nil
}

// OpportunityReport produces the free-form prose opportunity report and saves
// it as an opportunities digest.
func (s *Synthesizer) OpportunityReport(ctx context.Context) (*domain.Digest, error) {
	return s.digest(ctx, domain.DigestOpportunities, reportProfile, reportSystemPrompt, reportUserPrompt)
}

// StructuredOpportunities runs the structured extraction pipeline: prompt,
// parse, at most one repair round, then persist the accepted opportunities as
// a versioned run. An empty accepted list is a valid outcome and persists
// nothing.
func (s *Synthesizer) StructuredOpportunities(ctx context.Context) ([]domain.Opportunity, int64, error) {
	p := structuredProfile
	items, err := s.itemsFor(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		log.Printf("[INFO] no items qualify for opportunity extraction")
		return []domain.Opportunity{}, 0, nil
	}

	userPrompt := fmt.Sprintf(structuredUserPrompt, FormatItems(items, p.maxItems))
	opps, err := s.generateOpportunities(ctx, userPrompt, p)
	if err != nil {
		return nil, 0, err
	}
	if len(opps) == 0 {
		log.Printf("[INFO] extraction produced no opportunities")
		return opps, 0, nil
	}

	summary := &domain.Digest{
		Type:        domain.DigestOpportunities,
		Content:     RenderOpportunitiesText(opps),
		ItemCount:   len(items),
		GeneratedAt: time.Now().UTC(),
	}
	digestID, err := s.store.SaveDigest(ctx, summary)
	if err != nil {
		return nil, 0, fmt.Errorf("save opportunity digest: %w", err)
	}

	runID, err := s.store.CreateRun(ctx, opps, len(items), &digestID)
	if err != nil {
		return nil, 0, fmt.Errorf("create opportunity run: %w", err)
	}
	log.Printf("[INFO] opportunity run %d: %d opportunities from %d items", runID, len(opps), len(items))
	return opps, runID, nil
}

// generateOpportunities asks for structured output and repairs once on any
// failure, whether the completion itself errored or the response did not
// parse.
func (s *Synthesizer) generateOpportunities(ctx context.Context, userPrompt string, p profile) ([]domain.Opportunity, error) {
	resp, err := s.complete(ctx, structuredSystemPrompt, userPrompt, p.temperature, p.maxTokens)
	if err != nil {
		log.Printf("[WARN] structured completion failed, attempting repair: %v", err)
		return s.repair(ctx, err.Error(), "", p)
	}

	opps, rejected, err := ParseOpportunities(resp.Text)
	if err != nil {
		log.Printf("[WARN] structured response unusable, attempting repair: %v", err)
		return s.repair(ctx, err.Error(), resp.Text, p)
	}
	for _, reason := range rejected {
		log.Printf("[WARN] dropped opportunity: %s", reason)
	}
	return opps, nil
}

// repair reissues the request once with the failure reason and a raw excerpt
// of the bad response. No second repair: a failure here is final.
func (s *Synthesizer) repair(ctx context.Context, reason, rawText string, p profile) ([]domain.Opportunity, error) {
	excerpt := rawText
	if len(excerpt) > rawExcerptLen {
		excerpt = excerpt[:rawExcerptLen]
	}

	resp, err := s.complete(ctx, structuredSystemPrompt, fmt.Sprintf(structuredRepairPrompt, reason, excerpt),
		repairTemperature, p.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("repair completion: %w", err)
	}

	opps, rejected, err := ParseOpportunities(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("repair attempt failed: %w", err)
	}
	for _, reason := range rejected {
		log.Printf("[WARN] dropped opportunity after repair: %s", reason)
	}
	return opps, nil
}

// Ask answers an ad-hoc question over items collected in the last days days
func (s *Synthesizer) Ask(ctx context.Context, question string, days int) (*domain.QAResult, error) {
	p := askProfile
	p.days = days
	items, err := s.itemsFor(ctx, p)
	if err != nil {
		return nil, err
	}

	user := fmt.Sprintf(qaUserPrompt, days, FormatItems(items, p.maxItems), question)
	resp, err := s.complete(ctx, qaSystemPrompt, user, p.temperature, p.maxTokens)
	if err != nil {
		return nil, err
	}
	return &domain.QAResult{
		Question:    question,
		Answer:      resp.Text,
		SourcesUsed: min(len(items), p.maxItems),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *Synthesizer) itemsFor(ctx context.Context, p profile) ([]domain.Item, error) {
	since := time.Now().UTC().AddDate(0, 0, -p.days)
	items, err := s.store.ItemsSince(ctx, since, p.minScore)
	if err != nil {
		return nil, fmt.Errorf("load items since %s: %w", since.Format(time.DateOnly), err)
	}
	return items, nil
}

func (s *Synthesizer) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (llm.Response, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return llm.Response{}, err
	}
	log.Printf("[DEBUG] completion from %s: %d in / %d out tokens", s.provider.Name(), resp.InputTokens, resp.OutputTokens)
	return resp, nil
}
