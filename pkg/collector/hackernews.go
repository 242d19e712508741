package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/devscope/pkg/content"
	"github.com/umputun/devscope/pkg/domain"
)

const (
	hnAPI       = "https://hacker-news.firebaseio.com/v0"
	hnSearchAPI = "https://hn.algolia.com/api/v1/search_by_date"
)

// HackerNews collects from two endpoints: the official Firebase API for top
// stories above a score floor, and the Algolia search API for
// keyword-targeted stories. Neither needs auth.
type HackerNews struct {
	minScore       int
	maxItems       int
	keywords       []string
	searchMinScore int
	client         *http.Client
	apiBase        string
	searchBase     string
}

// NewHackerNews creates the hacker news collector
func NewHackerNews(minScore, maxItems int, keywords []string, searchMinScore int) *HackerNews {
	return &HackerNews{
		minScore:       minScore,
		maxItems:       maxItems,
		keywords:       keywords,
		searchMinScore: searchMinScore,
		client:         &http.Client{Timeout: 15 * time.Second},
		apiBase:        hnAPI,
		searchBase:     hnSearchAPI,
	}
}

// Name implements Collector
func (h *HackerNews) Name() string { return "hackernews" }

// Collect merges top stories with keyword search hits, deduplicated by story id
func (h *HackerNews) Collect(ctx context.Context) ([]domain.Item, error) {
	items, err := h.collectTopStories(ctx)
	if err != nil {
		log.Printf("[WARN] hn top stories: %v", err)
	}

	seen := map[string]bool{}
	for _, item := range items {
		seen[item.SourceID] = true
	}

	for _, keyword := range h.keywords {
		hits, err := h.searchStories(ctx, keyword)
		if err != nil {
			log.Printf("[WARN] hn search %q: %v", keyword, err)
			continue
		}
		for _, item := range hits {
			if !seen[item.SourceID] {
				items = append(items, item)
				seen[item.SourceID] = true
			}
		}
	}
	return items, nil
}

type hnStory struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
}

func (h *HackerNews) collectTopStories(ctx context.Context) ([]domain.Item, error) {
	var storyIDs []int
	if err := h.getJSON(ctx, h.apiBase+"/topstories.json", &storyIDs); err != nil {
		return nil, err
	}
	if len(storyIDs) > h.maxItems {
		storyIDs = storyIDs[:h.maxItems]
	}

	var items []domain.Item
	for _, id := range storyIDs {
		var story hnStory
		if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.apiBase, id), &story); err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			continue
		}
		if story.Type != "story" || story.Score < h.minScore {
			continue
		}
		items = append(items, h.toItem(&story, ""))
	}
	return items, nil
}

type hnSearchHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	StoryText   string `json:"story_text"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	Author      string `json:"author"`
}

// searchStories queries the Algolia HN API for one keyword. Free, no auth,
// generous rate limit.
func (h *HackerNews) searchStories(ctx context.Context, keyword string) ([]domain.Item, error) {
	params := url.Values{
		"query":          {keyword},
		"tags":           {"story"},
		"numericFilters": {fmt.Sprintf("points>%d", h.searchMinScore)},
		"hitsPerPage":    {"10"},
	}

	var result struct {
		Hits []hnSearchHit `json:"hits"`
	}
	if err := h.getJSON(ctx, h.searchBase+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}

	var items []domain.Item
	for _, hit := range result.Hits {
		if hit.ObjectID == "" {
			continue
		}
		id, _ := strconv.Atoi(hit.ObjectID)
		story := hnStory{
			ID:          id,
			Type:        "story",
			Title:       hit.Title,
			URL:         hit.URL,
			Text:        hit.StoryText,
			Score:       hit.Points,
			Descendants: hit.NumComments,
			By:          hit.Author,
		}
		items = append(items, h.toItem(&story, keyword))
	}
	return items, nil
}

func (h *HackerNews) toItem(story *hnStory, searchKeyword string) domain.Item {
	hnURL := fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
	storyURL := story.URL
	if storyURL == "" {
		storyURL = hnURL
	}

	meta := map[string]any{
		"hn_id":    story.ID,
		"score":    story.Score,
		"comments": story.Descendants,
		"by":       story.By,
		"hn_url":   hnURL,
	}
	if searchKeyword != "" {
		meta["search_keyword"] = searchKeyword
	}

	return domain.Item{
		Source:      domain.SourceHackerNews,
		SourceID:    fmt.Sprintf("hn:%d", story.ID),
		URL:         storyURL,
		Title:       story.Title,
		Body:        content.Truncate(content.StripHTML(story.Text), 3000),
		Metadata:    meta,
		CollectedAt: time.Now().UTC(),
	}
}

func (h *HackerNews) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "devscope/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("hn request %s: %w", rawURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hn API %s: HTTP %d", rawURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode hn response: %w", err)
	}
	return nil
}
