package collector

import (
	"context"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/devscope/pkg/content"
	"github.com/umputun/devscope/pkg/domain"
)

// Extractor pulls main text from a web page, used to enrich feed entries
// whose summaries are too thin to score.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// rssState tracks the newest published timestamp seen per feed
type rssState struct {
	LastSeen map[string]time.Time `json:"last_seen"`
}

// RSS collects entries from configured RSS/Atom feeds. Entries with bodies
// shorter than minBodyLength optionally get the linked page fetched and
// extracted instead.
type RSS struct {
	feeds         []string
	minBodyLength int
	extractPages  bool
	timeout       time.Duration
	extractor     Extractor
	state         StateStore
	parser        *gofeed.Parser
}

// NewRSS creates the rss collector. extractor may be nil when page
// extraction is disabled.
func NewRSS(feeds []string, minBodyLength int, extractPages bool, timeout time.Duration, extractor Extractor, state StateStore) *RSS {
	return &RSS{
		feeds:         feeds,
		minBodyLength: minBodyLength,
		extractPages:  extractPages,
		timeout:       timeout,
		extractor:     extractor,
		state:         state,
		parser:        gofeed.NewParser(),
	}
}

// Name implements Collector
func (r *RSS) Name() string { return "rss" }

// Collect parses every feed and returns entries newer than the per-feed cursor
func (r *RSS) Collect(ctx context.Context) ([]domain.Item, error) {
	state := rssState{LastSeen: map[string]time.Time{}}
	if err := r.state.Get(ctx, r.Name(), &state); err != nil {
		return nil, fmt.Errorf("load rss state: %w", err)
	}
	if state.LastSeen == nil {
		state.LastSeen = map[string]time.Time{}
	}

	var items []domain.Item
	for _, feedURL := range r.feeds {
		feedItems, err := r.collectFeed(ctx, feedURL, &state)
		if err != nil {
			log.Printf("[WARN] rss feed %s: %v", feedURL, err)
			continue
		}
		items = append(items, feedItems...)
	}

	if err := r.state.Set(ctx, r.Name(), state); err != nil {
		return nil, fmt.Errorf("save rss state: %w", err)
	}
	return items, nil
}

func (r *RSS) collectFeed(ctx context.Context, feedURL string, state *rssState) ([]domain.Item, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	feedTitle := feed.Title
	if feedTitle == "" {
		feedTitle = feedURL
	}

	cursor := state.LastSeen[feedURL]
	newest := cursor

	entries := feed.Items
	if len(entries) > 10 { // cap per feed
		entries = entries[:10]
	}

	var items []domain.Item
	for _, entry := range entries {
		published := time.Now().UTC()
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}
		if !cursor.IsZero() && !published.After(cursor) {
			continue
		}
		if published.After(newest) {
			newest = published
		}

		entryID := entry.GUID
		if entryID == "" {
			entryID = entry.Link
		}
		if entryID == "" {
			entryID = entry.Title
		}

		body := entry.Description
		if body == "" {
			body = entry.Content
		}
		body = content.StripHTML(body)
		if r.extractPages && r.extractor != nil && len(body) < r.minBodyLength && entry.Link != "" {
			if extracted, err := r.extractor.Extract(ctx, entry.Link); err == nil && len(extracted) > len(body) {
				body = extracted
			}
		}

		title := entry.Title
		if title == "" {
			title = "Untitled"
		}

		items = append(items, domain.Item{
			Source:   domain.SourceRSS,
			SourceID: fmt.Sprintf("rss:%s:%s", feedURL, entryID),
			URL:      entry.Link,
			Title:    fmt.Sprintf("[%s] %s", feedTitle, title),
			Body:     content.Truncate(body, 3000),
			Metadata: map[string]any{
				"feed_url":   feedURL,
				"feed_title": feedTitle,
				"author":     entryAuthor(entry),
				"published":  published.Format(time.RFC3339),
			},
			CollectedAt: published,
		})
	}

	state.LastSeen[feedURL] = newest
	return items, nil
}

func entryAuthor(entry *gofeed.Item) string {
	if entry.Author != nil {
		return entry.Author.Name
	}
	return ""
}
