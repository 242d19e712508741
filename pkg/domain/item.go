package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Source identifies where an item was collected from
type Source string

// all known source types, the set is closed
const (
	SourceGithubRelease    Source = "github_release"
	SourceGithubIssue      Source = "github_issue"
	SourceGithubDiscussion Source = "github_discussion"
	SourceHackerNews       Source = "hacker_news"
	SourceRSS              Source = "rss"
	SourceNVDCVE           Source = "nvd_cve"
)

// Item represents a single piece of collected content. Collectors produce items
// with Score=0, the scorer sets it once, and the item is immutable after that.
type Item struct {
	Source      Source
	SourceID    string // unique within source, e.g. GH release tag or HN id
	URL         string
	Title       string
	Body        string // main content, plain text
	Metadata    map[string]any
	CollectedAt time.Time
	Score       int // signal score 0-100, set by the scorer
}

// Fingerprint returns a deterministic dedup key derived from source and
// source-local id. Two items with the same fingerprint are the same item
// regardless of content drift.
func (i *Item) Fingerprint() string {
	sum := sha256.Sum256([]byte(string(i.Source) + ":" + i.SourceID))
	return hex.EncodeToString(sum[:])[:16]
}

func (i *Item) String() string {
	title := i.Title
	if len(title) > 50 {
		title = title[:50]
	}
	return fmt.Sprintf("Item(%s, %s, score=%d)", i.Source, title, i.Score)
}

// MetaInt reads an integer metadata value, tolerating the types JSON decoding
// produces. Missing or malformed keys yield zero, never an error.
func (i *Item) MetaInt(key string) int {
	switch v := i.Metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// MetaFloat reads a float metadata value, zero on anything unexpected
func (i *Item) MetaFloat(key string) float64 {
	switch v := i.Metadata[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// MetaString reads a string metadata value, empty on anything unexpected
func (i *Item) MetaString(key string) string {
	if v, ok := i.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// MetaBool reads a boolean metadata value, false on anything unexpected
func (i *Item) MetaBool(key string) bool {
	if v, ok := i.Metadata[key].(bool); ok {
		return v
	}
	return false
}

// MetaStrings reads a list-of-strings metadata value, nil on anything unexpected
func (i *Item) MetaStrings(key string) []string {
	switch v := i.Metadata[key].(type) {
	case []string:
		return v
	case []any:
		res := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}
	return nil
}
