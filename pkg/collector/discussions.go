package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/devscope/pkg/content"
	"github.com/umputun/devscope/pkg/domain"
)

const githubGraphQL = "https://api.github.com/graphql"

// discussions are only reachable over GraphQL, the REST API does not expose them
const discussionsQuery = `
query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    discussions(first: 25, orderBy: {field: UPDATED_AT, direction: DESC}) {
      nodes {
        number
        title
        body
        url
        createdAt
        updatedAt
        upvoteCount
        comments { totalCount }
        category { name }
        labels(first: 10) { nodes { name } }
        answer { id }
      }
    }
  }
}`

// Discussions collects GitHub Discussions from configured repos. Community
// discussion boards are where users post workflow complaints and upvote
// unmet needs, the richest single source of opportunity signals.
// Requires a token with read:discussion scope.
type Discussions struct {
	repos   []string
	token   string
	client  *http.Client
	apiBase string
}

// NewDiscussions creates the discussions collector
func NewDiscussions(repos []string, token string) *Discussions {
	return &Discussions{
		repos:   repos,
		token:   token,
		client:  &http.Client{Timeout: 20 * time.Second},
		apiBase: githubGraphQL,
	}
}

// Name implements Collector
func (d *Discussions) Name() string { return "github_discussions" }

// Collect fetches the 25 most recently updated discussions per repo and keeps
// the engaged ones: upvotes >= 3 or comments >= 2.
func (d *Discussions) Collect(ctx context.Context) ([]domain.Item, error) {
	if d.token == "" {
		log.Printf("[WARN] discussions collector requires a github token, skipping")
		return nil, nil
	}

	var items []domain.Item
	for _, repo := range d.repos {
		repoItems, err := d.collectRepo(ctx, repo)
		if err != nil {
			log.Printf("[WARN] discussions for %s: %v", repo, err)
			continue
		}
		items = append(items, repoItems...)
	}
	return items, nil
}

type discussionNode struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	UpvoteCount int    `json:"upvoteCount"`
	Comments    struct {
		TotalCount int `json:"totalCount"`
	} `json:"comments"`
	Category *struct {
		Name string `json:"name"`
	} `json:"category"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	Answer *struct {
		ID string `json:"id"`
	} `json:"answer"`
}

type graphQLResponse struct {
	Data struct {
		Repository *struct {
			Discussions struct {
				Nodes []*discussionNode `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (d *Discussions) collectRepo(ctx context.Context, repo string) ([]domain.Item, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repo format: %s", repo)
	}

	payload, err := json.Marshal(map[string]any{
		"query":     discussionsQuery,
		"variables": map[string]any{"owner": owner, "name": name},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiBase, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "devscope/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("graphql auth failed, check token permissions")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql HTTP %d", resp.StatusCode)
	}

	var data graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(data.Errors) > 0 {
		return nil, fmt.Errorf("graphql errors: %s", data.Errors[0].Message)
	}
	if data.Data.Repository == nil {
		return nil, fmt.Errorf("no repository data returned")
	}

	var items []domain.Item
	for _, disc := range data.Data.Repository.Discussions.Nodes {
		if disc == nil {
			continue
		}
		// engagement filter: skip low-signal discussions
		if disc.UpvoteCount < 3 && disc.Comments.TotalCount < 2 {
			continue
		}

		labels := make([]string, 0, len(disc.Labels.Nodes))
		for _, l := range disc.Labels.Nodes {
			labels = append(labels, l.Name)
		}
		category := ""
		if disc.Category != nil {
			category = disc.Category.Name
		}

		collectedAt := time.Now().UTC()
		if ts, err := time.Parse(time.RFC3339, disc.CreatedAt); err == nil {
			collectedAt = ts
		}

		items = append(items, domain.Item{
			Source:   domain.SourceGithubDiscussion,
			SourceID: fmt.Sprintf("%s:discussion:%d", repo, disc.Number),
			URL:      disc.URL,
			Title:    fmt.Sprintf("[%s] Discussion #%d: %s", repo, disc.Number, disc.Title),
			Body:     content.Truncate(disc.Body, 3000),
			Metadata: map[string]any{
				"repo":              repo,
				"discussion_number": disc.Number,
				"upvotes":           disc.UpvoteCount,
				"comments":          disc.Comments.TotalCount,
				"category":          category,
				"labels":            labels,
				"has_answer":        disc.Answer != nil,
				"created_at":        disc.CreatedAt,
				"updated_at":        disc.UpdatedAt,
			},
			CollectedAt: collectedAt,
		})
	}
	return items, nil
}
