package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/devscope/pkg/content"
	"github.com/umputun/devscope/pkg/domain"
)

const githubAPI = "https://api.github.com"

// githubState is the incremental cursor for the github collector. Seen
// release lists are bounded per repo to keep the blob small.
type githubState struct {
	LastCollected string              `json:"last_collected"`
	ReleasesSeen  map[string][]string `json:"releases_seen"`
}

// Github watches configured repos for releases and high-engagement issues
// via the REST API. A rejected token downgrades to unauthenticated requests
// instead of failing the run.
type Github struct {
	repos      []string
	token      string
	maxPerRepo int
	state      StateStore
	client     *http.Client
	apiBase    string

	authFailed bool
	mu         sync.Mutex
}

// NewGithub creates the github releases+issues collector
func NewGithub(repos []string, token string, maxPerRepo int, state StateStore) *Github {
	return &Github{
		repos:      repos,
		token:      token,
		maxPerRepo: maxPerRepo,
		state:      state,
		client:     &http.Client{Timeout: 15 * time.Second},
		apiBase:    githubAPI,
	}
}

// Name implements Collector
func (g *Github) Name() string { return "github" }

// Collect fetches new releases and engaged issues for every watched repo.
// A failing repo is logged and skipped, so one bad repo never starves the
// others.
func (g *Github) Collect(ctx context.Context) ([]domain.Item, error) {
	state := githubState{ReleasesSeen: map[string][]string{}}
	if err := g.state.Get(ctx, g.Name(), &state); err != nil {
		return nil, fmt.Errorf("load github state: %w", err)
	}
	if state.ReleasesSeen == nil {
		state.ReleasesSeen = map[string][]string{}
	}

	var items []domain.Item
	for _, repo := range g.repos {
		releases, err := g.collectReleases(ctx, repo, &state)
		if err != nil {
			log.Printf("[WARN] github releases for %s: %v", repo, err)
		} else {
			items = append(items, releases...)
		}

		issues, err := g.collectIssues(ctx, repo, state.LastCollected)
		if err != nil {
			log.Printf("[WARN] github issues for %s: %v", repo, err)
		} else {
			items = append(items, issues...)
		}
	}

	state.LastCollected = time.Now().UTC().Format(time.RFC3339)
	if err := g.state.Set(ctx, g.Name(), state); err != nil {
		return nil, fmt.Errorf("save github state: %w", err)
	}
	return items, nil
}

type ghRelease struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Body       string `json:"body"`
	Prerelease bool   `json:"prerelease"`
	CreatedAt  string `json:"created_at"`
}

func (g *Github) collectReleases(ctx context.Context, repo string, state *githubState) ([]domain.Item, error) {
	var releases []ghRelease
	err := g.getJSON(ctx, fmt.Sprintf("%s/repos/%s/releases", g.apiBase, repo),
		url.Values{"per_page": {"5"}}, &releases)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, tag := range state.ReleasesSeen[repo] {
		seen[tag] = true
	}

	var items []domain.Item
	for _, rel := range releases {
		if rel.TagName == "" || seen[rel.TagName] {
			continue
		}
		seen[rel.TagName] = true
		state.ReleasesSeen[repo] = append(state.ReleasesSeen[repo], rel.TagName)

		items = append(items, domain.Item{
			Source:   domain.SourceGithubRelease,
			SourceID: repo + ":" + rel.TagName,
			URL:      rel.HTMLURL,
			Title:    fmt.Sprintf("[%s] Release %s", repo, rel.TagName),
			Body:     content.Truncate(rel.Body, 3000),
			Metadata: map[string]any{
				"repo":       repo,
				"tag":        rel.TagName,
				"prerelease": rel.Prerelease,
				"created_at": rel.CreatedAt,
			},
			CollectedAt: time.Now().UTC(),
		})
	}

	// keep last 50 tags per repo to bound state size
	if tags := state.ReleasesSeen[repo]; len(tags) > 50 {
		state.ReleasesSeen[repo] = tags[len(tags)-50:]
	}
	return items, nil
}

type ghIssue struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	HTMLURL     string `json:"html_url"`
	Body        string `json:"body"`
	State       string `json:"state"`
	Comments    int    `json:"comments"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
	Labels      []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Reactions struct {
		TotalCount int `json:"total_count"`
	} `json:"reactions"`
}

func (g *Github) collectIssues(ctx context.Context, repo, since string) ([]domain.Item, error) {
	if since == "" {
		since = "2024-01-01T00:00:00Z"
	}

	params := url.Values{
		"state":     {"all"},
		"sort":      {"updated"},
		"direction": {"desc"},
		"since":     {since},
		"per_page":  {strconv.Itoa(min(g.maxPerRepo, 30))},
	}
	var issues []ghIssue
	if err := g.getJSON(ctx, fmt.Sprintf("%s/repos/%s/issues", g.apiBase, repo), params, &issues); err != nil {
		return nil, err
	}

	var items []domain.Item
	for _, issue := range issues {
		if issue.PullRequest != nil { // the issues endpoint returns PRs too
			continue
		}
		// only issues with meaningful engagement indicate pain
		if issue.Reactions.TotalCount < 5 && issue.Comments < 3 {
			continue
		}

		labels := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			labels = append(labels, l.Name)
		}

		items = append(items, domain.Item{
			Source:   domain.SourceGithubIssue,
			SourceID: fmt.Sprintf("%s:issue:%d", repo, issue.Number),
			URL:      issue.HTMLURL,
			Title:    fmt.Sprintf("[%s] #%d: %s", repo, issue.Number, issue.Title),
			Body:     content.Truncate(issue.Body, 2000),
			Metadata: map[string]any{
				"repo":         repo,
				"issue_number": issue.Number,
				"state":        issue.State,
				"reactions":    issue.Reactions.TotalCount,
				"comments":     issue.Comments,
				"labels":       labels,
			},
			CollectedAt: time.Now().UTC(),
		})
	}
	return items, nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
// On 401 the token is dropped for the rest of the process and the request
// retried unauthenticated.
func (g *Github) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	resp, err := g.do(ctx, rawURL, params)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && g.useToken() {
		resp.Body.Close() //nolint:errcheck,gosec // nothing useful in the 401 body
		g.dropToken()
		if resp, err = g.do(ctx, rawURL, params); err != nil {
			return err
		}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API %s: HTTP %d", rawURL, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}
	return nil
}

func (g *Github) do(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	reqURL := rawURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "devscope/1.0")
	if g.useToken() {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request %s: %w", rawURL, err)
	}
	return resp, nil
}

func (g *Github) useToken() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != "" && !g.authFailed
}

func (g *Github) dropToken() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.authFailed {
		log.Printf("[WARN] github token rejected (401), falling back to unauthenticated")
		g.authFailed = true
	}
}
