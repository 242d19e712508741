package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/devscope/pkg/domain"
)

const nvdAPI = "https://services.nvd.nist.gov/rest/json/cves/2.0"

// nvdTimeFormat is what the NVD API v2.0 expects for date range parameters
const nvdTimeFormat = "2006-01-02T15:04:05.000-07:00"

// nvdState remembers the end of the last collected window
type nvdState struct {
	LastModified string `json:"last_modified"`
}

// NVD fetches recently modified CVEs from the National Vulnerability
// Database. High-severity disclosures surface enterprise security pain:
// what software breaks and who scrambles to patch it. No API key needed
// at the default rate limit.
type NVD struct {
	minCVSS    float64
	maxResults int
	days       int
	keywords   []string
	state      StateStore
	client     *http.Client
	apiBase    string
}

// NewNVD creates the nvd collector
func NewNVD(minCVSS float64, maxResults, days int, keywords []string, state StateStore) *NVD {
	return &NVD{
		minCVSS:    minCVSS,
		maxResults: maxResults,
		days:       days,
		keywords:   keywords,
		state:      state,
		client:     &http.Client{Timeout: 30 * time.Second},
		apiBase:    nvdAPI,
	}
}

// Name implements Collector
func (n *NVD) Name() string { return "nvd" }

// Collect fetches CVEs modified since the last run, first run reaches back
// the configured number of days.
func (n *NVD) Collect(ctx context.Context) ([]domain.Item, error) {
	var state nvdState
	if err := n.state.Get(ctx, n.Name(), &state); err != nil {
		return nil, fmt.Errorf("load nvd state: %w", err)
	}

	startDate := state.LastModified
	if startDate == "" {
		startDate = time.Now().UTC().AddDate(0, 0, -n.days).Format(nvdTimeFormat)
	}
	endDate := time.Now().UTC().Format(nvdTimeFormat)

	items, err := n.fetchCVEs(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if err := n.state.Set(ctx, n.Name(), nvdState{LastModified: endDate}); err != nil {
		return nil, fmt.Errorf("save nvd state: %w", err)
	}
	return items, nil
}

type nvdResponse struct {
	Vulnerabilities []struct {
		CVE nvdCVE `json:"cve"`
	} `json:"vulnerabilities"`
}

type nvdCVE struct {
	ID           string `json:"id"`
	Descriptions []struct {
		Lang  string `json:"lang"`
		Value string `json:"value"`
	} `json:"descriptions"`
	Metrics map[string][]nvdMetric `json:"metrics"`
	Weaknesses []struct {
		Description []struct {
			Lang  string `json:"lang"`
			Value string `json:"value"`
		} `json:"description"`
	} `json:"weaknesses"`
	Configurations []struct {
		Nodes []struct {
			CPEMatch []struct {
				Criteria string `json:"criteria"`
			} `json:"cpeMatch"`
		} `json:"nodes"`
	} `json:"configurations"`
}

func (n *NVD) fetchCVEs(ctx context.Context, startDate, endDate string) ([]domain.Item, error) {
	params := url.Values{
		"lastModStartDate": {startDate},
		"lastModEndDate":   {endDate},
		"resultsPerPage":   {strconv.Itoa(min(n.maxResults, 50))},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.apiBase+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "devscope/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nvd request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nvd API: HTTP %d", resp.StatusCode)
	}

	var data nvdResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode nvd response: %w", err)
	}
	log.Printf("[DEBUG] nvd returned %d CVEs", len(data.Vulnerabilities))

	var items []domain.Item
	for _, vuln := range data.Vulnerabilities {
		item, ok := n.parseCVE(&vuln.CVE)
		if !ok {
			continue
		}
		if item.MetaFloat("cvss_score") < n.minCVSS {
			continue
		}
		if !n.matchesKeywords(item.Body) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// matchesKeywords reports whether the description mentions any configured
// keyword, empty keyword list matches everything.
func (n *NVD) matchesKeywords(description string) bool {
	if len(n.keywords) == 0 {
		return true
	}
	lower := strings.ToLower(description)
	for _, kw := range n.keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (n *NVD) parseCVE(cve *nvdCVE) (domain.Item, bool) {
	if cve.ID == "" {
		return domain.Item{}, false
	}

	description := ""
	for _, desc := range cve.Descriptions {
		if desc.Lang == "en" {
			description = desc.Value
			break
		}
	}
	if description == "" && len(cve.Descriptions) > 0 {
		description = cve.Descriptions[0].Value
	}

	cvssScore, severity := extractCVSS(cve.Metrics)

	var cweIDs []string
	for _, weakness := range cve.Weaknesses {
		for _, desc := range weakness.Description {
			if desc.Lang == "en" && strings.HasPrefix(desc.Value, "CWE-") {
				cweIDs = append(cweIDs, desc.Value)
			}
		}
	}
	if len(cweIDs) > 5 {
		cweIDs = cweIDs[:5]
	}

	var affected []string
	for _, cfg := range cve.Configurations {
		for _, node := range cfg.Nodes {
			for _, match := range node.CPEMatch {
				// cpe:2.3:a:vendor:product:... → vendor:product
				parts := strings.Split(match.Criteria, ":")
				if len(parts) >= 5 {
					affected = append(affected, parts[3]+":"+parts[4])
				}
			}
		}
	}
	if len(affected) > 10 {
		affected = affected[:10]
	}

	titleDesc := description
	if len(titleDesc) > 100 {
		titleDesc = titleDesc[:100]
	}

	return domain.Item{
		Source:   domain.SourceNVDCVE,
		SourceID: "nvd:" + cve.ID,
		URL:      "https://nvd.nist.gov/vuln/detail/" + cve.ID,
		Title:    fmt.Sprintf("[%s] %s: %s", severity, cve.ID, titleDesc),
		Body:     description,
		Metadata: map[string]any{
			"cve_id":            cve.ID,
			"cvss_score":        cvssScore,
			"severity":          severity,
			"cwe_ids":           cweIDs,
			"affected_products": affected,
		},
		CollectedAt: time.Now().UTC(),
	}, true
}

type nvdMetric struct {
	CVSSData struct {
		BaseScore    float64 `json:"baseScore"`
		BaseSeverity string  `json:"baseSeverity"`
	} `json:"cvssData"`
}

// extractCVSS prefers v3.1 metrics, falls back to v3.0 then v2.0
func extractCVSS(metrics map[string][]nvdMetric) (score float64, severity string) {
	severity = "UNKNOWN"

	for _, key := range []string{"cvssMetricV31", "cvssMetricV30"} {
		if list := metrics[key]; len(list) > 0 {
			return list[0].CVSSData.BaseScore, list[0].CVSSData.BaseSeverity
		}
	}

	if list := metrics["cvssMetricV2"]; len(list) > 0 {
		score = list[0].CVSSData.BaseScore
		switch {
		case score >= 7:
			severity = "HIGH"
		case score >= 4:
			severity = "MEDIUM"
		default:
			severity = "LOW"
		}
	}
	return score, severity
}
