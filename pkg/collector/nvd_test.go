package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nvdResponseJSON = `{
	"vulnerabilities": [
		{
			"cve": {
				"id": "CVE-2025-12345",
				"descriptions": [
					{"lang": "es", "value": "descripcion"},
					{"lang": "en", "value": "Remote code execution in the Jenkins credentials plugin allows attackers to read stored secrets"}
				],
				"metrics": {
					"cvssMetricV31": [{"cvssData": {"baseScore": 9.8, "baseSeverity": "CRITICAL"}}]
				},
				"weaknesses": [
					{"description": [{"lang": "en", "value": "CWE-78"}, {"lang": "en", "value": "not a cwe"}]}
				],
				"configurations": [
					{"nodes": [{"cpeMatch": [{"criteria": "cpe:2.3:a:jenkins:credentials:*:*:*:*:*:*:*:*"}]}]}
				]
			}
		},
		{
			"cve": {
				"id": "CVE-2025-22222",
				"descriptions": [{"lang": "en", "value": "Low severity issue in some library"}],
				"metrics": {"cvssMetricV2": [{"cvssData": {"baseScore": 3.1}}]}
			}
		},
		{
			"cve": {
				"id": "CVE-2025-33333",
				"descriptions": [{"lang": "en", "value": "Critical bug in a gaming console firmware"}],
				"metrics": {"cvssMetricV31": [{"cvssData": {"baseScore": 9.0, "baseSeverity": "CRITICAL"}}]}
			}
		}
	]
}`

func TestNVD_Collect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("lastModStartDate"))
		assert.NotEmpty(t, r.URL.Query().Get("lastModEndDate"))
		assert.Equal(t, "50", r.URL.Query().Get("resultsPerPage"))
		_, _ = w.Write([]byte(nvdResponseJSON))
	}))
	defer srv.Close()

	state := newMemState()
	n := NewNVD(7.0, 50, 7, []string{"jenkins", "kubernetes"}, state)
	n.apiBase = srv.URL

	items, err := n.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1, "CVSS floor and keyword filter drop the other two")

	item := items[0]
	assert.Equal(t, "nvd:CVE-2025-12345", item.SourceID)
	assert.Contains(t, item.Title, "[CRITICAL] CVE-2025-12345:")
	assert.Contains(t, item.Body, "Jenkins credentials plugin")
	assert.InEpsilon(t, 9.8, item.MetaFloat("cvss_score"), 0.001)
	assert.Equal(t, "CRITICAL", item.MetaString("severity"))
	assert.Equal(t, []string{"CWE-78"}, item.MetaStrings("cwe_ids"))
	assert.Equal(t, []string{"jenkins:credentials"}, item.MetaStrings("affected_products"))

	t.Run("cursor advances", func(t *testing.T) {
		var st nvdState
		require.NoError(t, state.Get(context.Background(), "nvd", &st))
		assert.NotEmpty(t, st.LastModified)
	})
}

func TestNVD_NoKeywordsMatchesAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(nvdResponseJSON))
	}))
	defer srv.Close()

	n := NewNVD(7.0, 50, 7, nil, newMemState())
	n.apiBase = srv.URL

	items, err := n.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2, "only the CVSS floor applies")
}

func TestNVD_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewNVD(7.0, 50, 7, nil, newMemState())
	n.apiBase = srv.URL

	_, err := n.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestExtractCVSS(t *testing.T) {
	metric := func(score float64, severity string) nvdMetric {
		var m nvdMetric
		m.CVSSData.BaseScore = score
		m.CVSSData.BaseSeverity = severity
		return m
	}

	tests := []struct {
		name         string
		metrics      map[string][]nvdMetric
		wantScore    float64
		wantSeverity string
	}{
		{name: "v31 preferred", metrics: map[string][]nvdMetric{
			"cvssMetricV31": {metric(9.8, "CRITICAL")},
			"cvssMetricV2":  {metric(7.0, "")},
		}, wantScore: 9.8, wantSeverity: "CRITICAL"},
		{name: "v30 fallback", metrics: map[string][]nvdMetric{
			"cvssMetricV30": {metric(6.5, "MEDIUM")},
		}, wantScore: 6.5, wantSeverity: "MEDIUM"},
		{name: "v2 maps severity high", metrics: map[string][]nvdMetric{
			"cvssMetricV2": {metric(8.0, "")},
		}, wantScore: 8.0, wantSeverity: "HIGH"},
		{name: "v2 maps severity medium", metrics: map[string][]nvdMetric{
			"cvssMetricV2": {metric(5.0, "")},
		}, wantScore: 5.0, wantSeverity: "MEDIUM"},
		{name: "v2 maps severity low", metrics: map[string][]nvdMetric{
			"cvssMetricV2": {metric(2.0, "")},
		}, wantScore: 2.0, wantSeverity: "LOW"},
		{name: "no metrics", metrics: map[string][]nvdMetric{}, wantScore: 0, wantSeverity: "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, severity := extractCVSS(tt.metrics)
			assert.InDelta(t, tt.wantScore, score, 0.001)
			assert.Equal(t, tt.wantSeverity, severity)
		})
	}
}
