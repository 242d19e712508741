package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Platform Blog</title>
    <item>
      <title>Our secrets rotation horror story</title>
      <link>https://blog.example.com/secrets-rotation</link>
      <guid>post-2</guid>
      <description>&lt;p&gt;rotating credentials across 40 services took us &lt;b&gt;three weeks&lt;/b&gt; of manual work and two outages along the way&lt;/p&gt;</description>
      <pubDate>Wed, 20 Aug 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Short note</title>
      <link>https://blog.example.com/short</link>
      <guid>post-1</guid>
      <description>tiny</description>
      <pubDate>Tue, 19 Aug 2025 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

type stubExtractor struct {
	text  string
	calls []string
}

func (s *stubExtractor) Extract(_ context.Context, url string) (string, error) {
	s.calls = append(s.calls, url)
	return s.text, nil
}

func TestRSS_Collect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFeedXML))
	}))
	defer srv.Close()

	state := newMemState()
	extractor := &stubExtractor{text: "the full article text, much longer than the stub summary was"}
	r := NewRSS([]string{srv.URL}, 50, true, 5*time.Second, extractor, state)

	items, err := r.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	t.Run("html stripped from summaries", func(t *testing.T) {
		assert.Equal(t, "[Platform Blog] Our secrets rotation horror story", items[0].Title)
		assert.Equal(t, "rotating credentials across 40 services took us three weeks of manual work and two outages along the way", items[0].Body)
		assert.Equal(t, "Platform Blog", items[0].MetaString("feed_title"))
	})

	t.Run("thin entries get page extraction", func(t *testing.T) {
		assert.Equal(t, []string{"https://blog.example.com/short"}, extractor.calls)
		assert.Equal(t, extractor.text, items[1].Body)
	})

	t.Run("second run returns nothing new", func(t *testing.T) {
		items, err := r.Collect(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestRSS_ExtractionDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssFeedXML))
	}))
	defer srv.Close()

	extractor := &stubExtractor{text: "should not be used"}
	r := NewRSS([]string{srv.URL}, 50, false, 5*time.Second, extractor, newMemState())

	items, err := r.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Empty(t, extractor.calls)
	assert.Equal(t, "tiny", items[1].Body)
}

func TestRSS_BadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not xml at all"))
	}))
	defer srv.Close()

	r := NewRSS([]string{srv.URL}, 50, false, 5*time.Second, nil, newMemState())
	items, err := r.Collect(context.Background())
	require.NoError(t, err, "a broken feed is logged and skipped")
	assert.Empty(t, items)
}
