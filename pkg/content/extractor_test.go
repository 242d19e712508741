package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPExtractor_Extract(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		wantContent string
		wantErr     bool
		statusCode  int
	}{
		{
			name: "successful extraction",
			htmlContent: `<!DOCTYPE html>
				<html>
				<head><title>Test Article</title></head>
				<body>
					<article>
						<h1>Test Article Title</h1>
						<p>This is the main content of the article.</p>
						<p>It has multiple paragraphs.</p>
					</article>
				</body>
				</html>`,
			wantContent: "Test Article Title",
			statusCode:  http.StatusOK,
		},
		{
			name:        "server error",
			htmlContent: "error",
			wantErr:     true,
			statusCode:  http.StatusInternalServerError,
		},
		{
			name:        "not found",
			htmlContent: "not found",
			wantErr:     true,
			statusCode:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, err := w.Write([]byte(tt.htmlContent))
				assert.NoError(t, err)
			}))
			defer srv.Close()

			extractor := NewHTTPExtractor(5 * time.Second)
			content, err := extractor.Extract(context.Background(), srv.URL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, content, tt.wantContent)
		})
	}
}

func TestHTTPExtractor_Extract_BadURL(t *testing.T) {
	extractor := NewHTTPExtractor(time.Second)

	_, err := extractor.Extract(context.Background(), "not-a-url")
	require.Error(t, err)

	_, err = extractor.Extract(context.Background(), "://missing-scheme")
	require.Error(t, err)
}

func TestHTTPExtractor_Extract_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("<html><body><p>late</p></body></html>"))
	}))
	defer srv.Close()

	extractor := NewHTTPExtractor(50 * time.Millisecond)
	_, err := extractor.Extract(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "just text", want: "just text"},
		{name: "tags removed", input: "<p>hello <b>world</b></p>", want: "hello world"},
		{name: "entities decoded", input: "a &amp; b &lt;c&gt;", want: "a & b <c>"},
		{name: "whitespace collapsed", input: "<div>a</div>\n\n   <div>b</div>", want: "a b"},
		{name: "script dropped", input: `<script>alert("x")</script>content`, want: "content"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde\n[truncated]", Truncate("abcdefgh", 5))
}
