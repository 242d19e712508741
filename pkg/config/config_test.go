package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
server:
  listen: ":9090"
  timeout: 15s

database:
  dsn: "file:test.db?mode=memory"

scoring:
  threshold: 35

llm:
  provider: openrouter
  endpoint: https://openrouter.ai/api/v1
  api_key: test-key
  model: anthropic/claude-sonnet-4
  temperature: 0.3
  max_tokens: 2000

collect:
  github:
    repos:
      - actions/runner
      - hashicorp/terraform
  hackernews:
    min_score: 80
    keywords: [terraform, "soc 2"]
  feeds:
    - https://example.com/feed.xml
  nvd:
    keywords: [jenkins, kubernetes]

email:
  host: smtp.example.com
  to: founder@example.com
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "file:test.db?mode=memory", cfg.Database.DSN)
	assert.Equal(t, 35, cfg.Scoring.Threshold)
	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "anthropic/claude-sonnet-4", cfg.LLM.Model)
	assert.InEpsilon(t, 0.3, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, []string{"actions/runner", "hashicorp/terraform"}, cfg.Collect.Github.Repos)
	assert.Equal(t, 80, cfg.Collect.HackerNews.MinScore)
	assert.Equal(t, []string{"terraform", "soc 2"}, cfg.Collect.HackerNews.Keywords)
	assert.Equal(t, "smtp.example.com", cfg.Email.Host)

	// defaults applied for everything not set
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 30, cfg.Collect.Github.MaxPerRepo)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, "devscope@localhost", cfg.Email.From)
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 40, cfg.Scoring.Threshold)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.InEpsilon(t, 0.2, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 3000, cfg.LLM.MaxTokens)
	assert.Equal(t, 7, cfg.Collect.NVD.Days)
	assert.InEpsilon(t, 7.0, cfg.Collect.NVD.MinCVSS, 0.001)
	assert.Equal(t, 50, cfg.Collect.NVD.MaxResults)
	assert.Equal(t, 200, cfg.Collect.RSS.MinBodyLength)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "secret-from-env")

	content := `
llm:
  model: gpt-4o
  api_key: ${TEST_LLM_KEY}
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.LLM.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("llm: [unbalanced"), 0o600))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestVerify(t *testing.T) {
	mk := func(mutate func(c *Config)) *Config {
		c := &Config{}
		c.setDefaults()
		c.LLM.Model = "gpt-4o"
		c.LLM.APIKey = "key"
		if mutate != nil {
			mutate(c)
		}
		return c
	}

	t.Run("valid llm config", func(t *testing.T) {
		assert.NoError(t, mk(nil).Verify(true))
	})
	t.Run("llm not needed skips checks", func(t *testing.T) {
		assert.NoError(t, mk(func(c *Config) { c.LLM.APIKey = "" }).Verify(false))
	})
	t.Run("missing api key", func(t *testing.T) {
		err := mk(func(c *Config) { c.LLM.APIKey = "" }).Verify(true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key")
	})
	t.Run("missing model", func(t *testing.T) {
		err := mk(func(c *Config) { c.LLM.Model = "" }).Verify(true)
		require.Error(t, err)
	})
	t.Run("unknown provider", func(t *testing.T) {
		err := mk(func(c *Config) { c.LLM.Provider = "bard" }).Verify(true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown llm provider")
	})
	t.Run("temperature out of range", func(t *testing.T) {
		err := mk(func(c *Config) { c.LLM.Temperature = 1.5 }).Verify(true)
		require.Error(t, err)
	})
}

func TestVerifyCollect(t *testing.T) {
	mk := func() *Config {
		c := &Config{}
		c.setDefaults()
		return c
	}

	t.Run("bad repo form", func(t *testing.T) {
		c := mk()
		c.Collect.Github.Repos = []string{"not-a-repo"}
		require.Error(t, c.VerifyCollect())
	})
	t.Run("discussions need token", func(t *testing.T) {
		c := mk()
		c.Collect.Github.DiscussionRepos = []string{"cli/cli"}
		err := c.VerifyCollect()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token")
	})
	t.Run("valid", func(t *testing.T) {
		c := mk()
		c.Collect.Github.Repos = []string{"actions/runner"}
		assert.NoError(t, c.VerifyCollect())
	})
}
