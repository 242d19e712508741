package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Read-only API server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:devscope.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Scoring struct {
		Threshold int `yaml:"threshold" json:"threshold" jsonschema:"default=40,minimum=0,maximum=100,description=Minimum signal score to keep collected items"`
	} `yaml:"scoring" json:"scoring" jsonschema:"description=Deterministic scoring configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for opportunity synthesis"`

	Collect CollectConfig `yaml:"collect" json:"collect" jsonschema:"description=Source collectors configuration"`

	Email EmailConfig `yaml:"email" json:"email" jsonschema:"description=Optional SMTP delivery for digests"`
}

// LLMConfig holds completion provider configuration
type LLMConfig struct {
	Provider    string        `yaml:"provider" json:"provider" jsonschema:"default=openai,enum=openai,enum=openrouter,enum=claude,enum=gemini,description=Completion backend"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (openai/openrouter only)"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"required,description=Model name"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.2,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=3000,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
}

// CollectConfig holds per-source collector settings
type CollectConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency" jsonschema:"default=4,description=Maximum collectors running at once"`

	Github struct {
		Token           string   `yaml:"token" json:"token" jsonschema:"description=GitHub token (optional for REST, required for discussions)"`
		Repos           []string `yaml:"repos" json:"repos" jsonschema:"description=owner/repo list watched for releases and issues"`
		DiscussionRepos []string `yaml:"discussion_repos" json:"discussion_repos" jsonschema:"description=owner/repo list watched for discussions"`
		MaxPerRepo      int      `yaml:"max_per_repo" json:"max_per_repo" jsonschema:"default=30,description=Maximum items fetched per repo per cycle"`
	} `yaml:"github" json:"github"`

	HackerNews struct {
		MinScore       int      `yaml:"min_score" json:"min_score" jsonschema:"default=50,description=Minimum points for top stories"`
		MaxItems       int      `yaml:"max_items" json:"max_items" jsonschema:"default=100,description=Top story ids fetched per cycle"`
		Keywords       []string `yaml:"keywords" json:"keywords" jsonschema:"description=Algolia search keywords"`
		SearchMinScore int      `yaml:"search_min_score" json:"search_min_score" jsonschema:"default=5,description=Minimum points for keyword search hits"`
	} `yaml:"hackernews" json:"hackernews"`

	Feeds []string `yaml:"feeds" json:"feeds" jsonschema:"description=RSS/Atom feed URLs"`

	RSS struct {
		MinBodyLength int           `yaml:"min_body_length" json:"min_body_length" jsonschema:"default=200,description=Entries with shorter bodies get page-content enrichment"`
		ExtractPages  bool          `yaml:"extract_pages" json:"extract_pages" jsonschema:"default=false,description=Fetch and extract linked pages for thin entries"`
		Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per-feed fetch timeout"`
	} `yaml:"rss" json:"rss"`

	NVD struct {
		Keywords   []string `yaml:"keywords" json:"keywords" jsonschema:"description=CVE description keywords to match, empty matches all"`
		Days       int      `yaml:"days" json:"days" jsonschema:"default=7,description=Look-back window on first run"`
		MinCVSS    float64  `yaml:"min_cvss" json:"min_cvss" jsonschema:"default=7,description=Minimum CVSS base score to keep"`
		MaxResults int      `yaml:"max_results" json:"max_results" jsonschema:"default=50,description=Maximum CVEs fetched per cycle"`
	} `yaml:"nvd" json:"nvd"`
}

// EmailConfig holds optional SMTP delivery settings
type EmailConfig struct {
	Host string `yaml:"host" json:"host" jsonschema:"description=SMTP host, empty disables email delivery"`
	Port int    `yaml:"port" json:"port" jsonschema:"default=587,description=SMTP port"`
	User string `yaml:"user" json:"user" jsonschema:"description=SMTP user"`
	Pass string `yaml:"pass" json:"pass" jsonschema:"description=SMTP password (can use environment variable)"`
	From string `yaml:"from" json:"from" jsonschema:"default=devscope@localhost,description=From address"`
	To   string `yaml:"to" json:"to" jsonschema:"description=Recipient address"`
}

// Load reads configuration from a YAML file, expands environment variables and
// applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables so secrets can stay out of the file
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:devscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Scoring.Threshold == 0 {
		c.Scoring.Threshold = 40
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 3000
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if c.Collect.Concurrency == 0 {
		c.Collect.Concurrency = 4
	}
	if c.Collect.Github.MaxPerRepo == 0 {
		c.Collect.Github.MaxPerRepo = 30
	}
	if c.Collect.HackerNews.MinScore == 0 {
		c.Collect.HackerNews.MinScore = 50
	}
	if c.Collect.HackerNews.MaxItems == 0 {
		c.Collect.HackerNews.MaxItems = 100
	}
	if c.Collect.HackerNews.SearchMinScore == 0 {
		c.Collect.HackerNews.SearchMinScore = 5
	}
	if c.Collect.RSS.MinBodyLength == 0 {
		c.Collect.RSS.MinBodyLength = 200
	}
	if c.Collect.RSS.Timeout == 0 {
		c.Collect.RSS.Timeout = 30 * time.Second
	}
	if c.Collect.NVD.Days == 0 {
		c.Collect.NVD.Days = 7
	}
	if c.Collect.NVD.MinCVSS == 0 {
		c.Collect.NVD.MinCVSS = 7
	}
	if c.Collect.NVD.MaxResults == 0 {
		c.Collect.NVD.MaxResults = 50
	}

	if c.Email.Port == 0 {
		c.Email.Port = 587
	}
	if c.Email.From == "" {
		c.Email.From = "devscope@localhost"
	}
}
