package config

import (
	"fmt"
	"strings"
)

// Verify checks the parts of the config the requested mode actually needs.
// Collectors can run without an LLM key, synthesis cannot.
func (c *Config) Verify(needLLM bool) error {
	if !needLLM {
		return nil
	}

	switch c.LLM.Provider {
	case "openai", "openrouter", "claude", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is required for provider %q", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm temperature must be in [0,1], got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	return nil
}

// VerifyCollect checks collector settings for the collect command
func (c *Config) VerifyCollect() error {
	for _, repo := range c.Collect.Github.Repos {
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("github repo %q must be in owner/repo form", repo)
		}
	}
	for _, repo := range c.Collect.Github.DiscussionRepos {
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("github discussion repo %q must be in owner/repo form", repo)
		}
	}
	if len(c.Collect.Github.DiscussionRepos) > 0 && c.Collect.Github.Token == "" {
		return fmt.Errorf("github token is required for discussions (GraphQL)")
	}
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 100 {
		return fmt.Errorf("scoring threshold must be 0-100, got %d", c.Scoring.Threshold)
	}
	return nil
}
