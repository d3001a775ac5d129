// Package llm asks an OpenAI-compatible model to explain repositories.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/naka-gawa/gh-search/internal/domain"
)

// ErrDisabled is returned when no AI API key is configured.
var ErrDisabled = errors.New("AI features disabled: no AI API key configured")

// Summary is the model's structured answer.
type Summary struct {
	Summary    string   `json:"summary"`
	Categories []string `json:"categories"`
}

type Client struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewClient returns ErrDisabled when apiKey is empty.
func NewClient(baseURL, apiKey, model string, logger *log.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}, nil
}

const systemPrompt = `You are a technical analyst. Given a GitHub repository's metadata, produce a JSON object with:

1. "summary": A 2-3 sentence summary of what the repo does, its main use case, and why it's notable.
2. "categories": An array of 1-3 short categories such as Library/SDK, Developer Tool, CLI, Web Framework, Database, AI/ML, Infrastructure, Other.

Return ONLY valid JSON. No markdown, no code fences.`

func (c *Client) Summarize(ctx context.Context, repo domain.Repository) (*Summary, error) {
	c.logger.Debug("summarizing repository", "repo", repo.FullName, "model", c.model)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: describe(repo)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM call for %s: %w", repo.FullName, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned for %s", repo.FullName)
	}

	content := stripCodeFences(resp.Choices[0].Message.Content)
	var result Summary
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parsing LLM response for %s: %w", repo.FullName, err)
	}
	return &result, nil
}

func describe(repo domain.Repository) string {
	parts := []string{fmt.Sprintf("Repository: %s", repo.FullName)}
	if repo.Description != nil {
		parts = append(parts, fmt.Sprintf("Description: %s", *repo.Description))
	}
	if repo.Language != nil {
		parts = append(parts, fmt.Sprintf("Primary language: %s", *repo.Language))
	}
	if len(repo.Topics) > 0 {
		parts = append(parts, fmt.Sprintf("Topics: %s", strings.Join(repo.Topics, ", ")))
	}
	parts = append(parts, fmt.Sprintf("Stars: %d, forks: %d", repo.Stars, repo.Forks))
	return strings.Join(parts, "\n")
}

// stripCodeFences removes markdown code fences that some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
