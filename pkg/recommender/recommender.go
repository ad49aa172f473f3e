// Package recommender asks an OpenAI-compatible chat-completions endpoint
// for a short recommendation based on a week of moods.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/limbo/moodlog/pkg/entity"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultModel    = "gpt-4.1-mini"
	defaultLanguage = "French"
	defaultTimeout  = 20 * time.Second
	maxTokens       = 150
	temperature     = 0.7
	maxWords        = 100
	placeholderKey  = "set your api key here"
)

var (
	ErrNotConfigured   = errors.New("recommendation api key is not configured")
	ErrEmptyCompletion = errors.New("completion has no content")
)

type Config struct {
	APIKey   string
	Model    string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

type Client struct {
	api      *openai.Client
	model    string
	language string
	timeout  time.Duration
}

func New(cfg Config) *Client {
	c := &Client{
		model:    cfg.Model,
		language: cfg.Language,
		timeout:  cfg.Timeout,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.language == "" {
		c.language = defaultLanguage
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" || strings.EqualFold(key, placeholderKey) {
		return c
	}
	apiCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: c.timeout}
	c.api = openai.NewClientWithConfig(apiCfg)
	return c
}

func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

// Recommend returns the model's advice for the coming week. Transport and
// API failures come back as errors, never as text.
func (c *Client) Recommend(ctx context.Context, week []entity.MoodEntry) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(c.language)},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(week, c.language)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func SystemPrompt(language string) string {
	return fmt.Sprintf("You are a helpful and empathetic mood analysis assistant. "+
		"Your goal is to analyze the user's mood data and provide a single, concise, and actionable "+
		"recommendation for the next week to improve their performance and mood. "+
		"The response must be in %s and should not exceed %d words.", language, maxWords)
}

// BuildPrompt renders one line per day, oldest first.
func BuildPrompt(week []entity.MoodEntry, language string) string {
	days := make([]entity.MoodEntry, len(week))
	copy(days, week)
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	var sb strings.Builder
	sb.WriteString("Analyze the user's mood data for the past week and propose a recommendation for the next week.\n")
	sb.WriteString("Mood data (Date | Emoji | Score | Note):\n")
	for _, d := range days {
		note := "No note"
		if d.Note != nil && *d.Note != "" {
			note = fmt.Sprintf("Note: %q", *d.Note)
		}
		fmt.Fprintf(&sb, "%s | %s | Score: %d | %s\n", d.Date.Format(time.DateOnly), d.Emoji, d.Score, note)
	}
	fmt.Fprintf(&sb, "\nBased on this data, what is the best recommendation to improve the user's mood and performance next week? "+
		"Answer in %s and be concise (max %d words).\n", language, maxWords)
	return sb.String()
}
