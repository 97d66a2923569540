package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
)

// openaiCompleter generates fallback replies through any OpenAI-compatible
// endpoint. It implements the Completer interface.
type openaiCompleter struct {
	client        openai.Client
	model         string
	assistantName string
	brandName     string
	log           *logger.Logger
}

// newOpenAICompleter creates an OpenAI-compatible completer.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAICompleter(apiKey, baseURL, model, assistantName, brandName string, log *logger.Logger) (*openaiCompleter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required for OpenAI-compatible provider")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required for OpenAI-compatible provider")
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiCompleter{
		client:        client,
		model:         model,
		assistantName: assistantName,
		brandName:     brandName,
		log:           log.WithModule("genai-openai"),
	}, nil
}

// Complete generates a persona reply for the user's message.
func (c *openaiCompleter) Complete(ctx context.Context, message, displayName string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(c.assistantName, c.brandName, displayName)),
			openai.UserMessage(message),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(256),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		c.log.WithFields(map[string]any{
			"model":       c.model,
			"duration_ms": duration.Milliseconds(),
		}).WithError(err).Warn("OpenAI-compatible completion failed")
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("completion returned empty text")
	}

	if resp.Usage.TotalTokens > 0 {
		c.log.WithFields(map[string]any{
			"model":         c.model,
			"input_tokens":  resp.Usage.PromptTokens,
			"output_tokens": resp.Usage.CompletionTokens,
			"duration_ms":   duration.Milliseconds(),
		}).Debug("OpenAI-compatible completion succeeded")
	}

	return text, nil
}

// Provider returns the provider name for logs and metrics.
func (c *openaiCompleter) Provider() string {
	return ProviderOpenAI
}
