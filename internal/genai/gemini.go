package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
)

// geminiCompleter generates fallback replies using Gemini.
// It implements the Completer interface.
type geminiCompleter struct {
	client        *genai.Client
	model         string
	assistantName string
	brandName     string
	log           *logger.Logger
}

// newGeminiCompleter creates a Gemini-based completer.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiCompleter(ctx context.Context, apiKey, model, assistantName, brandName string, log *logger.Logger) (*geminiCompleter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiCompleter{
		client:        client,
		model:         model,
		assistantName: assistantName,
		brandName:     brandName,
		log:           log.WithModule("genai-gemini"),
	}, nil
}

// Complete generates a persona reply for the user's message.
func (c *geminiCompleter) Complete(ctx context.Context, message, displayName string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(c.assistantName, c.brandName, displayName), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		MaxOutputTokens:   256,
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(message), config)
	duration := time.Since(start)

	if err != nil {
		c.log.WithFields(map[string]any{
			"model":       c.model,
			"duration_ms": duration.Milliseconds(),
		}).WithError(err).Warn("Gemini completion failed")
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			reply.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}

	if resp.UsageMetadata != nil {
		c.log.WithFields(map[string]any{
			"model":         c.model,
			"input_tokens":  resp.UsageMetadata.PromptTokenCount,
			"output_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms":   duration.Milliseconds(),
		}).Debug("Gemini completion succeeded")
	}

	return text, nil
}

// Provider returns the provider name for logs and metrics.
func (c *geminiCompleter) Provider() string {
	return ProviderGemini
}
