package genai

import (
	"context"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
)

// NewFromConfig builds the fallback chain from configuration.
// Gemini is primary when configured; an OpenAI-compatible provider is
// secondary. Returns nil when no provider is configured, in which case
// the pipeline uses the canned apology directly.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*FallbackChain, error) {
	var primary, secondary Completer

	gemini, err := newGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Bot.AssistantName, cfg.Bot.BrandName, log)
	if err != nil {
		return nil, err
	}
	if gemini != nil {
		primary = gemini
	}

	oai, err := newOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Bot.AssistantName, cfg.Bot.BrandName, log)
	if err != nil {
		return nil, err
	}
	if oai != nil {
		if primary == nil {
			primary = oai
		} else {
			secondary = oai
		}
	}

	if primary == nil {
		return nil, nil //nolint:nilnil // Intentional: fallback disabled without any API key
	}

	return NewFallbackChain(primary, secondary, DefaultRetryConfig(), log, m), nil
}
