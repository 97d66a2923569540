// Package messenger implements the Facebook Graph API collaborators:
// message delivery, typing indicators, and profile lookup. Failures are
// surfaced as GraphError so callers can log and degrade; nothing here
// panics into the dispatch pipeline.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// Client talks to the Messenger Send API.
type Client struct {
	baseURL    string
	pageToken  string
	httpClient *http.Client
	log        *logger.Logger
	metrics    *metrics.Metrics
	maxLength  int
}

// NewClient creates a Graph API client.
func NewClient(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		pageToken: cfg.PageAccessToken,
		httpClient: &http.Client{
			Timeout: config.GraphSend,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log:       log.WithModule("messenger"),
		metrics:   m,
		maxLength: cfg.Bot.MaxMessageLength,
	}
}

// SendText sends a plain text message, truncated to the platform limit.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	if c.maxLength > 0 && len(text) > c.maxLength {
		text = text[:c.maxLength]
	}
	return c.sendMessage(ctx, recipientID, map[string]any{"text": text})
}

// SendTemplate sends a structured message payload, such as the product
// carousel built by BuildCarousel.
func (c *Client) SendTemplate(ctx context.Context, recipientID string, template map[string]any) error {
	return c.sendMessage(ctx, recipientID, template)
}

// SendTypingIndicator toggles the typing indicator. Failures are logged
// and swallowed; a missing indicator never blocks a reply.
func (c *Client) SendTypingIndicator(ctx context.Context, recipientID string, on bool) {
	action := "typing_off"
	if on {
		action = "typing_on"
	}

	body := map[string]any{
		"recipient":     map[string]string{"id": recipientID},
		"sender_action": action,
	}

	ctx, cancel := context.WithTimeout(ctx, config.GraphTyping)
	defer cancel()

	if err := c.post(ctx, "/me/messages", body); err != nil {
		c.log.WithField("recipient", recipientID).WithError(err).Debug("Typing indicator failed")
	}
}

func (c *Client) sendMessage(ctx context.Context, recipientID string, message map[string]any) error {
	body := map[string]any{
		"recipient": map[string]string{"id": recipientID},
		"message":   message,
	}

	ctx, cancel := context.WithTimeout(ctx, config.GraphSend)
	defer cancel()

	if err := c.post(ctx, "/me/messages", body); err != nil {
		c.metrics.RecordCollaboratorError("send")
		return err
	}

	c.log.WithField("recipient", recipientID).Debug("Message sent")
	return nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?access_token=%s", c.baseURL, path, url.QueryEscape(c.pageToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewGraphError(path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewGraphError(path, resp.StatusCode, fmt.Errorf("graph api: %s", snippet))
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}
