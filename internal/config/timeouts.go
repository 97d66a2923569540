// Package config provides centralized timeout constants for the application.
//
// These values are tuned for the Meta Messenger Platform:
//   - Webhook deliveries expect a fast 200 OK or Meta retries the delivery
//   - Send API and profile lookups are small JSON round-trips
//   - The remote product catalog is one JSON file fetched over HTTP
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing is the timeout for processing a single webhook event.
	// This bounds profile lookup, catalog matching, and the generative
	// fallback for one inbound message.
	WebhookProcessing = 30 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Should be short since Meta sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	// The webhook acknowledges immediately, so this only needs to cover
	// response serialization for health and metrics endpoints.
	WebhookHTTPWrite = 15 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Graph API timeouts
const (
	// GraphSend is the timeout for one Send API call (text or carousel).
	GraphSend = 10 * time.Second

	// GraphProfile is the timeout for a user profile lookup.
	// Kept short: a slow profile fetch must not stall the reply, the
	// pipeline falls back to a generic display name instead.
	GraphProfile = 5 * time.Second

	// GraphTyping is the timeout for a typing indicator call.
	GraphTyping = 5 * time.Second
)

// Catalog timeouts
const (
	// CatalogFetch is the timeout for one catalog download attempt.
	CatalogFetch = 10 * time.Second

	// CatalogRetryInitial is the initial delay before retrying a failed
	// catalog fetch. Uses exponential backoff: 2s -> 4s -> 8s
	CatalogRetryInitial = 2 * time.Second
)

// Collaborator timeouts
const (
	// FallbackCompletion is the timeout for one generative completion call.
	FallbackCompletion = 20 * time.Second

	// AdminAlert is the timeout for sending one handover alert email.
	AdminAlert = 15 * time.Second
)
