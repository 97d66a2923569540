// Package sentry wraps the Sentry Go SDK for Better Stack error tracking.
// Errors captured here carry the Messenger sender ID as a tag so that
// failures can be traced back to a conversation.
package sentry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds the Better Stack Errors settings.
type Config struct {
	Token       string // Better Stack Errors application token (empty = disabled)
	Host        string // Ingesting host, e.g. "errors.betterstack.com"
	Environment string // Deployment environment label
}

// Initialize sets up the SDK. An empty token leaves error tracking
// disabled without an error.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	// The project ID (/1) is required by the SDK but ignored by Better Stack.
	return sentry.Init(sentry.ClientOptions{
		Dsn:              fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host),
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
}

// IsEnabled reports whether a client was initialized.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Flush waits for buffered events to be delivered, up to timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureException reports an error.
func CaptureException(err error) {
	sentry.CaptureException(err)
}

// CaptureExceptionForSender reports an error tagged with the Messenger
// sender ID of the conversation that triggered it.
func CaptureExceptionForSender(senderID string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("sender_id", senderID)
		sentry.CaptureException(err)
	})
}
