package genai

import (
	"context"
	"errors"
	"strings"
)

// ErrorAction defines the action to take based on error type.
type ErrorAction int

const (
	// ActionRetry indicates the request should be retried with the same provider.
	ActionRetry ErrorAction = iota
	// ActionFallback indicates the other provider should be tried.
	ActionFallback
	// ActionFail indicates the request should fail immediately.
	ActionFail
)

// String returns a human-readable string for the error action.
func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ClassifyError determines the appropriate action based on the error:
// transient errors (429, 5xx, network) retry; quota exhaustion falls
// back to the other provider; permanent errors (4xx, bad key) fail.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}

	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}

	errStr := strings.ToLower(err.Error())

	// Quota exhaustion is not going away within this request; switch provider.
	if containsAny(errStr, "quota", "daily limit", "monthly limit", "billing") {
		return ActionFallback
	}

	if containsAny(errStr, "rate limit", "too many requests", "resource_exhausted", "429") {
		return ActionRetry
	}

	if containsAny(errStr, "unavailable", "500", "502", "503", "504", "timeout", "connection reset", "connection refused", "eof", "overloaded") {
		return ActionRetry
	}

	if containsAny(errStr, "400", "401", "403", "404", "invalid api key", "api key not valid", "permission denied", "not found") {
		return ActionFail
	}

	// Unknown errors get one chance on the other provider.
	return ActionFallback
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
