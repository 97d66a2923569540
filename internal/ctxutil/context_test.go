package ctxutil

import (
	"context"
	"testing"
)

func TestSenderID_RoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := GetSenderID(ctx); got != "" {
		t.Errorf("Expected empty sender ID on fresh context, got %q", got)
	}

	ctx = WithSenderID(ctx, "1234567890")
	if got := GetSenderID(ctx); got != "1234567890" {
		t.Errorf("Expected '1234567890', got %q", got)
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "mid.abc")
	if got := GetRequestID(ctx); got != "mid.abc" {
		t.Errorf("Expected 'mid.abc', got %q", got)
	}
}

func TestEmptyValues_NotReturned(t *testing.T) {
	ctx := WithSenderID(context.Background(), "")
	if got := GetSenderID(ctx); got != "" {
		t.Errorf("Expected empty string for empty stored value, got %q", got)
	}
}
