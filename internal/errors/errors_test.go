package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Is(t *testing.T) {
	wrapped := fmt.Errorf("refresh failed: %w", ErrMalformedCatalog)
	if !stderrors.Is(wrapped, ErrMalformedCatalog) {
		t.Error("Expected errors.Is to match ErrMalformedCatalog through wrapping")
	}
	if stderrors.Is(wrapped, ErrNotFound) {
		t.Error("Did not expect match against ErrNotFound")
	}
}

func TestGraphError_Format(t *testing.T) {
	err := NewGraphError("/me/messages", 400, stderrors.New("bad request"))

	msg := err.Error()
	want := "graph api error (endpoint=/me/messages, status=400): bad request"
	if msg != want {
		t.Errorf("Expected %q, got %q", want, msg)
	}
}

func TestGraphError_NoStatus(t *testing.T) {
	err := NewGraphError("/me/messages", 0, stderrors.New("connection refused"))

	msg := err.Error()
	want := "graph api error (endpoint=/me/messages): connection refused"
	if msg != want {
		t.Errorf("Expected %q, got %q", want, msg)
	}
}

func TestGraphError_Unwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	err := NewGraphError("/12345", 0, fmt.Errorf("profile fetch: %w", cause))

	if !stderrors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the underlying cause")
	}

	var graphErr *GraphError
	if !stderrors.As(err, &graphErr) {
		t.Fatal("Expected errors.As to find *GraphError")
	}
	if graphErr.Endpoint != "/12345" {
		t.Errorf("Expected endpoint '/12345', got %q", graphErr.Endpoint)
	}
}
