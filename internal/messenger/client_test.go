package messenger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{PageAccessToken: "test-token"}
	cfg.Bot.MaxMessageLength = 2000
	c := NewClient(cfg, logger.NewWithWriter("error", io.Discard), metrics.New(prometheus.NewRegistry()))
	c.baseURL = baseURL
	return c
}

func TestSendText(t *testing.T) {
	t.Parallel()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/messages" {
			t.Errorf("path = %q, want /me/messages", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "test-token" {
			t.Error("missing access token")
		}
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"message_id": "mid.1"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.SendText(context.Background(), "psid-1", "Hi po!"); err != nil {
		t.Fatalf("SendText error = %v", err)
	}

	recipient := captured["recipient"].(map[string]any)
	if recipient["id"] != "psid-1" {
		t.Errorf("recipient = %v, want psid-1", recipient["id"])
	}
	message := captured["message"].(map[string]any)
	if message["text"] != "Hi po!" {
		t.Errorf("text = %v, want Hi po!", message["text"])
	}
}

func TestSendText_TruncatesLongMessages(t *testing.T) {
	t.Parallel()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	long := strings.Repeat("x", 5000)
	if err := c.SendText(context.Background(), "psid-1", long); err != nil {
		t.Fatalf("SendText error = %v", err)
	}

	text := captured["message"].(map[string]any)["text"].(string)
	if len(text) != 2000 {
		t.Errorf("sent length = %d, want 2000", len(text))
	}
}

func TestSendText_GraphError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid OAuth token"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.SendText(context.Background(), "psid-1", "hello")
	if err == nil {
		t.Fatal("SendText error = nil, want error")
	}

	var graphErr *apperrors.GraphError
	if !errors.As(err, &graphErr) {
		t.Fatalf("error = %T, want *GraphError", err)
	}
	if graphErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", graphErr.StatusCode)
	}
}

func TestSendTypingIndicator_SwallowsErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["sender_action"] != "typing_on" {
			t.Errorf("sender_action = %v, want typing_on", body["sender_action"])
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Should not panic or surface the failure.
	newTestClient(srv.URL).SendTypingIndicator(context.Background(), "psid-1", true)
}
