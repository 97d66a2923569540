package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/catalog"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/conversation"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/dispatch"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/messenger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/ratelimit"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/store"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) SendText(ctx context.Context, recipientID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingSender) SendTemplate(ctx context.Context, recipientID string, template map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, "template")
	return nil
}

func (r *recordingSender) SendTypingIndicator(ctx context.Context, recipientID string, on bool) {}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type staticProfiles struct{}

func (staticProfiles) Fetch(ctx context.Context, userID string) (messenger.Profile, error) {
	return messenger.Profile{FirstName: "Juan"}, nil
}

func newTestHandler(t *testing.T, maxTokens float64) (*Handler, *recordingSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	st.ReplaceCatalog([]catalog.Product{
		{ID: "ace-ovt-001", Name: "Ace Oversized Tee", Keywords: []string{"tee"}, Price: "₱450"},
	})

	log := logger.NewWithWriter("error", io.Discard)
	m := metrics.New(prometheus.NewRegistry())
	sender := &recordingSender{}

	pipeline := dispatch.New(
		st,
		conversation.NewMachine([]string{"refund"}, []string{"bot"}),
		staticProfiles{},
		sender,
		nil,
		nil,
		log,
		m,
		config.BotConfig{AssistantName: "Sofia", BrandName: "Ace"},
	)

	limiter := ratelimit.NewPerSenderLimiter(ratelimit.PerSenderConfig{
		MaxTokens:     maxTokens,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	t.Cleanup(limiter.Stop)

	return NewHandler("verify-secret", pipeline, limiter, 5*time.Second, log, m), sender
}

func newRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	return r
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t, 10)
	router := newRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=challenge-123", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "challenge-123", w.Body.String())
}

func TestVerify_WrongToken(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t, 10)
	router := newRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=x", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

const messagePayload = `{
	"object": "page",
	"entry": [{
		"id": "page-1",
		"time": 1700000000,
		"messaging": [{
			"sender": {"id": "psid-1"},
			"recipient": {"id": "page-1"},
			"message": {"mid": "mid.1", "text": "oversized tee"}
		}]
	}]
}`

func TestReceive_ProcessesMessageAsync(t *testing.T) {
	t.Parallel()
	h, sender := newTestHandler(t, 10)
	router := newRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(messagePayload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.Shutdown(ctx))

	// Catalog hit: intro + carousel.
	assert.Equal(t, 2, sender.count())
}

func TestReceive_BadJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t, 10)
	router := newRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{{nope"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceive_NonPageObject(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t, 10)
	router := newRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object": "instagram", "entry": []}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceive_RateLimitedSenderDropped(t *testing.T) {
	t.Parallel()
	h, sender := newTestHandler(t, 1)
	router := newRouter(h)

	// Two distinct messages from one sender; the second exceeds the
	// single-token bucket and is dropped before the pipeline.
	for _, mid := range []string{"mid.a", "mid.b"} {
		payload := strings.Replace(messagePayload, "mid.1", mid, 1)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		h.Shutdown(ctx)
		cancel()
	}

	assert.Equal(t, 2, sender.count(), "only the first message should be answered")
}
