package webhook

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/ctxutil"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/dispatch"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/ratelimit"
)

// Handler receives Messenger webhook deliveries and dispatches them.
type Handler struct {
	verifyToken    string
	pipeline       *dispatch.Pipeline
	limiter        *ratelimit.PerSenderLimiter
	processTimeout time.Duration
	log            *logger.Logger
	metrics        *metrics.Metrics
	wg             sync.WaitGroup
}

// NewHandler creates a webhook handler. processTimeout bounds the async
// handling of a single event; non-positive values use the default.
func NewHandler(verifyToken string, pipeline *dispatch.Pipeline, limiter *ratelimit.PerSenderLimiter, processTimeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Handler {
	if processTimeout <= 0 {
		processTimeout = config.WebhookProcessing
	}
	return &Handler{
		verifyToken:    verifyToken,
		pipeline:       pipeline,
		limiter:        limiter,
		processTimeout: processTimeout,
		log:            log.WithModule("webhook"),
		metrics:        m,
	}
}

// Verify answers the GET verification handshake Messenger performs when
// the webhook is registered: echo hub.challenge when the token matches.
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.log.Info("Webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.log.Warn("Webhook verification failed")
	c.String(http.StatusForbidden, "Forbidden")
}

// Receive is the POST endpoint. Messenger expects a fast 200; events are
// processed asynchronously after the response is written.
func (h *Handler) Receive(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.WithError(err).Warn("Undecodable webhook payload")
		c.Status(http.StatusBadRequest)
		return
	}

	if payload.Object != "page" {
		c.Status(http.StatusNotFound)
		return
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")

	// Copy events out before the request context is recycled.
	var events []MessagingEvent
	for _, entry := range payload.Entry {
		events = append(events, entry.Messaging...)
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				h.log.WithField("panic", r).Error("Panic in async event processing")
			}
		}()

		for _, event := range events {
			h.processEvent(event)
		}
	}()
}

// processEvent routes one event through rate limiting into the pipeline.
func (h *Handler) processEvent(event MessagingEvent) {
	senderID := event.Sender.ID
	if senderID == "" {
		h.log.Warn("Event without sender id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.processTimeout)
	defer cancel()
	ctx = ctxutil.WithSenderID(ctx, senderID)

	if !h.limiter.Allow(senderID) {
		h.metrics.RecordRateLimiterDrop("user")
		h.log.WithField("sender_id", senderID).Warn("Sender rate limited, event dropped")
		return
	}

	start := time.Now()

	switch {
	case event.Message != nil:
		if event.Message.IsEcho || event.Message.Text == "" {
			return
		}
		ctx = ctxutil.WithRequestID(ctx, event.Message.MID)
		h.pipeline.HandleMessage(ctx, senderID, event.Message.Text, event.Message.MID)
		h.metrics.RecordWebhook("message", "success", time.Since(start).Seconds())

	case event.Postback != nil:
		h.pipeline.HandlePostback(ctx, senderID, event.Postback.Payload)
		h.metrics.RecordWebhook("postback", "success", time.Since(start).Seconds())

	default:
		h.log.WithField("sender_id", senderID).Debug("Ignoring unsupported event type")
	}
}

// Shutdown waits for in-flight async processing to finish or the context
// to expire.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
