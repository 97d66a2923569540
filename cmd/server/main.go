// Package main provides the Messenger bot server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/catalog"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/conversation"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/dispatch"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/genai"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/mailer"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/messenger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/ratelimit"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/sentry"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/store"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, logger.Options{
		BetterstackToken:    cfg.LogsToken,
		BetterstackEndpoint: cfg.LogsEndpoint,
	})
	log.Info("Starting Messenger bot server")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	} else if sentry.IsEnabled() {
		log.Info("Error tracking initialized")
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Shared in-memory state: catalog cache, dedup window, conversation contexts
	sharedStore := store.NewWithDedupWindow(cfg.Bot.DedupWindow)

	// Catalog refresher keeps the cache in sync with the remote products.json
	refresher := catalog.NewRefresher(catalog.NewHTTPSource(cfg.CatalogURL), sharedStore, log, m)
	if err := refresher.Start(context.Background(), cfg.CatalogRefreshInterval); err != nil {
		log.WithError(err).Fatal("Failed to start catalog refresher")
	}
	log.WithField("interval", cfg.CatalogRefreshInterval).Info("Catalog refresher started")

	// Generative fallback chain (optional - requires a provider API key)
	var fallback dispatch.GenerativeFallback
	chain, err := genai.NewFromConfig(context.Background(), cfg, log, m)
	switch {
	case err != nil:
		log.WithError(err).Warn("Failed to create generative fallback, canned apology only")
	case chain == nil:
		log.Info("No generative provider configured, canned apology only")
	default:
		fallback = chain
		log.Info("Generative fallback chain created")
	}

	// Admin handover mailer (optional - requires SMTP credentials)
	var notifier dispatch.AdminNotifier
	if cfg.HasMailer() {
		notifier = mailer.New(cfg, log)
		log.WithField("receiver", cfg.ReceiverEmail).Info("Admin mailer created")
	} else {
		log.Info("SMTP not configured, handover alerts disabled")
	}

	// Graph API client and profile lookup
	client := messenger.NewClient(cfg, log, m)
	profiles := messenger.NewProfileLookup(client)

	// Conversation state machine and dispatch pipeline
	machine := conversation.NewMachine(cfg.Bot.HandoverKeywords, cfg.Bot.ResumeKeywords)
	pipeline := dispatch.New(sharedStore, machine, profiles, client, fallback, notifier, log, m, cfg.Bot)
	log.Info("Dispatch pipeline created")

	// Per-sender rate limiter
	limiter := ratelimit.NewPerSenderLimiter(ratelimit.PerSenderConfig{
		MaxTokens:  cfg.Bot.UserRateLimitBurst,
		RefillRate: cfg.Bot.UserRateLimitRefillPerSec,
	})

	// Webhook handler
	webhookHandler := webhook.NewHandler(cfg.VerifyToken, pipeline, limiter, cfg.Bot.WebhookTimeout, log, m)
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(sentryMiddleware())

	// Setup routes
	setupRoutes(router, webhookHandler, sharedStore, registry)

	// HTTP server timeouts sized for webhook traffic, see internal/config/timeouts.go
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new webhook deliveries first
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Let in-flight async event processing drain
	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout waiting for in-flight events")
	} else {
		log.Info("In-flight events drained")
	}

	// Stop background workers
	refresher.Stop()
	limiter.Stop()

	// Flush pending error reports
	sentry.Flush(2 * time.Second)

	log.Info("Server stopped")
}
