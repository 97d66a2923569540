// Package main provides the Messenger bot server entry point.
package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/store"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/webhook"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, webhookHandler *webhook.Handler, sharedStore *store.SharedStore, registry *prometheus.Registry) {
	// Root endpoint - redirect to the project page
	rootHandler := func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "https://github.com/Lawrenze09/Hybrid-AI-Messenger-Bot")
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe - only checks that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - ready once the catalog cache has been populated.
	// Until the first successful fetch the bot cannot match products.
	readyHandler := func(c *gin.Context) {
		updatedAt := sharedStore.CatalogUpdatedAt()
		if updatedAt.IsZero() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "catalog not loaded",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"catalog": gin.H{
				"products":   len(sharedStore.SnapshotCatalog()),
				"updated_at": updatedAt.Format(time.RFC3339),
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Messenger webhook endpoints
	router.GET("/webhook", webhookHandler.Verify)
	router.POST("/webhook", webhookHandler.Receive)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
