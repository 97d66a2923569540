package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
)

// Sink receives a validated catalog. Implemented by the shared store.
type Sink interface {
	ReplaceCatalog(products []Product)
}

// Refresher periodically replaces the catalog in the sink from the source.
// A failed refresh logs and leaves the last-known-good catalog untouched.
type Refresher struct {
	source  Source
	sink    Sink
	log     *logger.Logger
	metrics *metrics.Metrics
	cron    *cron.Cron
}

// NewRefresher creates a catalog refresher.
func NewRefresher(source Source, sink Sink, log *logger.Logger, m *metrics.Metrics) *Refresher {
	return &Refresher{
		source:  source,
		sink:    sink,
		log:     log.WithModule("catalog-refresher"),
		metrics: m,
	}
}

// Tick performs one fetch-validate-replace cycle. On any failure the
// existing catalog is kept and the error is returned for logging.
func (r *Refresher) Tick(ctx context.Context) error {
	start := time.Now()

	products, err := r.source.FetchAll(ctx)
	if err != nil {
		r.metrics.RecordCatalogRefresh("error", 0)
		r.metrics.RecordCollaboratorError("catalog")
		return fmt.Errorf("catalog refresh: %w", err)
	}

	r.sink.ReplaceCatalog(products)
	r.metrics.RecordCatalogRefresh("success", len(products))
	r.log.WithFields(map[string]any{
		"products":    len(products),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Catalog refreshed")

	return nil
}

// Start runs one refresh immediately, then schedules refreshes at the
// given interval. A tick is skipped while the previous one still runs,
// so the refresher is never concurrent with itself.
func (r *Refresher) Start(ctx context.Context, interval time.Duration) error {
	if err := r.Tick(ctx); err != nil {
		// First fetch failing is not fatal; the next tick retries.
		r.log.WithError(err).Warn("Initial catalog fetch failed, starting with empty catalog")
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), interval/2)
		defer cancel()

		if err := r.Tick(tickCtx); err != nil {
			r.log.WithError(err).Error("Catalog refresh failed, keeping previous catalog")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling catalog refresh: %w", err)
	}

	c.Start()
	r.cron = c
	r.log.WithField("interval", interval.String()).Info("Catalog refresher started")

	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (r *Refresher) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}
