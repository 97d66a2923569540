package catalog

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/logger"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/metrics"
)

type fakeSource struct {
	products []Product
	err      error
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]Product, error) {
	return f.products, f.err
}

type fakeSink struct {
	mu       sync.Mutex
	replaced [][]Product
}

func (f *fakeSink) ReplaceCatalog(products []Product) {
	f.mu.Lock()
	f.replaced = append(f.replaced, products)
	f.mu.Unlock()
}

func newTestRefresher(source Source, sink Sink) *Refresher {
	log := logger.NewWithWriter("error", io.Discard)
	m := metrics.New(prometheus.NewRegistry())
	return NewRefresher(source, sink, log, m)
}

func TestTick_ReplacesOnSuccess(t *testing.T) {
	t.Parallel()
	sink := &fakeSink{}
	r := newTestRefresher(&fakeSource{products: []Product{{ID: "p1", Name: "Tee"}}}, sink)

	if err := r.Tick(context.Background()); err != nil {
		t.Fatalf("Tick error = %v", err)
	}
	if len(sink.replaced) != 1 {
		t.Fatalf("ReplaceCatalog called %d times, want 1", len(sink.replaced))
	}
	if sink.replaced[0][0].ID != "p1" {
		t.Errorf("installed product = %q, want p1", sink.replaced[0][0].ID)
	}
}

func TestTick_KeepsCatalogOnFailure(t *testing.T) {
	t.Parallel()
	sink := &fakeSink{}
	r := newTestRefresher(&fakeSource{err: errors.New("origin down")}, sink)

	if err := r.Tick(context.Background()); err == nil {
		t.Fatal("Tick error = nil, want error")
	}
	// A failed refresh must never touch the last-known-good catalog.
	if len(sink.replaced) != 0 {
		t.Errorf("ReplaceCatalog called %d times on failure, want 0", len(sink.replaced))
	}
}
