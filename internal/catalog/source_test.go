package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
)

const catalogJSON = `[{"id": "ace-ovt-001", "name": "Ace Oversized Tee", "keywords": ["tee"], "price": "₱450"}]`

func TestHTTPSource_FetchAll(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL)
	products, err := source.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error = %v", err)
	}
	if len(products) != 1 || products[0].ID != "ace-ovt-001" {
		t.Errorf("got %v, want single ace-ovt-001", products)
	}
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL)
	source.maxRetries = 3
	products, err := source.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error = %v", err)
	}
	if len(products) != 1 {
		t.Errorf("len = %d, want 1", len(products))
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestHTTPSource_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL)
	source.maxRetries = 3
	if _, err := source.FetchAll(context.Background()); err == nil {
		t.Fatal("FetchAll error = nil, want error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 404)", calls.Load())
	}
}

func TestHTTPSource_MalformedBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL)
	_, err := source.FetchAll(context.Background())
	if !errors.Is(err, apperrors.ErrMalformedCatalog) {
		t.Errorf("error = %v, want ErrMalformedCatalog", err)
	}
}

func TestHTTPSource_EmptyCatalogRejected(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL)
	_, err := source.FetchAll(context.Background())
	if !errors.Is(err, apperrors.ErrMalformedCatalog) {
		t.Errorf("error = %v, want ErrMalformedCatalog", err)
	}
}
