package messenger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestProfileFetch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/psid-1" {
			t.Errorf("path = %q, want /psid-1", r.URL.Path)
		}
		w.Write([]byte(`{"first_name": "Juan", "last_name": "Dela Cruz"}`))
	}))
	defer srv.Close()

	lookup := NewProfileLookup(newTestClient(srv.URL))
	profile, err := lookup.Fetch(context.Background(), "psid-1")
	if err != nil {
		t.Fatalf("Fetch error = %v", err)
	}
	if profile.FirstName != "Juan" || profile.LastName != "Dela Cruz" {
		t.Errorf("profile = %+v, want Juan Dela Cruz", profile)
	}
}

func TestProfileFetch_Error(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	lookup := NewProfileLookup(newTestClient(srv.URL))
	if _, err := lookup.Fetch(context.Background(), "psid-1"); err == nil {
		t.Error("Fetch error = nil, want error")
	}
}

func TestProfileFetch_CollapsesConcurrentLookups(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"first_name": "Juan"}`))
	}))
	defer srv.Close()

	lookup := NewProfileLookup(newTestClient(srv.URL))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lookup.Fetch(context.Background(), "psid-1")
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	if got := (Profile{FirstName: "Juan"}).DisplayName(); got != "Juan" {
		t.Errorf("DisplayName = %q, want Juan", got)
	}
	if got := (Profile{}).DisplayName(); got != FallbackDisplayName {
		t.Errorf("DisplayName = %q, want %q", got, FallbackDisplayName)
	}
}
