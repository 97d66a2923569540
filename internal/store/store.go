// Package store provides the concurrency-safe shared state for the bot:
// the product catalog snapshot, the recent-message dedup window, and the
// per-user conversation contexts. All mutable state is owned here and
// reached only through synchronized operations.
package store

import (
	"sync"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/catalog"
	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/conversation"
)

// DedupWindow is how long a message id is remembered. Messenger may
// redeliver a webhook event well after the original, so the window is
// generous.
const DedupWindow = time.Hour

// SharedStore holds the catalog, dedup window, and conversation contexts.
// It is safe for concurrent use.
type SharedStore struct {
	catalogMu      sync.RWMutex
	products       []catalog.Product
	catalogUpdated time.Time

	seenMu sync.Mutex
	seen   map[string]time.Time

	ctxMu    sync.RWMutex
	contexts map[string]conversation.Context
	userMu   map[string]*sync.Mutex

	dedupWindow time.Duration
	now         func() time.Time
}

// New creates an empty store with the default dedup window.
func New() *SharedStore {
	return NewWithDedupWindow(DedupWindow)
}

// NewWithDedupWindow creates an empty store remembering message ids for
// the given duration. Non-positive durations fall back to the default.
func NewWithDedupWindow(window time.Duration) *SharedStore {
	if window <= 0 {
		window = DedupWindow
	}
	return &SharedStore{
		seen:        make(map[string]time.Time),
		contexts:    make(map[string]conversation.Context),
		userMu:      make(map[string]*sync.Mutex),
		dedupWindow: window,
		now:         time.Now,
	}
}

// ReplaceCatalog atomically installs a new catalog snapshot and records
// the update time. The slice is copied so the caller cannot mutate the
// installed snapshot afterwards.
func (s *SharedStore) ReplaceCatalog(products []catalog.Product) {
	snapshot := make([]catalog.Product, len(products))
	copy(snapshot, products)

	s.catalogMu.Lock()
	s.products = snapshot
	s.catalogUpdated = s.now()
	s.catalogMu.Unlock()
}

// SnapshotCatalog returns a copy of the current catalog. Readers never
// observe a partially replaced catalog.
func (s *SharedStore) SnapshotCatalog() []catalog.Product {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()

	snapshot := make([]catalog.Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// CatalogUpdatedAt returns when the catalog was last replaced, or the
// zero time if no refresh has succeeded yet.
func (s *SharedStore) CatalogUpdatedAt() time.Time {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	return s.catalogUpdated
}

// WasSeen reports whether the message id was already handled within the
// dedup window, inserting it if absent. Expired entries are evicted
// opportunistically on every call so the window never grows unbounded.
// The check-evict-insert sequence is atomic: two concurrent calls with
// the same id cannot both report "not seen".
func (s *SharedStore) WasSeen(messageID string) bool {
	now := s.now()

	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	for id, at := range s.seen {
		if now.Sub(at) > s.dedupWindow {
			delete(s.seen, id)
		}
	}

	if _, ok := s.seen[messageID]; ok {
		return true
	}
	s.seen[messageID] = now
	return false
}

// GetContext returns the user's conversation context, or the default
// Active context if none exists. Reading never creates an entry.
func (s *SharedStore) GetContext(userID string) conversation.Context {
	s.ctxMu.RLock()
	ctx, ok := s.contexts[userID]
	s.ctxMu.RUnlock()

	if !ok {
		return conversation.Context{State: conversation.StateActive, EnteredAt: s.now()}
	}
	return ctx
}

// SetContext upserts the context for a user.
func (s *SharedStore) SetContext(userID string, ctx conversation.Context) {
	s.ctxMu.Lock()
	s.contexts[userID] = ctx
	s.ctxMu.Unlock()
}

// UpdateContext runs fn with the user's current context and stores the
// result, serialized per user id. Concurrent deliveries for the same
// user cannot both win a transition race; different users do not block
// each other.
func (s *SharedStore) UpdateContext(userID string, fn func(conversation.Context) conversation.Context) conversation.Context {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	next := fn(s.GetContext(userID))
	s.SetContext(userID, next)
	return next
}

// userLock returns the mutex for a user, creating it on first use.
func (s *SharedStore) userLock(userID string) *sync.Mutex {
	s.ctxMu.RLock()
	mu, ok := s.userMu[userID]
	s.ctxMu.RUnlock()

	if !ok {
		s.ctxMu.Lock()
		// Double-check after acquiring write lock
		mu, ok = s.userMu[userID]
		if !ok {
			mu = &sync.Mutex{}
			s.userMu[userID] = mu
		}
		s.ctxMu.Unlock()
	}

	return mu
}
