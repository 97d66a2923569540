package ratelimit

import (
	"sync"
	"time"
)

// PerSenderConfig configures a PerSenderLimiter instance.
type PerSenderConfig struct {
	MaxTokens     float64       // Maximum tokens per sender (burst capacity)
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often to clean up inactive limiters
}

// PerSenderLimiter tracks rate limits per Messenger sender ID.
// It creates a separate token bucket for each sender and automatically
// cleans up buckets that have refilled to capacity.
type PerSenderLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	config   PerSenderConfig
	onDrop   func() // Optional callback when an event is dropped
	stopCh   chan struct{}
}

// NewPerSenderLimiter creates a new per-sender rate limiter.
// Remember to call Stop() when done to prevent goroutine leaks.
//
// Example:
//
//	limiter := NewPerSenderLimiter(PerSenderConfig{
//	    MaxTokens:     10,
//	    RefillRate:    0.2, // 1 token per 5 seconds
//	    CleanupPeriod: 5 * time.Minute,
//	})
//	defer limiter.Stop()
func NewPerSenderLimiter(cfg PerSenderConfig) *PerSenderLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}

	psl := &PerSenderLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go psl.cleanupLoop()

	return psl
}

// OnDrop sets a callback invoked when an event is dropped due to rate limiting.
func (psl *PerSenderLimiter) OnDrop(fn func()) {
	psl.onDrop = fn
}

// Allow checks if an event from the given sender is allowed.
// Returns true if allowed (token consumed), false if rate limit exceeded.
func (psl *PerSenderLimiter) Allow(senderID string) bool {
	if senderID == "" {
		return true
	}

	psl.mu.RLock()
	limiter, exists := psl.limiters[senderID]
	psl.mu.RUnlock()

	if !exists {
		psl.mu.Lock()
		// Double-check after acquiring write lock
		limiter, exists = psl.limiters[senderID]
		if !exists {
			limiter = New(psl.config.MaxTokens, psl.config.RefillRate)
			psl.limiters[senderID] = limiter
		}
		psl.mu.Unlock()
	}

	allowed := limiter.Allow()
	if !allowed && psl.onDrop != nil {
		psl.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of active limiters.
func (psl *PerSenderLimiter) ActiveCount() int {
	psl.mu.RLock()
	defer psl.mu.RUnlock()
	return len(psl.limiters)
}

// cleanupLoop periodically removes limiters that have refilled to capacity.
func (psl *PerSenderLimiter) cleanupLoop() {
	ticker := time.NewTicker(psl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-psl.stopCh:
			return
		case <-ticker.C:
			psl.mu.Lock()
			for senderID, limiter := range psl.limiters {
				if limiter.IsFull() {
					delete(psl.limiters, senderID)
				}
			}
			psl.mu.Unlock()
		}
	}
}

// Stop gracefully stops the cleanup goroutine.
// Safe to call multiple times.
func (psl *PerSenderLimiter) Stop() {
	select {
	case <-psl.stopCh:
		// Already stopped
	default:
		close(psl.stopCh)
	}
}
