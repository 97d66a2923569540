package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestPerSenderLimiter_Allow(t *testing.T) {
	limiter := NewPerSenderLimiter(PerSenderConfig{
		MaxTokens:     3,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	// First 3 events should be allowed
	for i := 0; i < 3; i++ {
		if !limiter.Allow("sender1") {
			t.Errorf("Event %d should be allowed", i+1)
		}
	}

	// 4th event should be denied
	if limiter.Allow("sender1") {
		t.Error("4th event should be denied")
	}

	// Different sender should still be allowed
	if !limiter.Allow("sender2") {
		t.Error("Different sender should be allowed")
	}
}

func TestPerSenderLimiter_EmptySender(t *testing.T) {
	limiter := NewPerSenderLimiter(PerSenderConfig{
		MaxTokens:     1,
		RefillRate:    0.1,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	// Empty sender ID should always be allowed
	for i := 0; i < 10; i++ {
		if !limiter.Allow("") {
			t.Error("Empty sender ID should always be allowed")
		}
	}
}

func TestPerSenderLimiter_OnDrop(t *testing.T) {
	var mu sync.Mutex
	dropCount := 0

	limiter := NewPerSenderLimiter(PerSenderConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	limiter.OnDrop(func() {
		mu.Lock()
		dropCount++
		mu.Unlock()
	})

	limiter.Allow("sender1") // Consumes the only token
	limiter.Allow("sender1") // Dropped
	limiter.Allow("sender1") // Dropped

	mu.Lock()
	defer mu.Unlock()
	if dropCount != 2 {
		t.Errorf("dropCount = %d, want 2", dropCount)
	}
}

func TestPerSenderLimiter_ActiveCount(t *testing.T) {
	limiter := NewPerSenderLimiter(PerSenderConfig{
		MaxTokens:     5,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})
	defer limiter.Stop()

	limiter.Allow("sender1")
	limiter.Allow("sender2")
	limiter.Allow("sender1")

	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount() = %d, want 2", got)
	}
}

func TestPerSenderLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewPerSenderLimiter(PerSenderConfig{
		MaxTokens:     1,
		RefillRate:    1.0,
		CleanupPeriod: 1 * time.Minute,
	})

	limiter.Stop()
	limiter.Stop() // Should not panic
}
