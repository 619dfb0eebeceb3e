package middleware

import (
	"testing"
	"time"
)

func TestIPRateLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("request beyond burst should be denied")
	}
}

func TestIPRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute, 1, time.Minute)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first caller should be allowed")
	}
	if !limiter.Allow("5.6.7.8") {
		t.Fatal("a different caller must have its own bucket")
	}
}

func TestIPRateLimiterExpiresVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute, 1, time.Minute).(*ipRateLimiter)

	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	limiter.WithNowFunc(func() time.Time { return base })

	limiter.Allow("1.2.3.4")

	limiter.WithNowFunc(func() time.Time { return base.Add(2 * time.Minute) })
	limiter.Allow("5.6.7.8")

	limiter.mu.Lock()
	_, stale := limiter.visitors["1.2.3.4"]
	limiter.mu.Unlock()
	if stale {
		t.Fatal("expected idle visitor to be garbage collected")
	}
}
