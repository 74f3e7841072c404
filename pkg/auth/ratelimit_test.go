package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/observability"
)

// TestLimiterEnforcesTierBudget verifies that a tier's configured budget
// is applied and the first request over it is rejected.
func TestLimiterEnforcesTierBudget(t *testing.T) {
	limiter := NewInProcessLimiter(map[string]int{"basic": 3}, 100)
	id := &Identity{Subject: "alice", ServiceTier: "basic"}

	for i := 0; i < 3; i++ {
		if err := limiter.Allow(context.Background(), id); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}

	if err := limiter.Allow(context.Background(), id); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("request 4: err = %v, want ErrTooManyRequests", err)
	}
}

// TestLimiterFallsBackToDefaultBudget verifies that tiers without an
// explicit entry use the default budget.
func TestLimiterFallsBackToDefaultBudget(t *testing.T) {
	limiter := NewInProcessLimiter(map[string]int{"premium": 100}, 1)
	id := &Identity{Subject: "bob", ServiceTier: "unknown-tier"}

	if err := limiter.Allow(context.Background(), id); err != nil {
		t.Fatalf("first request: unexpected error: %v", err)
	}
	if err := limiter.Allow(context.Background(), id); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("second request: err = %v, want ErrTooManyRequests", err)
	}
}

// TestLimiterEmptyTierResolvesAsDefault verifies that identities without
// a service tier are budgeted under the default tier.
func TestLimiterEmptyTierResolvesAsDefault(t *testing.T) {
	limiter := NewInProcessLimiter(map[string]int{"default": 1}, 100)
	id := &Identity{Subject: "carol"}

	if err := limiter.Allow(context.Background(), id); err != nil {
		t.Fatalf("first request: unexpected error: %v", err)
	}
	if err := limiter.Allow(context.Background(), id); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("second request: err = %v, want ErrTooManyRequests", err)
	}
}

// TestLimiterZeroBudgetDisablesLimiting verifies that a zero or negative
// budget means no limit at all.
func TestLimiterZeroBudgetDisablesLimiting(t *testing.T) {
	limiter := NewInProcessLimiter(map[string]int{"internal": 0}, 5)
	id := &Identity{Subject: "svc", ServiceTier: "internal"}

	for i := 0; i < 50; i++ {
		if err := limiter.Allow(context.Background(), id); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}
}

// TestLimiterTracksSubjectsIndependently verifies that one subject
// exhausting its budget does not affect another.
func TestLimiterTracksSubjectsIndependently(t *testing.T) {
	limiter := NewInProcessLimiter(map[string]int{"basic": 1}, 100)
	alice := &Identity{Subject: "alice", ServiceTier: "basic"}
	bob := &Identity{Subject: "bob", ServiceTier: "basic"}

	if err := limiter.Allow(context.Background(), alice); err != nil {
		t.Fatalf("alice first request: unexpected error: %v", err)
	}
	if err := limiter.Allow(context.Background(), alice); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("alice second request: err = %v, want ErrTooManyRequests", err)
	}
	if err := limiter.Allow(context.Background(), bob); err != nil {
		t.Errorf("bob first request: unexpected error: %v", err)
	}
}

// TestLimiterCountsRejections verifies that each rejection increments the
// rate-limit rejection counter under the identity's tier.
func TestLimiterCountsRejections(t *testing.T) {
	before := rejectedCount(t, "metered")

	limiter := NewInProcessLimiter(map[string]int{"metered": 1}, 100)
	id := &Identity{Subject: "dave", ServiceTier: "metered"}

	if err := limiter.Allow(context.Background(), id); err != nil {
		t.Fatalf("first request: unexpected error: %v", err)
	}
	if err := limiter.Allow(context.Background(), id); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("second request: err = %v, want ErrTooManyRequests", err)
	}

	after := rejectedCount(t, "metered")
	if after-before != 1 {
		t.Errorf("expected rejection count to increase by 1, got delta=%f", after-before)
	}
}

// rejectedCount reads the current rejection counter value for a tier.
func rejectedCount(t *testing.T, tier string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := observability.RateLimitRejectedTotal.GetMetricWithLabelValues(tier)
	if err != nil {
		t.Fatalf("getting rejection counter: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing rejection counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
